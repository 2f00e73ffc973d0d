package admin

import (
	"context"
	"time"

	"roomify/internal/events"
	"roomify/internal/models"
	"roomify/internal/store"
)

// BlockReader is the read half of the content_blocks table.
type BlockReader interface {
	Select(ctx context.Context, q store.Query) ([]models.ContentBlock, error)
}

// LoadHero returns the stored hero copy. A block that does not exist yet
// comes back empty.
func LoadHero(ctx context.Context, blocks BlockReader) (headline, subtext string, err error) {
	rows, err := blocks.Select(ctx, store.Query{
		Filters: []store.Filter{store.In("block_key", models.BlockHeroHeadline, models.BlockHeroSubtext)},
	})
	if err != nil {
		return "", "", err
	}
	for _, b := range rows {
		switch b.BlockKey {
		case models.BlockHeroHeadline:
			headline = b.Content
		case models.BlockHeroSubtext:
			subtext = b.Content
		}
	}
	return headline, subtext, nil
}

// BlockUpserter is the write half of the content_blocks table.
type BlockUpserter interface {
	Upsert(ctx context.Context, b *models.ContentBlock, conflictKey string) error
}

// HeroEditor saves the two hero blocks.
type HeroEditor struct {
	blocks            BlockUpserter
	OnMutationSuccess func(ctx context.Context, m events.Mutation)
	now               func() time.Time
}

func NewHeroEditor(blocks BlockUpserter, onMutationSuccess func(context.Context, events.Mutation)) *HeroEditor {
	return &HeroEditor{blocks: blocks, OnMutationSuccess: onMutationSuccess, now: time.Now}
}

// Save upserts hero_headline then hero_subtext, stopping at the first
// failure. Each block that was written is reported.
func (h *HeroEditor) Save(ctx context.Context, headline, subtext string) error {
	now := h.now().UTC()
	blocks := []models.ContentBlock{
		{BlockKey: models.BlockHeroHeadline, Content: headline, UpdatedAt: now},
		{BlockKey: models.BlockHeroSubtext, Content: subtext, UpdatedAt: now},
	}
	for i := range blocks {
		if err := h.blocks.Upsert(ctx, &blocks[i], "block_key"); err != nil {
			return err
		}
		if h.OnMutationSuccess != nil {
			h.OnMutationSuccess(ctx, events.Mutation{
				Kind:   events.ContentBlocks,
				Action: events.Upserted,
				ID:     blocks[i].BlockKey,
			})
		}
	}
	return nil
}
