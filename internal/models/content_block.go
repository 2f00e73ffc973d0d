package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Well-known content block keys edited from the admin panel.
const (
	BlockHeroHeadline = "hero_headline"
	BlockHeroSubtext  = "hero_subtext"
)

// ContentBlock is a keyed unit of marketing copy (content_blocks table).
// Rows are pre-seeded and only ever upserted on BlockKey.
type ContentBlock struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	BlockKey  string    `gorm:"uniqueIndex;not null" json:"block_key" validate:"required"`
	Content   string    `gorm:"type:text" json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

const ContentBlockTable = "content_blocks"

func (ContentBlock) TableName() string { return ContentBlockTable }

func (b *ContentBlock) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
