package content

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomify/internal/cache"
	"roomify/internal/events"
	"roomify/internal/models"
	"roomify/internal/store"
)

// fakeReader returns rows and records the queries it was given.
type fakeReader[T any] struct {
	mu      sync.Mutex
	rows    []T
	err     error
	queries []store.Query
}

func (f *fakeReader[T]) Select(_ context.Context, q store.Query) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return append([]T(nil), f.rows...), nil
}

func (f *fakeReader[T]) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fixture struct {
	products     *fakeReader[models.Product]
	blocks       *fakeReader[models.ContentBlock]
	testimonials *fakeReader[models.Testimonial]
}

func newFixture() fixture {
	return fixture{
		products: &fakeReader[models.Product]{rows: []models.Product{
			{Base: models.Base{ID: "p1"}, Title: "Brass Vase", Category: "Vases", IsFeatured: true},
		}},
		blocks: &fakeReader[models.ContentBlock]{rows: []models.ContentBlock{
			{BlockKey: models.BlockHeroHeadline, Content: "Live beautifully"},
		}},
		testimonials: &fakeReader[models.Testimonial]{rows: []models.Testimonial{
			{CustomerName: "Ada", Content: "Gorgeous", Rating: 5, IsActive: true},
		}},
	}
}

func (fx fixture) sources() Sources {
	return Sources{Products: fx.products, ContentBlocks: fx.blocks, Testimonials: fx.testimonials}
}

func TestHeroFallsBackToDefaults(t *testing.T) {
	fx := newFixture()
	f := NewFetcher(fx.sources(), nil, 0, nil)

	hero, err := f.Hero(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Live beautifully", hero.Headline)
	assert.Equal(t, DefaultSubtext, hero.Subtext)

	q := fx.blocks.queries[0]
	require.Len(t, q.Filters, 1)
	assert.Equal(t, "block_key", q.Filters[0].Column)
	assert.Equal(t, []any{models.BlockHeroHeadline, models.BlockHeroSubtext}, q.Filters[0].Values)
}

func TestHeroSubtextIsSanitisedMarkdown(t *testing.T) {
	fx := newFixture()
	fx.blocks.rows = []models.ContentBlock{
		{BlockKey: models.BlockHeroSubtext, Content: "Shop **new** arrivals <script>alert(1)</script>"},
	}
	f := NewFetcher(fx.sources(), nil, 0, nil)

	hero, err := f.Hero(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(hero.SubtextHTML), "<strong>new</strong>")
	assert.NotContains(t, string(hero.SubtextHTML), "<script>")
}

func TestFeaturedProductsQuery(t *testing.T) {
	fx := newFixture()
	f := NewFetcher(fx.sources(), nil, 0, nil)

	_, err := f.FeaturedProducts(context.Background())
	require.NoError(t, err)

	q := fx.products.queries[0]
	assert.Equal(t, FeaturedLimit, q.Limit)
	assert.Equal(t, "sort_order", q.OrderBy)
	assert.Equal(t, []store.Filter{store.Eq("is_featured", true)}, q.Filters)
}

func TestCachedReadsAndInvalidation(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	bus := events.NewBus()
	f := NewFetcher(fx.sources(), cache.NewMemory(time.Minute), time.Minute, nil)
	defer f.Watch(bus)()

	for i := 0; i < 3; i++ {
		got, err := f.Products(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Brass Vase", got[0].Title)
	}
	assert.Equal(t, 1, fx.products.calls())

	// an unrelated mutation keeps the product cache
	bus.Publish(ctx, events.Mutation{Kind: events.Testimonials})
	_, _ = f.Products(ctx)
	assert.Equal(t, 1, fx.products.calls())

	bus.Publish(ctx, events.Mutation{Kind: events.Products, Action: events.Deleted, ID: "p1"})
	_, _ = f.Products(ctx)
	assert.Equal(t, 2, fx.products.calls())

	// the admin view never reads from the cache
	_, _ = f.Uncached().Products(ctx)
	assert.Equal(t, 3, fx.products.calls())
}

func TestLandingLoadsSectionsAndKeepsGoingOnError(t *testing.T) {
	fx := newFixture()
	fx.testimonials.err = errors.New("connection refused")
	f := NewFetcher(fx.sources(), nil, 0, nil)

	l, err := f.Landing(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))

	assert.Equal(t, "Live beautifully", l.Hero.Headline)
	assert.Len(t, l.Featured, 1)
	assert.Empty(t, l.Testimonials)
	assert.Len(t, l.Highlights, 3)
	assert.NotEmpty(t, l.Lookbook)
	assert.Len(t, l.Journal, 4)
	assert.Len(t, l.Stats, 4)
}

func TestAllTestimonialsIncludesInactive(t *testing.T) {
	fx := newFixture()
	f := NewFetcher(fx.sources(), cache.NewMemory(0), 0, nil)

	_, err := f.AllTestimonials(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fx.testimonials.queries[0].Filters)
}
