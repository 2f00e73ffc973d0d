// Package content loads what the public pages and the admin panel show.
// Public reads go through a cache that is emptied whenever the admin panel
// reports a mutation.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"roomify/internal/cache"
	"roomify/internal/events"
	"roomify/internal/models"
	"roomify/internal/store"
)

// FeaturedLimit is how many featured products the landing page shows.
const FeaturedLimit = 6

const (
	keyHero         = "content:hero"
	keyFeatured     = "products:featured"
	keyProducts     = "products:all"
	keyTestimonials = "testimonials:active"
)

// Reader is the read half of a store table.
type Reader[T any] interface {
	Select(ctx context.Context, q store.Query) ([]T, error)
}

// Sources are the tables the fetcher reads.
type Sources struct {
	Products      Reader[models.Product]
	ContentBlocks Reader[models.ContentBlock]
	Testimonials  Reader[models.Testimonial]
}

// SourcesFromStore adapts a store.Store.
func SourcesFromStore(s *store.Store) Sources {
	return Sources{Products: s.Products, ContentBlocks: s.ContentBlocks, Testimonials: s.Testimonials}
}

type Fetcher struct {
	src      Sources
	cache    cache.Cache
	ttl      time.Duration
	renderer *Renderer
	log      *zap.Logger
}

// NewFetcher returns a fetcher. A nil cache disables caching.
func NewFetcher(src Sources, c cache.Cache, ttl time.Duration, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{src: src, cache: c, ttl: ttl, renderer: NewRenderer(), log: log}
}

// Uncached returns a fetcher over the same sources that always hits the
// database. The admin panel uses it so it only ever shows confirmed rows.
func (f *Fetcher) Uncached() *Fetcher {
	cp := *f
	cp.cache = nil
	return &cp
}

// Hero loads the hero copy. Missing blocks keep their default text.
func (f *Fetcher) Hero(ctx context.Context) (Hero, error) {
	blocks, err := cached(ctx, f, keyHero, func() ([]models.ContentBlock, error) {
		return f.src.ContentBlocks.Select(ctx, store.Query{
			Filters: []store.Filter{store.In("block_key", models.BlockHeroHeadline, models.BlockHeroSubtext)},
		})
	})
	if err != nil {
		return f.renderer.Hero(DefaultHeadline, DefaultSubtext), err
	}
	headline, subtext := DefaultHeadline, DefaultSubtext
	for _, b := range blocks {
		switch b.BlockKey {
		case models.BlockHeroHeadline:
			headline = b.Content
		case models.BlockHeroSubtext:
			subtext = b.Content
		}
	}
	return f.renderer.Hero(headline, subtext), nil
}

// FeaturedProducts returns up to FeaturedLimit featured products by sort order.
func (f *Fetcher) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	return cached(ctx, f, keyFeatured, func() ([]models.Product, error) {
		return f.src.Products.Select(ctx, store.Query{
			Filters: []store.Filter{store.Eq("is_featured", true)},
			OrderBy: "sort_order",
			Limit:   FeaturedLimit,
		})
	})
}

// Products returns every product by sort order.
func (f *Fetcher) Products(ctx context.Context) ([]models.Product, error) {
	return cached(ctx, f, keyProducts, func() ([]models.Product, error) {
		return f.src.Products.Select(ctx, store.Query{OrderBy: "sort_order"})
	})
}

// ActiveTestimonials returns the testimonials shown on the landing page.
func (f *Fetcher) ActiveTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	return cached(ctx, f, keyTestimonials, func() ([]models.Testimonial, error) {
		return f.src.Testimonials.Select(ctx, store.Query{
			Filters: []store.Filter{store.Eq("is_active", true)},
			OrderBy: "sort_order",
		})
	})
}

// AllTestimonials returns active and inactive testimonials, uncached.
func (f *Fetcher) AllTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	return f.src.Testimonials.Select(ctx, store.Query{OrderBy: "sort_order"})
}

// Landing loads the three data-driven sections of the home page
// concurrently. A failed section is logged and left empty (or at its
// defaults) so the rest of the page still renders; the first error is
// returned alongside.
func (f *Fetcher) Landing(ctx context.Context) (Landing, error) {
	l := Landing{
		Highlights: Highlights,
		Lookbook:   Lookbook,
		Journal:    Journal,
		Stats:      Stats,
	}
	var g errgroup.Group
	g.Go(func() error {
		var err error
		l.Hero, err = f.Hero(ctx)
		return f.logged("hero", err)
	})
	g.Go(func() error {
		var err error
		l.Featured, err = f.FeaturedProducts(ctx)
		return f.logged("featured products", err)
	})
	g.Go(func() error {
		var err error
		l.Testimonials, err = f.ActiveTestimonials(ctx)
		return f.logged("testimonials", err)
	})
	return l, g.Wait()
}

func (f *Fetcher) logged(section string, err error) error {
	if err != nil {
		f.log.Error("loading landing section", zap.String("section", section), zap.Error(err))
	}
	return err
}

// Watch empties the cached reads affected by each mutation published on bus.
func (f *Fetcher) Watch(bus *events.Bus) (unsubscribe func()) {
	drop := func(keys ...string) events.Handler {
		return func(ctx context.Context, m events.Mutation) {
			if f.cache == nil {
				return
			}
			if err := f.cache.Delete(ctx, keys...); err != nil {
				f.log.Warn("invalidating cache", zap.String("kind", string(m.Kind)), zap.Error(err))
			}
		}
	}
	unsubs := []func(){
		bus.Subscribe(events.Products, drop(keyFeatured, keyProducts)),
		bus.Subscribe(events.ContentBlocks, drop(keyHero)),
		bus.Subscribe(events.Testimonials, drop(keyTestimonials)),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// cached reads key from the fetcher's cache, falling back to load and
// storing its result. Cache failures only cost a database read.
func cached[T any](ctx context.Context, f *Fetcher, key string, load func() ([]T, error)) ([]T, error) {
	if f.cache == nil {
		return load()
	}
	if b, err := f.cache.Get(ctx, key); err == nil {
		var rows []T
		if err := json.Unmarshal(b, &rows); err == nil {
			return rows, nil
		}
		f.log.Warn("discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, cache.ErrMiss) {
		f.log.Warn("cache read", zap.String("key", key), zap.Error(err))
	}

	rows, err := load()
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(rows); err == nil {
		if err := f.cache.Set(ctx, key, b, f.ttl); err != nil {
			f.log.Warn("cache write", zap.String("key", key), zap.Error(err))
		}
	}
	return rows, nil
}
