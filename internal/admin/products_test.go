package admin

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomify/internal/events"
	"roomify/internal/models"
)

type call struct {
	op  string
	id  string
	row models.Product
}

// fakeProducts records every write.
type fakeProducts struct {
	calls []call
	err   error
}

func (f *fakeProducts) Insert(_ context.Context, p *models.Product) error {
	f.calls = append(f.calls, call{op: "insert", row: *p})
	if f.err != nil {
		return f.err
	}
	p.ID = "new-id"
	return nil
}

func (f *fakeProducts) Update(_ context.Context, id string, p *models.Product) error {
	f.calls = append(f.calls, call{op: "update", id: id, row: *p})
	return f.err
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, call{op: "delete", id: id})
	return f.err
}

func newController(w *fakeProducts) (*ProductController, *[]events.Mutation) {
	var refetches []events.Mutation
	c := NewProductController(w, func(_ context.Context, m events.Mutation) {
		refetches = append(refetches, m)
	})
	return c, &refetches
}

func TestAddResetsDraft(t *testing.T) {
	c, _ := newController(&fakeProducts{})
	assert.Equal(t, Idle, c.State())

	c.Edit(models.Product{Title: "Lamp", Price: 10})
	c.Add()

	assert.Equal(t, Creating, c.State())
	assert.Equal(t, Draft{IsFeatured: true}, c.Draft())
	_, editing := c.Editing()
	assert.False(t, editing)
}

func TestCreateCoercesPriceAndRefetchesOnce(t *testing.T) {
	w := &fakeProducts{}
	c, refetches := newController(w)

	c.Add()
	d := c.Draft()
	d.Title, d.Price, d.Category = "Brass Vase", "189.00", "vases"
	require.NoError(t, c.SetDraft(d))
	assert.Empty(t, *refetches)

	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, w.calls, 1)
	assert.Equal(t, "insert", w.calls[0].op)
	assert.Equal(t, 189.0, w.calls[0].row.Price)
	assert.Equal(t, "Brass Vase", w.calls[0].row.Title)
	assert.Equal(t, "vases", w.calls[0].row.Category)
	assert.True(t, w.calls[0].row.IsFeatured)

	require.Len(t, *refetches, 1)
	assert.Equal(t, events.Mutation{Kind: events.Products, Action: events.Created, ID: "new-id"}, (*refetches)[0])
	assert.Equal(t, Idle, c.State(), "dialog closes after a successful insert")
}

func TestCreateFailureKeepsDraftOpen(t *testing.T) {
	w := &fakeProducts{err: errors.New("duplicate key value violates unique constraint")}
	c, refetches := newController(w)

	c.Add()
	require.NoError(t, c.SetDraft(Draft{Title: "Rug", Price: "49"}))
	err := c.Submit(context.Background())

	require.EqualError(t, err, "duplicate key value violates unique constraint")
	assert.Equal(t, Creating, c.State())
	assert.Equal(t, "Rug", c.Draft().Title)
	assert.Empty(t, *refetches)
	assert.Len(t, w.calls, 1, "no automatic retry")
}

func TestEditWithoutChangesUpdatesIdenticalValues(t *testing.T) {
	w := &fakeProducts{}
	c, refetches := newController(w)
	orig := models.Product{
		Base:        models.Base{ID: "p-42", CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		Title:       "Linen Throw",
		Price:       64.5,
		ImageURL:    "https://example.com/throw.jpg",
		Category:    "Textiles",
		Description: "Soft stonewashed linen.",
		IsFeatured:  false,
		SortOrder:   7,
	}

	c.Edit(orig)
	assert.Equal(t, Editing, c.State())
	assert.Equal(t, "64.5", c.Draft().Price)

	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, w.calls, 1)
	assert.Equal(t, "update", w.calls[0].op)
	assert.Equal(t, "p-42", w.calls[0].id)
	assert.Equal(t, orig, w.calls[0].row)
	require.Len(t, *refetches, 1)
	assert.Equal(t, events.Updated, (*refetches)[0].Action)
	assert.Equal(t, Idle, c.State())
}

func TestNonNumericPriceIsPassedThrough(t *testing.T) {
	w := &fakeProducts{}
	c, _ := newController(w)

	c.Add()
	require.NoError(t, c.SetDraft(Draft{Title: "Bowl", Price: "twelve"}))
	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, w.calls, 1)
	assert.True(t, math.IsNaN(w.calls[0].row.Price))
}

func TestSubmitWithoutDraft(t *testing.T) {
	w := &fakeProducts{}
	c, _ := newController(w)

	assert.ErrorIs(t, c.Submit(context.Background()), ErrNoDraft)
	assert.ErrorIs(t, c.SetDraft(Draft{}), ErrNoDraft)
	assert.Empty(t, w.calls)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		w := &fakeProducts{}
		c, refetches := newController(w)
		var asked string

		deleted, err := c.Delete(ctx, "p-1", ConfirmFunc(func(prompt string) bool {
			asked = prompt
			return false
		}))

		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Equal(t, DeletePrompt, asked)
		assert.Empty(t, w.calls)
		assert.Empty(t, *refetches)

		deleted, err = c.Delete(ctx, "p-1", nil)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Empty(t, w.calls)
	})

	t.Run("confirmed", func(t *testing.T) {
		w := &fakeProducts{}
		c, refetches := newController(w)

		deleted, err := c.Delete(ctx, "p-1", ConfirmFunc(func(string) bool { return true }))

		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, []call{{op: "delete", id: "p-1"}}, w.calls)
		require.Len(t, *refetches, 1)
		assert.Equal(t, events.Deleted, (*refetches)[0].Action)
	})

	t.Run("backend failure", func(t *testing.T) {
		w := &fakeProducts{err: errors.New("permission denied for table products")}
		c, refetches := newController(w)

		deleted, err := c.Delete(ctx, "p-1", ConfirmFunc(func(string) bool { return true }))

		require.Error(t, err)
		assert.False(t, deleted)
		assert.Len(t, w.calls, 1)
		assert.Empty(t, *refetches)
	})
}

func TestCancelDiscardsDraft(t *testing.T) {
	w := &fakeProducts{}
	c, _ := newController(w)
	c.Edit(models.Product{Base: models.Base{ID: "p-1"}, Title: "Lamp"})
	c.Cancel()

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, Draft{}, c.Draft())
	assert.Empty(t, w.calls)
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 189.0, ParsePrice("189.00"))
	assert.Equal(t, 12.5, ParsePrice(" 12.5 "))
	assert.True(t, math.IsNaN(ParsePrice("")))
	assert.True(t, math.IsNaN(ParsePrice("12,50")))
}
