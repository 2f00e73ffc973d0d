// Package admin holds the admin panel's editing logic: the product draft
// state machine and the hero copy editor.
package admin

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"roomify/internal/events"
	"roomify/internal/models"
)

// DeletePrompt is the question a Confirmer is asked before a delete.
const DeletePrompt = "Are you sure you want to delete this product?"

// ErrNoDraft is returned by Submit and SetDraft when no draft is open.
var ErrNoDraft = errors.New("no product draft is open")

// State is the draft state of a ProductController.
type State int

const (
	Idle State = iota
	Creating
	Editing
)

func (s State) String() string {
	switch s {
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	default:
		return "idle"
	}
}

// Draft is the product form. Price is kept as typed so the form can echo it.
type Draft struct {
	Title       string `form:"title"`
	Price       string `form:"price"`
	ImageURL    string `form:"image_url"`
	Category    string `form:"category"`
	Description string `form:"description"`
	IsFeatured  bool   `form:"is_featured"`
	SortOrder   int    `form:"sort_order"`
}

// DefaultDraft is the form a new product starts from.
func DefaultDraft() Draft {
	return Draft{IsFeatured: true}
}

// DraftFrom copies a persisted product into a form.
func DraftFrom(p models.Product) Draft {
	return Draft{
		Title:       p.Title,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Description: p.Description,
		IsFeatured:  p.IsFeatured,
		SortOrder:   p.SortOrder,
	}
}

// ParsePrice parses a decimal price. Anything unparseable becomes NaN and is
// left for the store to reject.
func ParsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ProductWriter is the write half of the products table.
type ProductWriter interface {
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id string, patch *models.Product) error
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a func to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// ProductController edits one product draft at a time.
type ProductController struct {
	products ProductWriter
	// OnMutationSuccess runs after every successful insert, update and
	// delete, before the call returns.
	OnMutationSuccess func(ctx context.Context, m events.Mutation)

	state   State
	draft   Draft
	editing models.Product
}

func NewProductController(products ProductWriter, onMutationSuccess func(context.Context, events.Mutation)) *ProductController {
	return &ProductController{products: products, OnMutationSuccess: onMutationSuccess}
}

func (c *ProductController) State() State { return c.state }

func (c *ProductController) Draft() Draft { return c.draft }

// Editing returns the record being edited, if any.
func (c *ProductController) Editing() (models.Product, bool) {
	return c.editing, c.state == Editing
}

// Add opens an empty draft, discarding any open one.
func (c *ProductController) Add() {
	c.state = Creating
	c.draft = DefaultDraft()
	c.editing = models.Product{}
}

// Edit opens a draft holding p's persisted values.
func (c *ProductController) Edit(p models.Product) {
	c.state = Editing
	c.draft = DraftFrom(p)
	c.editing = p
}

// SetDraft replaces the open draft's fields.
func (c *ProductController) SetDraft(d Draft) error {
	if c.state == Idle {
		return ErrNoDraft
	}
	c.draft = d
	return nil
}

// Cancel discards the draft.
func (c *ProductController) Cancel() {
	c.state = Idle
	c.draft = Draft{}
	c.editing = models.Product{}
}

// Submit inserts or updates the draft. On success the draft is closed and
// OnMutationSuccess is called; on failure the draft stays open.
func (c *ProductController) Submit(ctx context.Context) error {
	row := models.Product{
		Title:       c.draft.Title,
		Price:       ParsePrice(c.draft.Price),
		ImageURL:    c.draft.ImageURL,
		Category:    c.draft.Category,
		Description: c.draft.Description,
		IsFeatured:  c.draft.IsFeatured,
		SortOrder:   c.draft.SortOrder,
	}

	var m events.Mutation
	switch c.state {
	case Creating:
		if err := c.products.Insert(ctx, &row); err != nil {
			return err
		}
		m = events.Mutation{Kind: events.Products, Action: events.Created, ID: row.ID}
	case Editing:
		row.Base = c.editing.Base
		if err := c.products.Update(ctx, c.editing.ID, &row); err != nil {
			return err
		}
		m = events.Mutation{Kind: events.Products, Action: events.Updated, ID: c.editing.ID}
	default:
		return ErrNoDraft
	}

	c.Cancel()
	c.notify(ctx, m)
	return nil
}

// Delete removes the product with id once confirm agrees. It reports whether
// a delete was issued and succeeded.
func (c *ProductController) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		return false, nil
	}
	if err := c.products.Delete(ctx, id); err != nil {
		return false, err
	}
	c.notify(ctx, events.Mutation{Kind: events.Products, Action: events.Deleted, ID: id})
	return true, nil
}

func (c *ProductController) notify(ctx context.Context, m events.Mutation) {
	if c.OnMutationSuccess != nil {
		c.OnMutationSuccess(ctx, m)
	}
}
