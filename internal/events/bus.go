// Package events carries "a row changed" notifications from the admin
// controllers to whoever shows or caches that kind of row.
package events

import (
	"context"
	"sync"
)

// Kind names the entity that changed. Values are table names.
type Kind string

const (
	Products      Kind = "products"
	ContentBlocks Kind = "content_blocks"
	Testimonials  Kind = "testimonials"
)

// Action is what happened to the row.
type Action string

const (
	Created  Action = "created"
	Updated  Action = "updated"
	Deleted  Action = "deleted"
	Upserted Action = "upserted"
)

// Mutation describes one successful write.
type Mutation struct {
	Kind   Kind
	Action Action
	ID     string
}

// Handler reacts to a mutation. Handlers run synchronously on the publishing
// goroutine, in subscription order.
type Handler func(ctx context.Context, m Mutation)

// Bus is a goroutine-safe publish/subscribe hub keyed by Kind.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Kind]map[int]Handler
	order  map[Kind][]int
}

func NewBus() *Bus {
	return &Bus{
		subs:  make(map[Kind]map[int]Handler),
		order: make(map[Kind][]int),
	}
}

// Subscribe registers h for mutations of kind k. The returned func removes
// the subscription and may be called more than once.
func (b *Bus) Subscribe(k Kind, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subs[k] == nil {
		b.subs[k] = make(map[int]Handler)
	}
	b.subs[k][id] = h
	b.order[k] = append(b.order[k], id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(k, id) })
	}
}

func (b *Bus) remove(k Kind, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[k], id)
	ids := b.order[k]
	for i, v := range ids {
		if v == id {
			b.order[k] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}

// Publish calls every handler subscribed to m.Kind.
func (b *Bus) Publish(ctx context.Context, m Mutation) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order[m.Kind]))
	for _, id := range b.order[m.Kind] {
		handlers = append(handlers, b.subs[m.Kind][id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, m)
	}
}
