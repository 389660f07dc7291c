// Package stream fans price updates out to connected subscribers. The
// provider has no push API, so the hub republishes resolver output on the
// quarter-hour cadence instead.
package stream

import (
	"sync"
	"time"

	"github.com/Ondalf/spothinta/internal/model"
)

// PriceUpdate is one published price document.
type PriceUpdate struct {
	Region     model.Region       `json:"region"`
	Variant    model.PriceVariant `json:"variant"`
	Price      *float64           `json:"price"`
	ResolvedAt time.Time          `json:"resolved_at"`
}

// subscriberBuffer bounds how many undelivered updates a slow subscriber
// may hold before newer updates overwrite older ones.
const subscriberBuffer = 8

// Subscriber receives the updates matching its region and variant.
type Subscriber struct {
	region  model.Region
	variant model.PriceVariant
	ch      chan PriceUpdate
}

// Updates returns the subscriber's delivery channel. Closed on Unsubscribe.
func (s *Subscriber) Updates() <-chan PriceUpdate {
	return s.ch
}

// Hub distributes price updates to subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers a subscriber for one region and variant.
func (h *Hub) Subscribe(region model.Region, variant model.PriceVariant) *Subscriber {
	sub := &Subscriber{
		region:  region,
		variant: variant,
		ch:      make(chan PriceUpdate, subscriberBuffer),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	if ok {
		delete(h.subs, sub)
	}
	h.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

// Publish delivers the update to every matching subscriber. A subscriber
// whose buffer is full loses its oldest undelivered update; Publish never
// blocks the scheduler.
func (h *Hub) Publish(update PriceUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if sub.region != update.Region || sub.variant != update.Variant {
			continue
		}
		select {
		case sub.ch <- update:
		default:
			// Buffer full: drop the oldest undelivered update.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- update:
			default:
			}
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
