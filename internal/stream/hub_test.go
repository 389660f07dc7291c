package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ondalf/spothinta/internal/model"
)

func update(region model.Region, variant model.PriceVariant, price float64) PriceUpdate {
	return PriceUpdate{
		Region:     region,
		Variant:    variant,
		Price:      &price,
		ResolvedAt: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestHub_PublishReachesMatchingSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(model.RegionFI, model.VariantWithTax)
	defer hub.Unsubscribe(sub)

	hub.Publish(update(model.RegionFI, model.VariantWithTax, 0.07))

	select {
	case got := <-sub.Updates():
		require.NotNil(t, got.Price)
		assert.Equal(t, 0.07, *got.Price)
		assert.Equal(t, model.RegionFI, got.Region)
	default:
		t.Fatal("expected a buffered update")
	}
}

func TestHub_PublishFiltersByRegionAndVariant(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(model.RegionFI, model.VariantWithTax)
	defer hub.Unsubscribe(sub)

	hub.Publish(update(model.RegionSE1, model.VariantWithTax, 1))
	hub.Publish(update(model.RegionFI, model.VariantWithoutTax, 2))

	select {
	case got := <-sub.Updates():
		t.Fatalf("unexpected update: %+v", got)
	default:
	}
}

func TestHub_SlowSubscriberLosesOldest(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(model.RegionFI, model.VariantWithTax)
	defer hub.Unsubscribe(sub)

	for i := 0; i <= subscriberBuffer; i++ {
		hub.Publish(update(model.RegionFI, model.VariantWithTax, float64(i)))
	}

	// The first update was dropped to make room for the newest.
	got := <-sub.Updates()
	require.NotNil(t, got.Price)
	assert.Equal(t, 1.0, *got.Price)

	drained := 1
	for {
		select {
		case <-sub.Updates():
			drained++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, drained)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(model.RegionFI, model.VariantWithTax)

	assert.Equal(t, 1, hub.Subscribers())
	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.Subscribers())

	_, open := <-sub.Updates()
	assert.False(t, open)

	// Publishing after unsubscribe is a no-op, and double unsubscribe is
	// safe.
	hub.Publish(update(model.RegionFI, model.VariantWithTax, 1))
	hub.Unsubscribe(sub)
}

func TestHub_NilPriceUpdate(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(model.RegionFI, model.VariantWithTax)
	defer hub.Unsubscribe(sub)

	hub.Publish(PriceUpdate{Region: model.RegionFI, Variant: model.VariantWithTax})

	got := <-sub.Updates()
	assert.Nil(t, got.Price)
}
