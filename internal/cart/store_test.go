package cart

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemNewLine(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: "car-1", Name: "Land Cruiser", UnitPrice: 9000000}, 1)

	assert.Equal(t, int64(1), s.TotalItems())
	assert.Equal(t, int64(9000000), s.TotalPrice())
	assert.Equal(t, 1, s.LineCount())
}

func TestAddItemMergesByID(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: "car-1", Name: "Land Cruiser", UnitPrice: 9000000}, 1)
	s.AddItem(Item{ID: "car-1", Name: "Land Cruiser", UnitPrice: 9000000}, 2)

	assert.Equal(t, 1, s.LineCount())
	assert.Equal(t, int64(3), s.TotalItems())
	assert.Equal(t, int64(27000000), s.TotalPrice())
}

func TestAddItemIgnoresNonPositiveQuantity(t *testing.T) {
	s := NewStore()
	notified := false
	s.Subscribe(func(Snapshot) { notified = true })

	s.AddItem(Item{ID: "car-1", UnitPrice: 100}, 0)
	s.AddItem(Item{ID: "car-1", UnitPrice: 100}, -5)

	assert.Equal(t, 0, s.LineCount())
	assert.False(t, notified, "rejected adds must not notify subscribers")
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: "a", Name: "Axio"}, 1)
	s.AddItem(Item{ID: "b", Name: "Belta"}, 1)
	s.AddItem(Item{ID: "a", Name: "Axio"}, 1)
	s.AddItem(Item{ID: "c", Name: "Crown"}, 1)

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: "car-1", UnitPrice: 500}, 5)
	s.UpdateQuantity("car-1", 2)

	assert.Equal(t, int64(2), s.TotalItems())
	assert.Equal(t, int64(1000), s.TotalPrice())
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: "car-1", UnitPrice: 500}, 2)
	s.UpdateQuantity("car-1", 0)

	assert.Equal(t, 0, s.LineCount())

	s.AddItem(Item{ID: "car-2", UnitPrice: 300}, 1)
	s.UpdateQuantity("car-2", -1)
	assert.Equal(t, 0, s.LineCount())
}

func TestItemCountPerProduct(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: "car-1", UnitPrice: 500}, 3)
	s.AddItem(Item{ID: "car-2", UnitPrice: 300}, 1)

	assert.Equal(t, int64(3), s.ItemCount("car-1"))
	assert.Equal(t, int64(1), s.ItemCount("car-2"))
	assert.Equal(t, int64(0), s.ItemCount("ghost"))

	s.UpdateQuantity("car-1", 0)
	assert.Equal(t, int64(0), s.ItemCount("car-1"))
	assert.Equal(t, int64(1), s.ItemCount("car-2"))
}

func TestRemoveItemUnknownIDIsNoOp(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: "car-1"}, 1)
	s.RemoveItem("ghost")

	assert.Equal(t, 1, s.LineCount())
}

func TestClearEmptiesCartButKeepsDrawerState(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: "car-1", UnitPrice: 100}, 2)
	s.OpenCart()
	s.Clear()

	assert.Equal(t, 0, s.LineCount())
	assert.Equal(t, int64(0), s.TotalPrice())
	assert.True(t, s.IsOpen())
}

func TestDrawerToggle(t *testing.T) {
	s := NewStore()
	assert.False(t, s.IsOpen())

	s.ToggleCart()
	assert.True(t, s.IsOpen())
	s.ToggleCart()
	assert.False(t, s.IsOpen())
	s.OpenCart()
	s.OpenCart()
	assert.True(t, s.IsOpen())
	s.CloseCart()
	assert.False(t, s.IsOpen())
}

func TestSubscribersNotifiedInMutationOrder(t *testing.T) {
	s := NewStore()
	var totals []int64
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		totals = append(totals, snap.TotalItems)
	})

	s.AddItem(Item{ID: "car-1"}, 1)
	s.AddItem(Item{ID: "car-1"}, 2)
	s.RemoveItem("car-1")

	assert.Equal(t, []int64{1, 3, 0}, totals)

	unsubscribe()
	s.AddItem(Item{ID: "car-2"}, 1)
	assert.Len(t, totals, 3, "unsubscribed observers must not be called")
}

func TestSnapshotTotals(t *testing.T) {
	s := NewStore()
	s.AddItem(Item{ID: "car-1", UnitPrice: 4500000}, 1)
	s.AddItem(Item{ID: "car-2", UnitPrice: 2000000}, 2)

	snap := s.Snapshot()
	assert.Equal(t, int64(3), snap.TotalItems)
	assert.Equal(t, int64(8500000), snap.TotalPrice)
	assert.Equal(t, 2, snap.ItemCount)
}

func TestRegistryIsolatesSessions(t *testing.T) {
	r := NewRegistry(0)

	r.Get("session-a").AddItem(Item{ID: "car-1"}, 1)
	r.Get("session-b").AddItem(Item{ID: "car-2"}, 5)

	assert.Equal(t, int64(1), r.Get("session-a").TotalItems())
	assert.Equal(t, int64(5), r.Get("session-b").TotalItems())
	assert.Equal(t, 2, r.Len())
}

func TestRegistrySweepEvictsIdleCarts(t *testing.T) {
	r := NewRegistry(time.Hour)
	current := time.Now()
	r.now = func() time.Time { return current }

	r.Get("stale")
	current = current.Add(2 * time.Hour)
	r.Get("fresh")

	removed := r.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())
}

func TestCheckoutMessageFormat(t *testing.T) {
	items := []Item{
		{Name: "2023 Toyota Land Cruiser V8", Slug: "2023-toyota-land-cruiser-v8"},
		{Name: "2020 Mazda CX-5", Slug: "2020-mazda-cx-5"},
	}

	msg := CheckoutMessage(items, "https://rideright.ke")
	want := "Hi I'm interested in the 2023 Toyota Land Cruiser V8\n" +
		"Link: https://rideright.ke/products/2023-toyota-land-cruiser-v8\n" +
		", 2020 Mazda CX-5\n" +
		"Link: https://rideright.ke/products/2020-mazda-cx-5\n"
	assert.Equal(t, want, msg)
}

func TestCheckoutLink(t *testing.T) {
	items := []Item{{Name: "Demio", Slug: "demio"}}
	link := CheckoutLink(items, CheckoutOptions{})

	require.True(t, strings.HasPrefix(link, "https://api.whatsapp.com/send/?"))

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "254741535521", q.Get("phone"))
	assert.Equal(t, "phone_number", q.Get("type"))
	assert.Equal(t, "0", q.Get("app_absent"))
	assert.Equal(t, CheckoutMessage(items, "https://rideright.ke"), q.Get("text"))
}
