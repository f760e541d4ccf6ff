package app

import (
	"testing"

	"github.com/riceschool/storefront/internal/cart/domain"
)

func rice() domain.ProductInfo {
	return domain.ProductInfo{ID: "product-1", Name: "Brown Rice", Brand: "Hillside Farm", Price: 100}
}

func honey() domain.ProductInfo {
	return domain.ProductInfo{ID: "product-2", Name: "Honey", Brand: "Bee Co", Price: 250}
}

func TestAddAccumulatesQuantity(t *testing.T) {
	s := NewStore()

	const n = 5
	for i := 0; i < n; i++ {
		s.Add(rice())
	}

	cart := s.Snapshot()
	if len(cart.Items) != 1 {
		t.Fatalf("expected a single line item, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != n {
		t.Fatalf("quantity = %d, want %d", cart.Items[0].Quantity, n)
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	s := NewStore()
	s.Add(rice())
	s.Add(honey())
	s.Add(rice())

	cart := s.Snapshot()
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
	if cart.Items[0].ID != "product-1" || cart.Items[1].ID != "product-2" {
		t.Fatalf("order lost: %v, %v", cart.Items[0].ID, cart.Items[1].ID)
	}
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	viaSetQuantity := NewStore()
	viaSetQuantity.Add(rice())
	viaSetQuantity.Add(honey())
	viaSetQuantity.SetQuantity("product-1", 0)

	viaRemove := NewStore()
	viaRemove.Add(rice())
	viaRemove.Add(honey())
	viaRemove.Remove("product-1")

	a, b := viaSetQuantity.Snapshot(), viaRemove.Snapshot()
	if len(a.Items) != len(b.Items) || len(a.Items) != 1 {
		t.Fatalf("cart states differ: %d vs %d lines", len(a.Items), len(b.Items))
	}
	if a.Items[0] != b.Items[0] {
		t.Fatalf("cart states differ: %+v vs %+v", a.Items[0], b.Items[0])
	}
}

func TestSetQuantityNegativeRemoves(t *testing.T) {
	s := NewStore()
	s.Add(rice())
	s.SetQuantity("product-1", -3)

	if got := s.Snapshot(); !got.Empty() {
		t.Fatalf("expected empty cart, got %+v", got.Items)
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	s := NewStore()
	s.Add(rice())
	s.Remove("ghost")

	if got := s.Count(); got != 1 {
		t.Fatalf("count = %d", got)
	}
}

func TestTotalAndCount(t *testing.T) {
	s := NewStore()
	s.Add(rice())  // 100
	s.Add(rice())  // 200
	s.Add(honey()) // 450

	if got := s.Total(); got != 450 {
		t.Fatalf("total = %v", got)
	}
	if got := s.Count(); got != 3 {
		t.Fatalf("count = %v", got)
	}

	// Reading totals is idempotent: no mutation, same answer.
	if again := s.Total(); again != 450 {
		t.Fatalf("total recomputed = %v", again)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	s := NewStore()
	s.Add(rice())
	s.Add(honey())
	s.Clear()

	if got := s.Snapshot(); !got.Empty() {
		t.Fatalf("expected empty cart, got %+v", got.Items)
	}
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	s := NewStore()
	fired := 0
	s.OnChange(func() { fired++ })

	s.Add(rice())
	s.SetQuantity("product-1", 4)
	s.Remove("product-1")

	if fired != 3 {
		t.Fatalf("listener fired %d times, want 3", fired)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Add(rice())

	snap := s.Snapshot()
	snap.Items[0].Quantity = 99

	if got := s.Count(); got != 1 {
		t.Fatalf("mutating a snapshot leaked into the store: count = %d", got)
	}
}
