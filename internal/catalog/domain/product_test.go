package domain

import (
	"reflect"
	"testing"
)

func sampleCatalog() Catalog {
	return NewCatalog([]Product{
		{ID: "product-1", Name: "Brown Rice", Brand: "Hillside Farm", Price: 120},
		{ID: "product-2", Name: "White Rice", Brand: "Hillside Farm", Price: 100},
		{ID: "product-3", Name: "Honey", Brand: "Bee Co", Price: 250},
	})
}

func TestCatalogBrands(t *testing.T) {
	t.Run("All first, then first-seen order", func(t *testing.T) {
		got := sampleCatalog().Brands()
		want := []string{"All", "Hillside Farm", "Bee Co"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("brands = %v, want %v", got, want)
		}
	})

	t.Run("empty catalog still has All", func(t *testing.T) {
		got := NewCatalog(nil).Brands()
		if !reflect.DeepEqual(got, []string{"All"}) {
			t.Fatalf("brands = %v", got)
		}
	})
}

func TestCatalogFilter(t *testing.T) {
	c := sampleCatalog()

	t.Run("All returns everything", func(t *testing.T) {
		if got := c.Filter(BrandAll); len(got) != 3 {
			t.Fatalf("got %d products", len(got))
		}
	})

	t.Run("exact match subset", func(t *testing.T) {
		got := c.Filter("Hillside Farm")
		if len(got) != 2 {
			t.Fatalf("got %d products", len(got))
		}
		for _, p := range got {
			if p.Brand != "Hillside Farm" {
				t.Fatalf("unexpected brand %q", p.Brand)
			}
		}
	})

	t.Run("unknown brand is empty", func(t *testing.T) {
		if got := c.Filter("Nope"); len(got) != 0 {
			t.Fatalf("got %d products", len(got))
		}
	})
}

func TestCatalogLookup(t *testing.T) {
	c := sampleCatalog()

	if p, ok := c.Lookup("product-2"); !ok || p.Name != "White Rice" {
		t.Fatalf("lookup product-2 = %+v, %v", p, ok)
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Fatal("expected missing id to not resolve")
	}
}
