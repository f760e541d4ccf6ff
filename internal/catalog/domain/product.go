package domain

// BrandAll is the pseudo-brand selecting the whole catalog.
const BrandAll = "All"

// Product is one normalized catalog entry. Identity is ID; the fetch layer
// synthesizes it since neither backend tier supplies a stable key. Products
// are immutable once built.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image"`
}

// Catalog holds one fetch cycle's product list. A new fetch replaces the
// whole catalog, there are no partial updates.
type Catalog struct {
	products []Product
	brands   []string
}

func NewCatalog(products []Product) Catalog {
	brands := []string{BrandAll}
	seen := map[string]struct{}{}
	for _, p := range products {
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		brands = append(brands, p.Brand)
	}
	return Catalog{products: products, brands: brands}
}

// Products returns the full list in fetch order.
func (c Catalog) Products() []Product {
	return c.products
}

// Brands returns "All" followed by each distinct brand in first-seen order.
func (c Catalog) Brands() []string {
	return c.brands
}

// Filter returns products matching the brand, or everything for BrandAll.
func (c Catalog) Filter(brand string) []Product {
	if brand == BrandAll || brand == "" {
		return c.products
	}
	var out []Product
	for _, p := range c.products {
		if p.Brand == brand {
			out = append(out, p)
		}
	}
	return out
}

// Lookup finds a product by id.
func (c Catalog) Lookup(id string) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (c Catalog) Len() int { return len(c.products) }
