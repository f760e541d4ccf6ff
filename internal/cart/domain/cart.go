package domain

// ProductInfo is the slice of catalog data a line item carries. The cart
// keeps its own copy so a catalog refresh never mutates lines already added.
type ProductInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image"`
}

// LineItem is a product plus a quantity. A line item with quantity below 1
// never exists in a cart; it is removed instead.
type LineItem struct {
	ProductInfo
	Quantity int `json:"quantity"`
}

// Cart is an insertion-ordered snapshot of line items.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Total is the sum of price times quantity over all lines.
func (c Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Count is the sum of quantities over all lines.
func (c Cart) Count() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) Empty() bool { return len(c.Items) == 0 }
