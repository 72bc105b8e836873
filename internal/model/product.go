package model

// Product represents an inventory item.
type Product struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Price float64 `json:"price" db:"price"`
	Stock int64   `json:"stock" db:"stock"`
}

// ProductInput holds the editable fields of a product, used for
// creation and full replacement. The id is always store-assigned.
type ProductInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int64   `json:"stock"`
}

// ProductPatch holds an optional subset of editable fields for partial
// updates. A nil field is left untouched.
type ProductPatch struct {
	Name  *string  `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty"`
	Stock *int64   `json:"stock,omitempty"`
}

// Apply overwrites the supplied fields of p.
func (patch *ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
}
