package models

// ProductType is a named product category.
type ProductType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
