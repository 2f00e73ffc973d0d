package models

// Product is a row of the products table.
type Product struct {
	Base
	Title       string  `gorm:"not null" json:"title" validate:"required"`
	Price       float64 `gorm:"type:numeric(10,2);not null" json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
	Category    string  `gorm:"index" json:"category"`
	Description string  `gorm:"type:text" json:"description"`
	IsFeatured  bool    `gorm:"not null" json:"is_featured"`
	SortOrder   int     `gorm:"not null;default:0" json:"sort_order"`
}

// ProductTable is the name of the table Product rows live in.
const ProductTable = "products"

func (Product) TableName() string { return ProductTable }
