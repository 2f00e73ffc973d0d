package models

// Testimonial is a customer quote shown on the landing page. The admin panel
// only lists them.
type Testimonial struct {
	Base
	CustomerName string `gorm:"not null" json:"customer_name" validate:"required"`
	Content      string `gorm:"type:text;not null" json:"content" validate:"required"`
	Rating       int    `gorm:"not null" json:"rating" validate:"min=1,max=5"`
	Location     string `json:"location,omitempty"`
	IsActive     bool   `gorm:"not null" json:"is_active"`
	SortOrder    int    `gorm:"not null;default:0" json:"sort_order"`
}

const TestimonialTable = "testimonials"

func (Testimonial) TableName() string { return TestimonialTable }
