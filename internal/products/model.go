package products

import "time"

// Product is a stocked item in the catalogue.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Price       float64   `json:"price" db:"price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ListFilters narrows a catalogue listing.
type ListFilters struct {
	// Name matches products whose name contains it, case-insensitively.
	Name string
}
