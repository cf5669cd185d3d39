package storeapi

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product mirrors the product records served by /products.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Image       string          `json:"image"`
	Rating      *Rating         `json:"rating,omitempty"`
}

// Rating is the aggregate review score attached to a product.
type Rating struct {
	Rate  decimal.Decimal `json:"rate"`
	Count int             `json:"count"`
}

// MarshalJSON encodes decimals as bare JSON numbers, which is what the API
// sends and accepts.
func (p Product) MarshalJSON() ([]byte, error) {
	type wireRating struct {
		Rate  json.Number `json:"rate"`
		Count int         `json:"count"`
	}
	out := struct {
		ID          int         `json:"id"`
		Title       string      `json:"title"`
		Price       json.Number `json:"price"`
		Description string      `json:"description,omitempty"`
		Category    string      `json:"category,omitempty"`
		Image       string      `json:"image"`
		Rating      *wireRating `json:"rating,omitempty"`
	}{
		ID:          p.ID,
		Title:       p.Title,
		Price:       json.Number(p.Price.String()),
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
	}
	if p.Rating != nil {
		out.Rating = &wireRating{Rate: json.Number(p.Rating.Rate.String()), Count: p.Rating.Count}
	}
	return json.Marshal(out)
}

// String is used in log lines.
func (p Product) String() string {
	return fmt.Sprintf("#%d %q %s", p.ID, p.Title, p.Price.StringFixed(2))
}
