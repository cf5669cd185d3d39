package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

var maxRate = decimal.NewFromInt(5)

// Draft is the raw text of the create/edit form.
type Draft struct {
	Title       string
	Price       string
	Rating      string
	Image       string
	Description string
	Category    string
}

// DraftFromItem pre-populates a form from it. An absent rating yields a
// blank rating field.
func DraftFromItem(it Item) Draft {
	d := Draft{
		Title:       it.Title,
		Price:       it.Price.String(),
		Image:       it.Image,
		Description: it.Description,
		Category:    it.Category,
	}
	if it.Rating != nil {
		d.Rating = it.Rating.Rate.String()
	}
	return d
}

// Validate reports the first malformed field, or nil.
func (d Draft) Validate() error {
	_, err := d.parse()
	return err
}

type parsedDraft struct {
	title       string
	price       decimal.Decimal
	rate        *decimal.Decimal
	image       string
	description string
	category    string
}

// Invalid numbers are rejected here rather than coerced, so a bad price
// never reaches the remote service.
func (d Draft) parse() (parsedDraft, error) {
	var out parsedDraft

	out.title = strings.TrimSpace(d.Title)
	if out.title == "" {
		return parsedDraft{}, &ValidationError{Field: "title", Value: d.Title, Reason: "must not be empty"}
	}

	rawPrice := strings.TrimSpace(d.Price)
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return parsedDraft{}, &ValidationError{Field: "price", Value: d.Price, Reason: "must be a number"}
	}
	if price.IsNegative() {
		return parsedDraft{}, &ValidationError{Field: "price", Value: d.Price, Reason: "must not be negative"}
	}
	out.price = price

	if rawRate := strings.TrimSpace(d.Rating); rawRate != "" {
		rate, err := decimal.NewFromString(rawRate)
		if err != nil {
			return parsedDraft{}, &ValidationError{Field: "rating", Value: d.Rating, Reason: "must be a number"}
		}
		if rate.IsNegative() || rate.GreaterThan(maxRate) {
			return parsedDraft{}, &ValidationError{Field: "rating", Value: d.Rating, Reason: "must be between 0 and 5"}
		}
		out.rate = &rate
	}

	out.image = strings.TrimSpace(d.Image)
	out.description = strings.TrimSpace(d.Description)
	out.category = strings.TrimSpace(d.Category)
	return out, nil
}

// item builds the full record to submit. count carries over the review
// count of an edited item.
func (p parsedDraft) item(id, count int) Item {
	it := Item{
		ID:          id,
		Title:       p.title,
		Price:       p.price,
		Image:       p.image,
		Description: p.description,
		Category:    p.category,
	}
	if p.rate != nil {
		it.Rating = &Rating{Rate: *p.rate, Count: count}
	}
	return it
}
