package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/five82/kiosk/internal/storeapi"
)

// Item is one catalog entry held in session state.
type Item struct {
	ID          int
	Title       string
	Price       decimal.Decimal
	Rating      *Rating
	Image       string
	Description string
	Category    string
}

// Rating is the review aggregate of an item. A nil *Rating means the remote
// source did not provide one.
type Rating struct {
	Rate  decimal.Decimal
	Count int
}

func (it Item) clone() Item {
	if it.Rating != nil {
		r := *it.Rating
		it.Rating = &r
	}
	return it
}

func (it Item) product() storeapi.Product {
	p := storeapi.Product{
		ID:          it.ID,
		Title:       it.Title,
		Price:       it.Price,
		Description: it.Description,
		Category:    it.Category,
		Image:       it.Image,
	}
	if it.Rating != nil {
		p.Rating = &storeapi.Rating{Rate: it.Rating.Rate, Count: it.Rating.Count}
	}
	return p
}

func itemFromProduct(p storeapi.Product) Item {
	it := Item{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		Category:    p.Category,
	}
	if p.Rating != nil {
		it.Rating = &Rating{Rate: p.Rating.Rate, Count: p.Rating.Count}
	}
	return it
}

// reconcile merges a write echo into the submitted item. id and rating are
// client-authoritative. The remaining fields come from the echo when it
// carries them and from the submission otherwise.
func reconcile(submitted Item, echoed storeapi.Product) Item {
	out := submitted.clone()
	if echoed.Title != "" {
		out.Title = echoed.Title
	}
	if !echoed.Price.IsZero() && !echoed.Price.IsNegative() {
		out.Price = echoed.Price
	}
	if echoed.Image != "" {
		out.Image = echoed.Image
	}
	if echoed.Description != "" {
		out.Description = echoed.Description
	}
	if echoed.Category != "" {
		out.Category = echoed.Category
	}
	return out
}

func cloneItems(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Item, len(items))
	for i, it := range items {
		dup[i] = it.clone()
	}
	return dup
}

func indexOf(items []Item, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the first occurrence of every id.
func dedupe(items []Item) []Item {
	seen := make(map[int]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// prepend puts it first, dropping any existing entry with the same id.
func prepend(items []Item, it Item) []Item {
	out := make([]Item, 0, len(items)+1)
	out = append(out, it)
	for _, existing := range items {
		if existing.ID != it.ID {
			out = append(out, existing)
		}
	}
	return out
}

// replace swaps the entry with it.ID in place. It reports false when no
// entry matched.
func replace(items []Item, it Item) ([]Item, bool) {
	idx := indexOf(items, it.ID)
	if idx < 0 {
		return items, false
	}
	out := cloneItems(items)
	out[idx] = it
	return out, true
}

func without(items []Item, id int) ([]Item, bool) {
	idx := indexOf(items, id)
	if idx < 0 {
		return items, false
	}
	out := make([]Item, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), true
}

func maxID(items []Item) int {
	highest := 0
	for _, it := range items {
		highest = max(highest, it.ID)
	}
	return highest
}
