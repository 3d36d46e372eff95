// Package products serves a filterable product catalogue.
package products

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type Product struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:200;not null" json:"name"`
	Category string  `gorm:"size:100;index;not null" json:"category"`
	Price    float64 `gorm:"not null" json:"price"`
}

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"

	allCategories = "All"
)

// likeEscaper escapes LIKE wildcards with '!' so searches match literally.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type Filter struct {
	Search   string
	Category string
	Sort     string
	MinPrice *float64
	MaxPrice *float64
}

var Catalogue = []Product{
	{Name: "Laptop Pro 14", Category: "Electronics", Price: 1299.99},
	{Name: "Wireless Mouse", Category: "Electronics", Price: 24.5},
	{Name: "Mechanical Keyboard", Category: "Electronics", Price: 89},
	{Name: "Noise Cancelling Headphones", Category: "Electronics", Price: 199.99},
	{Name: "Running Shoes", Category: "Sports", Price: 120},
	{Name: "Yoga Mat", Category: "Sports", Price: 35},
	{Name: "Dumbbell Set", Category: "Sports", Price: 75.25},
	{Name: "The Go Programming Language", Category: "Books", Price: 39.99},
	{Name: "Designing Data-Intensive Applications", Category: "Books", Price: 45},
	{Name: "Coffee Maker", Category: "Home", Price: 64.9},
	{Name: "Desk Lamp", Category: "Home", Price: 19.99},
	{Name: "Ceramic Mug", Category: "Home", Price: 9.5},
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Seed inserts the products only when the table is empty.
func (r *Repository) Seed(ctx context.Context, items []Product) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Product{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 || len(items) == 0 {
		return nil
	}
	// copy so the caller's slice does not receive generated ids
	rows := append([]Product(nil), items...)
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return nil
}

func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.WithContext(ctx).Model(&Product{}).
		Distinct("category").Order("category asc").Pluck("category", &out).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *Repository) Find(ctx context.Context, f Filter) ([]Product, error) {
	q := r.db.WithContext(ctx).Model(&Product{})

	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(s))+"%")
	}
	if f.Category != "" && f.Category != allCategories {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	switch f.Sort {
	case SortPriceAsc:
		q = q.Order("price asc")
	case SortPriceDesc:
		q = q.Order("price desc")
	}
	q = q.Order("id asc")

	out := []Product{}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return out, nil
}
