package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoImages        = errors.New("no images found")
)

// Stock status values
const (
	StockInStock     = "instock"
	StockOutOfStock  = "outofstock"
	StockOnBackorder = "onbackorder"
)

// lowStockThreshold is the quantity at or below which the remaining count is shown
const lowStockThreshold = 5

// Product is what the viewer shows next to the gallery
type Product struct {
	ID               int64
	Name             string
	Slug             string
	Subtitle         string
	ShortDescription string
	Price            decimal.Decimal
	RegularPrice     decimal.Decimal
	StockStatus      string
	ManageStock      bool
	StockQuantity    *int
	CODAvailable     bool
	Categories       []string
	RelatedIDs       []int64
	Images           []Image

	// RelatedNames is filled after a bulk fetch of RelatedIDs
	RelatedNames []string
}

// ProductProvider resolves a product by slug
type ProductProvider interface {
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
}

// IDString returns the product id as text, as used in analytics keys
func (p *Product) IDString() string {
	if p.ID == 0 {
		return p.Slug
	}
	return strconv.FormatInt(p.ID, 10)
}

// MainImageURL is the Src of the first image, or empty
func (p *Product) MainImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Src
}

// OnSale reports whether the price is below the regular price
func (p *Product) OnSale() bool {
	return p.RegularPrice.IsPositive() && p.Price.IsPositive() && p.Price.LessThan(p.RegularPrice)
}

// DiscountPercent is the rounded saving relative to the regular price
func (p *Product) DiscountPercent() int {
	if !p.OnSale() {
		return 0
	}
	hundred := decimal.NewFromInt(100)
	saving := p.RegularPrice.Sub(p.Price).Mul(hundred).Div(p.RegularPrice)
	return int(saving.Round(0).IntPart())
}

// FormatPrice renders amount with a currency code
func FormatPrice(currency string, amount decimal.Decimal) string {
	return fmt.Sprintf("%s %s", currency, amount.StringFixed(2))
}

// StockLabel is the availability line of the info panel
func (p *Product) StockLabel() string {
	qty := 0
	if p.StockQuantity != nil {
		qty = *p.StockQuantity
	}

	switch {
	case p.StockStatus == StockOutOfStock:
		return "Out of stock"
	case p.StockStatus == StockOnBackorder:
		return "Available on backorder"
	case p.ManageStock && qty <= 0:
		return "Out of stock"
	case p.ManageStock && qty <= lowStockThreshold:
		return fmt.Sprintf("Only %d left in stock", qty)
	default:
		return "In stock"
	}
}

// InStock reports whether the product can be ordered now
func (p *Product) InStock() bool {
	label := p.StockLabel()
	return label != "Out of stock" && label != "Available on backorder"
}

// ViewItemEvent builds the product-view analytics event
func (p *Product) ViewItemEvent(currency string) AnalyticsEvent {
	price, _ := p.Price.Float64()
	item := EcommerceItem{
		ItemID:   p.IDString(),
		ItemName: p.Name,
		Price:    price,
		Quantity: 1,
	}
	if len(p.Categories) > 0 {
		item.ItemCategory = p.Categories[0]
	}
	return AnalyticsEvent{
		Event:     TrackViewItem,
		ProductID: p.IDString(),
		Ecommerce: &EcommerceData{
			Currency: currency,
			Value:    price,
			Items:    []EcommerceItem{item},
		},
	}
}

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// stripHTML turns a WordPress HTML fragment into plain text
func stripHTML(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
