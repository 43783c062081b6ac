package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	productsPath     = "/wc/v3/products"
	bulkProductsPath = "/custom/v1/bulk-products"
)

// WooCommerceClient reads products from a WooCommerce REST API
type WooCommerceClient struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
}

// NewWooCommerceClient creates a client for the API rooted at baseURL
// (for example https://shop.example/wp-json)
func NewWooCommerceClient(baseURL, consumerKey, consumerSecret string) *WooCommerceClient {
	return &WooCommerceClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient:     &http.Client{Timeout: 15 * time.Second},
	}
}

type wcImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type wcCategory struct {
	Name string `json:"name"`
}

type wcProduct struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	Subtitle         string       `json:"subtitle"`
	ShortDescription string       `json:"short_description"`
	Price            string       `json:"price"`
	RegularPrice     string       `json:"regular_price"`
	StockStatus      string       `json:"stock_status"`
	ManageStock      bool         `json:"manage_stock"`
	StockQuantity    *int         `json:"stock_quantity"`
	CODAvailable     bool         `json:"cod_available"`
	Categories       []wcCategory `json:"categories"`
	RelatedIDs       []int64      `json:"related_ids"`
	Images           []wcImage    `json:"images"`
}

// GetProductBySlug fetches the product published under slug
func (c *WooCommerceClient) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	query := url.Values{}
	query.Set("slug", slug)

	var products []wcProduct
	if err := c.do(ctx, http.MethodGet, productsPath, query, nil, &products); err != nil {
		return nil, fmt.Errorf("fetching product %q: %w", slug, err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
	}

	p := products[0].toProduct()
	debugLog("Fetched product %d %q with %d images", p.ID, p.Name, len(p.Images))
	return p, nil
}

// GetProductsByIDs fetches several products in one call
func (c *WooCommerceClient) GetProductsByIDs(ctx context.Context, ids []int64) ([]*Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(map[string][]int64{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("encoding bulk request: %w", err)
	}

	var raw []wcProduct
	if err := c.do(ctx, http.MethodPost, bulkProductsPath, nil, body, &raw); err != nil {
		return nil, fmt.Errorf("fetching %d products: %w", len(ids), err)
	}

	products := make([]*Product, 0, len(raw))
	for i := range raw {
		products = append(products, raw[i].toProduct())
	}
	return products, nil
}

// LoadRelatedNames fills p.RelatedNames. Failures only cost the related line.
func (c *WooCommerceClient) LoadRelatedNames(ctx context.Context, p *Product, limit int) {
	ids := p.RelatedIDs
	if len(ids) > limit {
		ids = ids[:limit]
	}
	related, err := c.GetProductsByIDs(ctx, ids)
	if err != nil {
		warnLog("Related products unavailable: %v", err)
		return
	}
	for _, r := range related {
		if r.Name != "" {
			p.RelatedNames = append(p.RelatedNames, r.Name)
		}
	}
}

func (c *WooCommerceClient) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	if query == nil {
		query = url.Values{}
	}
	if c.consumerKey != "" {
		query.Set("consumer_key", c.consumerKey)
		query.Set("consumer_secret", c.consumerSecret)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (w *wcProduct) toProduct() *Product {
	p := &Product{
		ID:               w.ID,
		Name:             html.UnescapeString(w.Name),
		Slug:             w.Slug,
		Subtitle:         w.Subtitle,
		ShortDescription: stripHTML(w.ShortDescription),
		Price:            parsePrice(w.Price),
		RegularPrice:     parsePrice(w.RegularPrice),
		StockStatus:      w.StockStatus,
		ManageStock:      w.ManageStock,
		StockQuantity:    w.StockQuantity,
		CODAvailable:     w.CODAvailable,
		RelatedIDs:       w.RelatedIDs,
	}
	if p.StockStatus == "" {
		p.StockStatus = StockInStock
	}
	if p.RegularPrice.IsZero() {
		p.RegularPrice = p.Price
	}
	for _, c := range w.Categories {
		p.Categories = append(p.Categories, c.Name)
	}
	for _, img := range w.Images {
		p.Images = append(p.Images, Image{
			ID:  strconv.FormatInt(img.ID, 10),
			Src: img.Src,
			Alt: img.Alt,
		})
	}
	return p
}

func parsePrice(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		debugLog("Unparseable price %q: %v", s, err)
		return decimal.Zero
	}
	return d
}
