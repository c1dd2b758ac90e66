package columns

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Canonical field names. Marketplace exports label these columns in many
// ways; an alias file maps the canonical fields to the headers a deployment
// actually sees.
const (
	FieldOrderID        = "order_id"
	FieldSKU            = "sku"
	FieldTitle          = "title"
	FieldQuantity       = "quantity"
	FieldSaleAmount     = "sale_amount"
	FieldPurchaseAmount = "purchase_amount"
)

// Aliases lists accepted header names per canonical field.
// Loaded once at startup; no hot reload.
type Aliases struct {
	OrderID        []string `yaml:"order_id"`
	SKU            []string `yaml:"sku"`
	Title          []string `yaml:"title"`
	Quantity       []string `yaml:"quantity"`
	SaleAmount     []string `yaml:"sale_amount"`
	PurchaseAmount []string `yaml:"purchase_amount"`
}

// Defaults returns the built-in alias lists covering the common export headers.
func Defaults() Aliases {
	return Aliases{
		OrderID:        []string{"order_id", "order id", "order-id", "orderid", "order_no", "order number"},
		SKU:            []string{"sku", "seller_sku", "seller sku", "product_sku", "item_sku", "msku"},
		Title:          []string{"title", "product_name", "product name", "item_name", "asin"},
		Quantity:       []string{"quantity", "qty", "units", "quantity_ordered"},
		SaleAmount:     []string{"sale_amount", "sales", "sales_amount", "revenue", "item-price", "item_price"},
		PurchaseAmount: []string{"purchase_amount", "cost", "purchase_cost", "cogs"},
	}
}

// Load reads an alias file and merges it over the defaults. Fields left out
// of the file keep their built-in aliases. An empty path returns the defaults.
func Load(path string) (Aliases, error) {
	out := Defaults()
	if path == "" {
		return out, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Aliases{}, fmt.Errorf("column alias file: %w", err)
	}

	var loaded Aliases
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return Aliases{}, fmt.Errorf("column alias file %q: %w", path, err)
	}

	if len(loaded.OrderID) > 0 {
		out.OrderID = loaded.OrderID
	}
	if len(loaded.SKU) > 0 {
		out.SKU = loaded.SKU
	}
	if len(loaded.Title) > 0 {
		out.Title = loaded.Title
	}
	if len(loaded.Quantity) > 0 {
		out.Quantity = loaded.Quantity
	}
	if len(loaded.SaleAmount) > 0 {
		out.SaleAmount = loaded.SaleAmount
	}
	if len(loaded.PurchaseAmount) > 0 {
		out.PurchaseAmount = loaded.PurchaseAmount
	}
	return out, nil
}

// Map holds the resolved header name per canonical field for one uploaded
// frame. An empty string means the field is absent from the upload, which
// disables the aggregates that require it.
type Map struct {
	OrderID        string
	SKU            string
	Title          string
	Quantity       string
	SaleAmount     string
	PurchaseAmount string
}

// Resolve matches frame headers against the alias lists, case-insensitively
// and ignoring surrounding whitespace. The first alias with a matching header
// wins; headers claimed by an earlier field stay claimed.
func (a Aliases) Resolve(headers []string) Map {
	normalized := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, exists := normalized[key]; !exists {
			normalized[key] = h
		}
	}

	claimed := make(map[string]bool, 6)
	pick := func(aliases []string) string {
		for _, alias := range aliases {
			key := strings.ToLower(strings.TrimSpace(alias))
			if header, ok := normalized[key]; ok && !claimed[key] {
				claimed[key] = true
				return header
			}
		}
		return ""
	}

	return Map{
		OrderID:        pick(a.OrderID),
		SKU:            pick(a.SKU),
		Title:          pick(a.Title),
		Quantity:       pick(a.Quantity),
		SaleAmount:     pick(a.SaleAmount),
		PurchaseAmount: pick(a.PurchaseAmount),
	}
}
