// Package products implements the example product catalogue served through validated handlers.
package products

import (
	"context"
	"math"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/isometry/codec-handler/pkg/codec"
)

// ErrNotFound is returned when no product has the requested id.
var ErrNotFound = errors.New("product not found")

// Product is a catalogue entry.
type Product struct {
	ID          int    `json:"id" mapstructure:"id"`
	ProductName string `json:"productName" mapstructure:"productName"`
	Department  string `json:"department" mapstructure:"department"`
}

// Catalogue is an immutable, id-indexed list of products.
type Catalogue struct {
	products []Product
}

var (
	adjectives  = []string{"Small", "Ergonomic", "Rustic", "Intelligent", "Gorgeous", "Incredible", "Fantastic", "Practical", "Sleek", "Awesome"}
	materials   = []string{"Steel", "Wooden", "Concrete", "Plastic", "Cotton", "Granite", "Rubber", "Metal", "Soft", "Fresh"}
	nouns       = []string{"Chair", "Car", "Computer", "Keyboard", "Mouse", "Bike", "Ball", "Gloves", "Pants", "Shirt", "Table", "Shoes", "Hat"}
	departments = []string{"Books", "Movies", "Music", "Games", "Electronics", "Computers", "Home", "Garden", "Tools", "Grocery", "Health", "Beauty", "Toys", "Kids", "Baby", "Clothing", "Shoes", "Jewelery", "Sports", "Outdoors", "Automotive", "Industrial"}
)

// Generate builds a deterministic catalogue of n products with ids 0 to n-1.
func Generate(n int) *Catalogue {
	products := make([]Product, max(n, 0))
	for i := range products {
		products[i] = Product{
			ID:          i,
			ProductName: adjectives[i%len(adjectives)] + " " + materials[(i/len(adjectives))%len(materials)] + " " + nouns[i%len(nouns)],
			Department:  departments[(i*7)%len(departments)],
		}
	}
	return &Catalogue{products: products}
}

var productsCodec = codec.Array(codec.Object(
	codec.P("id", codec.Int),
	codec.P("productName", codec.String),
	codec.P("department", codec.String),
))

// Parse builds a catalogue from a JSON array of products. Each product's id must match its position.
func Parse(data string) (*Catalogue, error) {
	var raw any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse product catalogue")
	}
	items, err := productsCodec.Decode(raw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid product catalogue")
	}
	products := make([]Product, len(items))
	for i, item := range items {
		fields := item.(map[string]any)
		products[i] = Product{
			ID:          fields["id"].(int),
			ProductName: fields["productName"].(string),
			Department:  fields["department"].(string),
		}
		if products[i].ID != i {
			return nil, errors.Errorf("invalid product catalogue: product at position %d has id %d", i, products[i].ID)
		}
	}
	return &Catalogue{products: products}, nil
}

// ParameterStore reads configuration parameters.
type ParameterStore interface {
	GetParameter(ctx context.Context, key string, encrypted bool) (string, error)
}

// Load reads a JSON catalogue from the parameter store.
func Load(ctx context.Context, store ParameterStore, key string, encrypted bool) (*Catalogue, error) {
	data, err := store.GetParameter(ctx, key, encrypted)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product catalogue")
	}
	return Parse(data)
}

// Len returns the number of products.
func (c *Catalogue) Len() int { return len(c.products) }

// Page splits the catalogue into pages of size products and returns page number, counted from zero.
// A fractional size is truncated. An empty slice is returned when the page does not exist.
func (c *Catalogue) Page(number, size float64) []Product {
	pageSize := int(math.Trunc(math.Min(size, float64(len(c.products)))))
	if pageSize <= 0 || number < 0 || number != math.Trunc(number) || number >= float64(len(c.products)) {
		return []Product{}
	}
	start := int(number) * pageSize
	if start >= len(c.products) || start < 0 {
		return []Product{}
	}
	end := min(start+pageSize, len(c.products))
	page := make([]Product, end-start)
	copy(page, c.products[start:end])
	return page
}

// Get returns the product with the given id.
func (c *Catalogue) Get(id int) (Product, error) {
	if id < 0 || id >= len(c.products) {
		return Product{}, errors.WithStack(ErrNotFound)
	}
	return c.products[id], nil
}
