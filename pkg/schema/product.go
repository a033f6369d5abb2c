// Package schema maps store products onto schema.org-style Product documents.
package schema

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/sanitize"
	"github.com/saturnines/catalog-export/pkg/shopify"
)

const (
	TypeProduct        = "Product"
	TypeProductVariant = "ProductVariant"
)

// Document is one exported product. Nil pointers and empty image/variant
// lists are left out of the JSON; empty strings are kept.
type Document struct {
	Type         string    `json:"@type"`
	Name         *string   `json:"name,omitempty"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	ProductID    string    `json:"productID"`
	Vendor       *string   `json:"vendor,omitempty"`
	ProductType  *string   `json:"productType,omitempty"`
	Tags         *string   `json:"tags,omitempty"`
	PublishedAt  *string   `json:"publishedAt,omitempty"`
	UpdatedAt    *string   `json:"updatedAt,omitempty"`
	PrimaryImage *string   `json:"primaryImage,omitempty"`
	Images       []string  `json:"images,omitempty"`
	Variants     []Variant `json:"variants,omitempty"`
}

// Variant keeps every key, null or not.
type Variant struct {
	Type              string  `json:"@type"`
	ID                string  `json:"id"`
	Title             *string `json:"title"`
	Price             *string `json:"price"`
	SKU               *string `json:"sku"`
	InventoryQuantity int     `json:"inventoryQuantity"`
}

// ProductURL is the storefront URL of handle on shopURL.
func ProductURL(shopURL, handle string) (string, error) {
	base, err := url.Parse("https://" + shopURL)
	if err != nil {
		return "", err
	}
	if base.Host == "" {
		return "", fmt.Errorf("shop url %q has no host", shopURL)
	}
	return base.ResolveReference(&url.URL{Path: "/products/" + handle}).String(), nil
}

// FromProduct builds the Document for p. It fails only on records that
// cannot be represented, such as a variant without an id.
func FromProduct(p shopify.Product, shopURL string) (*Document, error) {
	productURL, err := ProductURL(shopURL, p.Handle)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrMapping, "build product url")
	}

	doc := &Document{
		Type:        TypeProduct,
		Name:        p.Title,
		Description: sanitize.CleanDescriptionPtr(p.BodyHTML),
		URL:         productURL,
		ProductID:   strconv.FormatInt(p.ID, 10),
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Tags:        p.Tags,
		PublishedAt: p.PublishedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if primary := p.PrimaryImage(); primary != nil {
		src := primary.Src
		doc.PrimaryImage = &src
		doc.Images = make([]string, 0, len(p.Images))
		for _, img := range p.Images {
			doc.Images = append(doc.Images, img.Src)
		}
	}

	if len(p.Variants) > 0 {
		doc.Variants = make([]Variant, 0, len(p.Variants))
		for i, v := range p.Variants {
			if v.ID == 0 {
				return nil, errors.WrapError(
					fmt.Errorf("variant at index %d has no id", i),
					errors.ErrMapping,
					"map variants",
				)
			}

			qty := 0
			if v.InventoryQuantity != nil {
				qty = *v.InventoryQuantity
			}

			doc.Variants = append(doc.Variants, Variant{
				Type:              TypeProductVariant,
				ID:                strconv.FormatInt(v.ID, 10),
				Title:             v.Title,
				Price:             v.Price,
				SKU:               v.SKU,
				InventoryQuantity: qty,
			})
		}
	}

	return doc, nil
}
