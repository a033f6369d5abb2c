package shopify

// Product is one record from the Admin API products endpoint, restricted
// to the fields the exporter projects. Pointer fields are nil when the API
// returned null.
type Product struct {
	ID          int64     `json:"id"`
	Title       *string   `json:"title"`
	Handle      string    `json:"handle"`
	BodyHTML    *string   `json:"body_html"`
	ProductType *string   `json:"product_type"`
	Vendor      *string   `json:"vendor"`
	Tags        *string   `json:"tags"`
	PublishedAt *string   `json:"published_at"`
	UpdatedAt   *string   `json:"updated_at"`
	Images      []Image   `json:"images"`
	Variants    []Variant `json:"variants"`
}

type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

type Variant struct {
	ID                int64   `json:"id"`
	Title             *string `json:"title"`
	Price             *string `json:"price"`
	SKU               *string `json:"sku"`
	InventoryQuantity *int    `json:"inventory_quantity"`
}

// PrimaryImage is the first image, or nil when the product has none.
func (p Product) PrimaryImage() *Image {
	if len(p.Images) == 0 {
		return nil
	}
	return &p.Images[0]
}

// productsPage is the envelope of GET /admin/api/{version}/products.json
type productsPage struct {
	Products *[]Product `json:"products"`
}
