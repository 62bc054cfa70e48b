package models

// CatalogueKind tags a catalogue item as a product or a service.
type CatalogueKind string

const (
	KindProduct CatalogueKind = "product"
	KindService CatalogueKind = "service"
)

// CatalogueItem is a vendor catalogue entry featured in share captions.
type CatalogueItem struct {
	ID    string        `json:"id"`
	Kind  CatalogueKind `json:"kind"`
	Name  string        `json:"name"`
	Price float64       `json:"price"`
}

// DiscountType tags how an offer's discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Offer is a coupon/offer selected for a share caption.
type Offer struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
}
