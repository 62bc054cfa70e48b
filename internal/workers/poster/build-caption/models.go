// internal/workers/poster/build-caption/models.go
package buildcaption

import "poster-workers/internal/models"

type Input struct {
	VendorID  string                `json:"vendorId"`
	Template  models.Template       `json:"template"`
	Selection models.ShareSelection `json:"selection"`
}

type Output struct {
	Caption      string `json:"caption"`
	ProductCount int    `json:"productCount"`
	ServiceCount int    `json:"serviceCount"`
	OfferCount   int    `json:"offerCount"`
}
