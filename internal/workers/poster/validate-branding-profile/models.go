// internal/workers/poster/validate-branding-profile/models.go
package validatebrandingprofile

import "poster-workers/internal/models"

type Input struct {
	VendorID string `json:"vendorId"`
}

type Output struct {
	Usable        bool          `json:"usable"`
	BusinessName  string        `json:"businessName"`
	DefaultLayout models.Layout `json:"defaultLayout"`
}
