// internal/workers/poster/compose-poster/models.go
package composeposter

import "poster-workers/internal/models"

type Input struct {
	VendorID string          `json:"vendorId"`
	Template models.Template `json:"template"`
	Layout   models.Layout   `json:"layout,omitempty"` // falls back to the profile default
}

type Output struct {
	ArtifactPath string        `json:"artifactPath"`
	Filename     string        `json:"filename"` // suggested download name
	Layout       models.Layout `json:"layout"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
}
