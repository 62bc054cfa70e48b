// internal/workers/poster/record-usage/models.go
package recordusage

import "poster-workers/internal/models"

type Input struct {
	Event      string                 `json:"event"`
	VendorID   string                 `json:"vendorId"`
	TemplateID string                 `json:"templateId"`
	Platform   string                 `json:"platform,omitempty"`
	Selection  *models.ShareSelection `json:"selection,omitempty"`
}

type Output struct {
	UsageID string `json:"usageId"`
	Queued  bool   `json:"queued"`
}
