package models

import "time"

// Usage event types recorded by the analytics pipeline.
const (
	UsageEventCustomize = "customize"
	UsageEventShare     = "share"
	UsageEventDownload  = "download"
	UsageEventEmail     = "email"
)

// UsageRecord is a best-effort analytics event. Its delivery must never block
// or roll back the user-visible action that produced it.
type UsageRecord struct {
	ID         string          `json:"id"`
	Event      string          `json:"event"`
	VendorID   string          `json:"vendorId"`
	TemplateID string          `json:"templateId"`
	Platform   string          `json:"platform,omitempty"`
	Selection  *ShareSelection `json:"selection,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}
