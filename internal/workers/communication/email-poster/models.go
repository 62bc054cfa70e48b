// internal/workers/communication/email-poster/models.go
package emailposter

import "time"

type Input struct {
	VendorID     string   `json:"vendorId"`
	TemplateID   string   `json:"templateId"`
	Recipients   []string `json:"recipients"`
	Subject      string   `json:"subject"`
	Caption      string   `json:"caption"`
	ArtifactPath string   `json:"artifactPath"`
	Filename     string   `json:"filename"`
}

type Output struct {
	MessageIDs []string  `json:"messageIds"`
	SentCount  int       `json:"sentCount"`
	Status     string    `json:"status"`
	SentAt     time.Time `json:"sentAt"`
}
