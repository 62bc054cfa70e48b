// internal/workers/poster/publish-share/models.go
package publishshare

import "poster-workers/internal/share"

// Action selects what the worker does with the composited artifact.
const (
	ActionShare    = "share"
	ActionDownload = "download"
)

type Input struct {
	Action        string `json:"action"`
	VendorID      string `json:"vendorId"`
	TemplateID    string `json:"templateId"`
	Platform      string `json:"platform,omitempty"`
	Caption       string `json:"caption,omitempty"`
	ArtifactPath  string `json:"artifactPath"`
	Filename      string `json:"filename"`
	CanonicalLink string `json:"canonicalLink,omitempty"`
}

type Output struct {
	Result       share.ShareResult `json:"result,omitempty"`
	Method       string            `json:"method,omitempty"`
	ShareURL     string            `json:"shareUrl,omitempty"`
	Instruction  string            `json:"instruction,omitempty"`
	QRPath       string            `json:"qrPath,omitempty"`
	DownloadPath string            `json:"downloadPath,omitempty"`
}
