package models

// Layout names one of the fixed branding overlay arrangements.
type Layout string

const (
	LayoutClassic Layout = "classic"
	LayoutModern  Layout = "modern"
	LayoutMinimal Layout = "minimal"
)

// Valid reports whether l is one of the known layouts.
func (l Layout) Valid() bool {
	switch l {
	case LayoutClassic, LayoutModern, LayoutMinimal:
		return true
	}
	return false
}

// LogoPosition is a pixel offset of the logo inside its circular mask.
type LogoPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BrandingProfile holds the vendor identity applied to generated posters.
// A profile is usable only once the business name is set; everything else
// is optional.
type BrandingProfile struct {
	VendorID      string       `json:"vendorId"`
	BusinessName  string       `json:"businessName"`
	Tagline       string       `json:"tagline,omitempty"`
	Phone         string       `json:"phone,omitempty"`
	Website       string       `json:"website,omitempty"`
	LogoRef       string       `json:"logoRef,omitempty"` // data URL or remote URL
	LogoZoom      float64      `json:"logoZoom"`
	LogoPosition  LogoPosition `json:"logoPosition"`
	PrimaryColor  string       `json:"primaryColor,omitempty"` // hex, e.g. "#7c3aed"
	DefaultLayout Layout       `json:"defaultLayout"`
}

// Usable reports whether the profile may drive poster customization.
// Callers must redirect the vendor to branding setup when false.
func (p *BrandingProfile) Usable() bool {
	return p != nil && p.BusinessName != ""
}
