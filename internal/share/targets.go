// Package share dispatches a composited poster and caption to external
// platforms, either through a native share sheet or per-platform URL
// templates, and writes download artifacts.
package share

import (
	"errors"
	"net/url"
	"strings"
)

// Platform names one of the fixed share targets.
type Platform string

const (
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTelegram  Platform = "telegram"
	PlatformLinkedIn  Platform = "linkedin"
)

var (
	// ErrUnsupportedPlatform is returned for any target outside the fixed set.
	ErrUnsupportedPlatform = errors.New("unsupported share platform")

	// ErrManualShareRequired marks platforms with no web share target; the
	// vendor must save the poster and share it from the app directly.
	ErrManualShareRequired = errors.New("platform requires manual save-then-share")
)

// URL templates take the caption and/or canonical link as percent-encoded
// query parameters. {caption} and {link} are the substitution points.
var defaultTemplates = map[Platform]string{
	PlatformWhatsApp: "https://wa.me/?text={caption}",
	PlatformFacebook: "https://www.facebook.com/sharer/sharer.php?u={link}&quote={caption}",
	PlatformTelegram: "https://t.me/share/url?url={link}&text={caption}",
	PlatformLinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url={link}",
}

// Targets resolves share platforms to prefilled URLs. Templates can be
// overridden from configuration; unknown override keys are ignored.
type Targets struct {
	templates map[Platform]string
}

func NewTargets(overrides map[string]string) *Targets {
	templates := make(map[Platform]string, len(defaultTemplates))
	for p, tmpl := range defaultTemplates {
		templates[p] = tmpl
	}
	for name, tmpl := range overrides {
		p := Platform(name)
		if _, known := defaultTemplates[p]; known {
			templates[p] = tmpl
		}
	}
	return &Targets{templates: templates}
}

// Supported lists the full fixed platform set, including the manual-only one.
func Supported() []Platform {
	return []Platform{
		PlatformWhatsApp,
		PlatformFacebook,
		PlatformInstagram,
		PlatformTelegram,
		PlatformLinkedIn,
	}
}

// BuildURL renders the platform's URL template with the caption and canonical
// link percent-encoded. Instagram has no web target and returns
// ErrManualShareRequired; anything outside the fixed set returns
// ErrUnsupportedPlatform.
func (t *Targets) BuildURL(platform Platform, captionText, canonicalLink string) (string, error) {
	if platform == PlatformInstagram {
		return "", ErrManualShareRequired
	}
	tmpl, ok := t.templates[platform]
	if !ok {
		return "", ErrUnsupportedPlatform
	}

	out := strings.ReplaceAll(tmpl, "{caption}", url.QueryEscape(captionText))
	out = strings.ReplaceAll(out, "{link}", url.QueryEscape(canonicalLink))
	return out, nil
}
