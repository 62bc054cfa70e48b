package poster

import "regexp"

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// SanitizeToken replaces every run of characters outside [A-Za-z0-9] with a
// single underscore. Idempotent: sanitizing a sanitized string is a no-op.
func SanitizeToken(s string) string {
	return nonAlnum.ReplaceAllString(s, "_")
}

// ArtifactFilename derives the download filename for a composited poster:
// <sanitized-business-name>_<sanitized-template-title>.jpg
func ArtifactFilename(businessName, templateTitle string) string {
	return SanitizeToken(businessName) + "_" + SanitizeToken(templateTitle) + ".jpg"
}
