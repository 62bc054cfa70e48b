// internal/workers/poster/validate-branding-profile/config.go
package validatebrandingprofile

import "time"

type Config struct {
	Timeout time.Duration
}
