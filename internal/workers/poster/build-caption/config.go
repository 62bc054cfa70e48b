// internal/workers/poster/build-caption/config.go
package buildcaption

import "time"

type Config struct {
	Timeout time.Duration
}
