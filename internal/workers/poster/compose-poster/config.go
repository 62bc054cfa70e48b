// internal/workers/poster/compose-poster/config.go
package composeposter

import "time"

type Config struct {
	Timeout   time.Duration
	OutputDir string
}
