// internal/workers/poster/publish-share/config.go
package publishshare

import "time"

type Config struct {
	Timeout   time.Duration
	OutputDir string
	QRSize    int
}
