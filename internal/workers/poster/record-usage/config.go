// internal/workers/poster/record-usage/config.go
package recordusage

import "time"

type Config struct {
	Timeout time.Duration
}
