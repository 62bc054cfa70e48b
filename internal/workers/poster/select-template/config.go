// internal/workers/poster/select-template/config.go
package selecttemplate

import "time"

type Config struct {
	Timeout time.Duration
}
