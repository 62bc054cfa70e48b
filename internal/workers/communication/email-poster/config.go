// internal/workers/communication/email-poster/config.go
package emailposter

import "time"

type Config struct {
	Timeout       time.Duration
	SenderEmail   string
	MaxRecipients int
}
