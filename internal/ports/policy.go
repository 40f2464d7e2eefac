package ports

import "time"

type Policy struct {
	PollInterval time.Duration
}
