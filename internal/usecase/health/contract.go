package health

import "context"

// StorePinger checks storage backend availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}
