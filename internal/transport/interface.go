package transport

import "context"

type Connection interface {
	Send(ctx context.Context, event ServerEvent) error
	Envelopes() <-chan ClientEnvelope
	IsConnected() bool
	Close() error
}
