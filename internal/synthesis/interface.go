package synthesis

import "context"

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Synthesis, error)
}
