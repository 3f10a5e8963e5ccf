package relay

import (
	"context"
	"io"
	"os"
)

// StdoutChannel writes to standard output. Used on Windows targets, where
// the parent reads the child's stdout instead of passing a descriptor.
type StdoutChannel struct {
	w io.Writer
}

var _ Channel = &StdoutChannel{}

func NewStdoutChannel(w io.Writer) *StdoutChannel {
	if w == nil {
		w = os.Stdout
	}
	return &StdoutChannel{w: w}
}

func (c *StdoutChannel) Publish(ctx context.Context, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.w.Write(message); err != nil {
		return &ChannelError{Reason: "stdout write failed", Err: err}
	}
	return nil
}

// Close is a no-op; stdout belongs to the process, not the channel.
func (c *StdoutChannel) Close() error { return nil }
