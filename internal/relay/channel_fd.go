package relay

import (
	"context"
	"os"
)

// FDChannel writes to a file descriptor inherited from the parent process.
type FDChannel struct {
	file *os.File
}

var _ Channel = &FDChannel{}

// NewFDChannel wraps an inherited descriptor. The caller owns fd validation;
// writes to a descriptor the parent never opened fail at Publish time.
func NewFDChannel(fd uintptr) (*FDChannel, error) {
	file := os.NewFile(fd, "relay-channel")
	if file == nil {
		return nil, &ChannelError{Reason: "invalid file descriptor"}
	}
	return &FDChannel{file: file}, nil
}

func (c *FDChannel) Publish(ctx context.Context, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.file.Write(message); err != nil {
		return &ChannelError{Reason: "write failed", Err: err}
	}
	return nil
}

func (c *FDChannel) Close() error {
	return c.file.Close()
}
