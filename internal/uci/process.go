package uci

import (
	"context"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Start launches the engine binary at path and performs the handshake.
// The process is killed when ctx is cancelled.
func Start(ctx context.Context, path string, args ...string) (*Client, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = stopGrace

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "engine stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "engine stdout")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start engine %q", path)
	}

	c := NewClient(stdout, stdin)
	c.wait = cmd.Wait

	hsCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.Handshake(hsCtx); err != nil {
		c.Close()
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("path", path).Str("name", c.Name).Msg("engine-started")
	return c, nil
}
