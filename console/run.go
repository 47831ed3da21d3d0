package console

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// DefaultFPS is the frame rate of the console.
const DefaultFPS = 60

// Cart is a game driven by the host, once per frame.
type Cart interface {
	Update()
}

// Frontend connects Memory to a real screen and input devices.
type Frontend interface {
	// Poll copies pending input into mem. It returns false when the user
	// asked to quit.
	Poll(mem *Memory) bool
	// Present shows the framebuffer.
	Present(mem *Memory) error
}

// ErrQuit is returned by Run when the frontend reports that the user quit.
var ErrQuit = eris.New("console: quit requested")

type runOptions struct {
	fps       int
	maxFrames uint64
	logger    zerolog.Logger
}

// RunOption configures Run.
type RunOption func(*runOptions)

// WithFPS sets the frame rate. Values below 1 fall back to DefaultFPS.
func WithFPS(fps int) RunOption {
	return func(o *runOptions) {
		if fps > 0 {
			o.fps = fps
		}
	}
}

// WithMaxFrames stops Run after n frames. Zero means no limit.
func WithMaxFrames(n uint64) RunOption {
	return func(o *runOptions) {
		o.maxFrames = n
	}
}

// WithRunLogger sets the logger for frame overruns and shutdown.
func WithRunLogger(logger zerolog.Logger) RunOption {
	return func(o *runOptions) {
		o.logger = logger
	}
}

// Run drives cart at a fixed rate until ctx is done, the frontend reports a
// quit, presenting fails, or the frame limit is reached. Each frame it polls
// input, clears the framebuffer unless FlagPreserveFramebuffer is set, calls
// cart.Update and presents.
//
// Returns:
//   - nil when ctx is cancelled or the frame limit is reached.
//   - ErrQuit when the frontend asked to quit.
//   - The wrapped Present error otherwise.
func Run(ctx context.Context, cart Cart, mem *Memory, fe Frontend, opts ...RunOption) error {
	o := runOptions{fps: DefaultFPS, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	period := time.Second / time.Duration(o.fps)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var frame uint64
	for {
		if o.maxFrames > 0 && frame >= o.maxFrames {
			return nil
		}
		if ctx.Err() != nil {
			o.logger.Info().Uint64("frame", frame).Msg("stopped")
			return nil
		}
		start := time.Now()
		if !fe.Poll(mem) {
			o.logger.Info().Uint64("frame", frame).Msg("quit requested")
			return ErrQuit
		}
		if mem.SystemFlags&FlagPreserveFramebuffer == 0 {
			mem.Clear()
		}
		cart.Update()
		if err := fe.Present(mem); err != nil {
			return eris.Wrapf(err, "present frame %d", frame)
		}
		frame++
		if d := time.Since(start); d > period {
			o.logger.Debug().Uint64("frame", frame).Dur("took", d).Msg("frame overran")
		}

		select {
		case <-ctx.Done():
			o.logger.Info().Uint64("frame", frame).Msg("stopped")
			return nil
		case <-ticker.C:
		}
	}
}
