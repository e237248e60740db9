package synth

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-modal/dsp/effects"
	"github.com/cwbudde/algo-modal/dsp/modal"
	"github.com/cwbudde/algo-modal/dsp/plate"
)

const (
	DefaultMaxBlockSize        = 2048
	DefaultInboxCapacity       = 64
	DefaultMaxEventsPerBlock   = 16
	DefaultParamUpdateInterval = 4

	// DefaultStrikeFreq and DefaultStrikeAmp are used by Strike for
	// non-positive arguments.
	DefaultStrikeFreq = 220.0
	DefaultStrikeAmp  = 0.7
)

var (
	// ErrInvalidOption is wrapped by every option validation error.
	ErrInvalidOption = errors.New("synth: invalid option")

	// ErrInvalidSampleRate is returned by Prepare for non-positive or
	// non-finite sample rates.
	ErrInvalidSampleRate = errors.New("synth: invalid sample rate")
)

// Option configures an Engine at construction time.
type Option func(*config) error

type config struct {
	maxBlockSize      int
	inboxCapacity     int
	maxEventsPerBlock int
	paramInterval     int
	limiterThreshold  float64
	plateTimeout      time.Duration
	voiceWindow       int
	seed              uint64
	clock             func() time.Duration
	logger            zerolog.Logger
}

func defaultConfig() config {
	return config{
		maxBlockSize:      DefaultMaxBlockSize,
		inboxCapacity:     DefaultInboxCapacity,
		maxEventsPerBlock: DefaultMaxEventsPerBlock,
		paramInterval:     DefaultParamUpdateInterval,
		limiterThreshold:  effects.DefaultLimiterThreshold,
		plateTimeout:      plate.DefaultTimeout,
		voiceWindow:       modal.DefaultWindow,
		seed:              1,
		logger:            zerolog.Nop(),
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidOption}, args...)...)
}

// WithMaxBlockSize sets the largest block rendered in one pass. Longer
// Render calls are split into chunks of this size.
func WithMaxBlockSize(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return invalid("max block size must be > 0: %d", n)
		}
		c.maxBlockSize = n
		return nil
	}
}

// WithInboxCapacity sets how many trigger events can wait between renders.
func WithInboxCapacity(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return invalid("inbox capacity must be > 0: %d", n)
		}
		c.inboxCapacity = n
		return nil
	}
}

// WithMaxEventsPerBlock sets how many events one block may apply. When more
// than twice this many are pending, only half as many are applied.
func WithMaxEventsPerBlock(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return invalid("max events per block must be > 0: %d", n)
		}
		c.maxEventsPerBlock = n
		return nil
	}
}

// WithParamUpdateInterval sets how many blocks pass between reads of the
// global timbre parameters.
func WithParamUpdateInterval(blocks int) Option {
	return func(c *config) error {
		if blocks <= 0 {
			return invalid("parameter update interval must be > 0: %d", blocks)
		}
		c.paramInterval = blocks
		return nil
	}
}

// WithLimiterThreshold sets the output ceiling in (0, 1].
func WithLimiterThreshold(threshold float64) Option {
	return func(c *config) error {
		if !(threshold > 0 && threshold <= 1) {
			return invalid("limiter threshold must be in (0, 1]: %f", threshold)
		}
		c.limiterThreshold = threshold
		return nil
	}
}

// WithPlateTimeout sets how long the plate sounds without updates.
func WithPlateTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return invalid("plate timeout must be > 0: %v", d)
		}
		c.plateTimeout = d
		return nil
	}
}

// WithVoiceWindow sets the initial active voice window. It is clamped like
// SetActiveVoiceWindow.
func WithVoiceWindow(n int) Option {
	return func(c *config) error {
		c.voiceWindow = n
		return nil
	}
}

// WithSeed makes every random source in the engine reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) error {
		c.seed = seed
		return nil
	}
}

// WithClock replaces the monotonic clock used by the plate fail-safe.
func WithClock(now func() time.Duration) Option {
	return func(c *config) error {
		if now == nil {
			return invalid("clock must not be nil")
		}
		c.clock = now
		return nil
	}
}

// WithLogger sets the logger used outside the render path.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}
