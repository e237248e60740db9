package synth

import (
	"errors"
	"testing"
	"time"
)

func TestOptionsRejectInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"max block", WithMaxBlockSize(0)},
		{"inbox", WithInboxCapacity(-1)},
		{"events", WithMaxEventsPerBlock(0)},
		{"interval", WithParamUpdateInterval(0)},
		{"limiter low", WithLimiterThreshold(0)},
		{"limiter high", WithLimiterThreshold(1.5)},
		{"plate timeout", WithPlateTimeout(0)},
		{"clock", WithClock(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if !errors.Is(err, ErrInvalidOption) {
				t.Fatalf("New() error = %v, want ErrInvalidOption", err)
			}
		})
	}
}

func TestOptionsApply(t *testing.T) {
	e, err := New(
		WithInboxCapacity(8),
		WithVoiceWindow(2),
		WithPlateTimeout(time.Second),
		WithSeed(42),
		nil,
	)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	if e.inbox.Cap() != 8 {
		t.Fatalf("inbox capacity = %d, want 8", e.inbox.Cap())
	}
	if e.ActiveVoiceWindow() != 4 {
		t.Fatalf("window = %d, want clamped 4", e.ActiveVoiceWindow())
	}
	if e.backlog != 2*DefaultMaxEventsPerBlock || e.drainLimit != DefaultMaxEventsPerBlock/2 {
		t.Fatalf("backlog %d drain %d", e.backlog, e.drainLimit)
	}
}
