// Package reveal plays back an already drawn name one letter at a time.
package reveal

import (
	"context"
	"errors"
	"time"
)

// DefaultInterval is the delay between steps when none is configured
const DefaultInterval = 150 * time.Millisecond

// Config controls the pacing of a reveal
type Config struct {
	// Interval is the delay between steps. Zero uses DefaultInterval,
	// a negative value plays the steps without delay.
	Interval time.Duration
}

// Step is one frame of the reveal
type Step struct {
	Index   int    `json:"index"`
	Letter  string `json:"letter"`
	Partial string `json:"partial"`
	Final   bool   `json:"final"`
}

// Play calls fn once per rune of recipient, waiting cfg.Interval between
// calls. It stops on the first callback error or when ctx is done.
func Play(ctx context.Context, recipient string, cfg *Config, fn func(Step) error) error {
	if fn == nil {
		return errors.New("step callback cannot be nil")
	}

	runes := []rune(recipient)
	if len(runes) == 0 {
		return errors.New("recipient cannot be empty")
	}

	interval := DefaultInterval
	if cfg != nil && cfg.Interval != 0 {
		interval = cfg.Interval
	}

	for i, r := range runes {
		if i > 0 && interval > 0 {
			if err := wait(ctx, interval); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		step := Step{
			Index:   i,
			Letter:  string(r),
			Partial: string(runes[:i+1]),
			Final:   i == len(runes)-1,
		}
		if err := fn(step); err != nil {
			return err
		}
	}

	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
