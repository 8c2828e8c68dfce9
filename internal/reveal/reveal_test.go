package reveal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlay_StepsSpellRecipient(t *testing.T) {
	var steps []Step
	err := Play(context.Background(), "Rekha", &Config{Interval: -1}, func(s Step) error {
		steps = append(steps, s)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, steps, 5)

	assert.Equal(t, Step{Index: 0, Letter: "R", Partial: "R"}, steps[0])
	assert.Equal(t, Step{Index: 4, Letter: "a", Partial: "Rekha", Final: true}, steps[4])
	for _, s := range steps[:4] {
		assert.False(t, s.Final)
	}
}

func TestPlay_MultiByteRunes(t *testing.T) {
	var partials []string
	err := Play(context.Background(), "Zoë", &Config{Interval: -1}, func(s Step) error {
		partials = append(partials, s.Partial)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Z", "Zo", "Zoë"}, partials)
}

func TestPlay_WaitsBetweenSteps(t *testing.T) {
	start := time.Now()
	err := Play(context.Background(), "Raj", &Config{Interval: 10 * time.Millisecond}, func(Step) error {
		return nil
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestPlay_StopsOnCallbackError(t *testing.T) {
	boom := errors.New("client went away")
	calls := 0
	err := Play(context.Background(), "Trevor", &Config{Interval: -1}, func(Step) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestPlay_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Play(ctx, "Shivani", &Config{Interval: time.Hour}, func(Step) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)

	calls = 0
	err = Play(ctx, "Shivani", nil, func(Step) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestPlay_InvalidInput(t *testing.T) {
	assert.Error(t, Play(context.Background(), "", nil, func(Step) error { return nil }))
	assert.Error(t, Play(context.Background(), "Raj", nil, nil))
}
