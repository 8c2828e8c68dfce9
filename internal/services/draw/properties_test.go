package draw

import (
	"context"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/KirkDiggler/secretsanta/internal/common/clock"
	"github.com/KirkDiggler/secretsanta/internal/common/uuid"
	"github.com/KirkDiggler/secretsanta/internal/picker"
	drawStateRepo "github.com/KirkDiggler/secretsanta/internal/repositories/draw_state"
	"github.com/KirkDiggler/secretsanta/internal/roster"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	repo    drawStateRepo.Repository
	service Service
	roster  *roster.Roster
}

func newHarness(t *testing.T, p picker.Picker) *harness {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	r := roster.Default()

	repo, err := drawStateRepo.NewFile(&drawStateRepo.FileConfig{
		Fs:     afero.NewMemMapFs(),
		Path:   "state.json",
		Roster: r,
		Logger: logger,
	})
	require.NoError(t, err)

	svc, err := New(&Config{
		Repository:    repo,
		Roster:        r,
		Picker:        p,
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
		Logger:        logger,
	})
	require.NoError(t, err)

	return &harness{repo: repo, service: svc, roster: r}
}

func (h *harness) poolSize(t *testing.T) int {
	t.Helper()
	output, err := h.repo.LoadState(context.Background(), &drawStateRepo.LoadStateInput{})
	require.NoError(t, err)
	return len(output.State.Available)
}

// releaseLock clears the device lock so the next participant can draw
// against the same assignments, as if the state had been handed to another
// device
func (h *harness) releaseLock(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	output, err := h.repo.LoadState(ctx, &drawStateRepo.LoadStateInput{})
	require.NoError(t, err)
	output.State.DeviceLock = ""
	require.NoError(t, h.repo.SaveState(ctx, &drawStateRepo.SaveStateInput{State: output.State}))
}

func TestGetOrDraw_Properties(t *testing.T) {
	ctx := context.Background()

	for seed := uint64(1); seed <= 200; seed++ {
		h := newHarness(t, picker.New(&picker.Config{Seed: seed}))

		order := h.roster.Names()
		shuffle := rand.New(rand.NewPCG(seed, seed))
		shuffle.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		seen := make(map[string]string)
		for _, drawer := range order {
			before := h.poolSize(t)

			output, err := h.service.GetOrDraw(ctx, &GetOrDrawInput{Drawer: drawer})
			if err != nil {
				require.ErrorIs(t, err, ErrNoValidRecipient, "seed %d drawer %s", seed, drawer)
				assert.Equal(t, before, h.poolSize(t), "failed draw must not shrink the pool")
				h.releaseLock(t)
				continue
			}

			require.True(t, output.IsNewDraw)
			assert.NotEqual(t, drawer, output.Recipient, "self-exclusion")

			drawerFamily, _ := h.roster.FamilyOf(drawer)
			recipientFamily, _ := h.roster.FamilyOf(output.Recipient)
			assert.NotEqual(t, drawerFamily, recipientFamily, "family-exclusion")

			for other, recipient := range seen {
				assert.NotEqual(t, recipient, output.Recipient, "%s and %s drew the same name", other, drawer)
			}
			seen[drawer] = output.Recipient

			assert.Equal(t, before-1, h.poolSize(t), "pool shrinks by exactly one")

			replay, err := h.service.GetOrDraw(ctx, &GetOrDrawInput{Drawer: drawer})
			require.NoError(t, err)
			assert.False(t, replay.IsNewDraw)
			assert.Equal(t, output.Recipient, replay.Recipient, "idempotence")
			assert.Equal(t, before-1, h.poolSize(t), "replay leaves the pool alone")

			h.releaseLock(t)
		}
	}
}

func TestGetOrDraw_DeviceLockHoldsForEveryOtherParticipant(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, picker.New(nil))

	first, err := h.service.GetOrDraw(ctx, &GetOrDrawInput{Drawer: "Karan"})
	require.NoError(t, err)

	status, err := h.service.GetStatus(ctx, &GetStatusInput{})
	require.NoError(t, err)
	assert.Equal(t, "Karan", status.DeviceLock)

	for _, name := range h.roster.Names() {
		if name == "Karan" {
			continue
		}
		_, err := h.service.GetOrDraw(ctx, &GetOrDrawInput{Drawer: name})

		var lockErr *DeviceAlreadyUsedError
		require.ErrorAs(t, err, &lockErr, name)
		assert.Equal(t, "Karan", lockErr.LockedAs)
	}

	after, err := h.service.GetStatus(ctx, &GetStatusInput{})
	require.NoError(t, err)
	assert.Equal(t, status, after, "rejected draws must not change state")

	replay, err := h.service.GetOrDraw(ctx, &GetOrDrawInput{Drawer: "Karan"})
	require.NoError(t, err)
	assert.Equal(t, first.Recipient, replay.Recipient)
}

func TestGetOrDraw_KaranDrawsUniformlyOutsideFamily(t *testing.T) {
	ctx := context.Background()
	p := picker.New(&picker.Config{Seed: 2025})
	const trials = 6000

	counts := make(map[string]int)
	for i := 0; i < trials; i++ {
		h := newHarness(t, p)
		output, err := h.service.GetOrDraw(ctx, &GetOrDrawInput{Drawer: "Karan"})
		require.NoError(t, err)
		counts[output.Recipient]++
	}

	expected := []string{"Shashi", "Roopesh", "Roosh", "Manisha", "Trevor", "Shannon"}
	assert.Len(t, counts, len(expected))
	for _, name := range expected {
		// 1000 expected per name, standard deviation is about 29
		assert.InDelta(t, trials/len(expected), counts[name], 150, name)
	}
}

func TestReset_ThenLoadReturnsDefaults(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, picker.New(nil))

	_, err := h.service.GetOrDraw(ctx, &GetOrDrawInput{Drawer: "Shannon"})
	require.NoError(t, err)

	_, err = h.service.Reset(ctx, &ResetInput{})
	require.NoError(t, err)

	output, err := h.repo.LoadState(ctx, &drawStateRepo.LoadStateInput{})
	require.NoError(t, err)
	assert.Empty(t, output.State.Assigned)
	assert.Equal(t, h.roster.Names(), output.State.Available)
	assert.False(t, output.State.IsLocked())

	// a reset device can be bound to someone new
	next, err := h.service.GetOrDraw(ctx, &GetOrDrawInput{Drawer: "Krisha"})
	require.NoError(t, err)
	assert.True(t, next.IsNewDraw)
}
