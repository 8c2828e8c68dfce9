package draw

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/secretsanta/internal/common/clock"
	"github.com/KirkDiggler/secretsanta/internal/common/uuid"
	"github.com/KirkDiggler/secretsanta/internal/models"
	"github.com/KirkDiggler/secretsanta/internal/picker"
	drawStateRepo "github.com/KirkDiggler/secretsanta/internal/repositories/draw_state"
	"github.com/KirkDiggler/secretsanta/internal/roster"
	"github.com/sirupsen/logrus"
)

// service implements the Service interface
type service struct {
	repo          drawStateRepo.Repository
	roster        *roster.Roster
	picker        picker.Picker
	clock         clock.Clock
	uuidGenerator uuid.UUID
	log           logrus.FieldLogger
}

// New creates a new draw service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	if cfg.Roster == nil {
		return nil, ErrNilRoster
	}

	if cfg.Picker == nil {
		return nil, ErrNilPicker
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &service{
		repo:          cfg.Repository,
		roster:        cfg.Roster,
		picker:        cfg.Picker,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		log:           log.WithField("service", "draw"),
	}, nil
}

// GetOrDraw replays the drawer's earlier result or draws a new recipient.
// Nothing is written unless a new draw is committed.
func (s *service) GetOrDraw(ctx context.Context, input *GetOrDrawInput) (*GetOrDrawOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	drawer := input.Drawer
	drawerFamily, err := s.roster.FamilyOf(drawer)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParticipant, drawer)
	}

	loaded, err := s.repo.LoadState(ctx, &drawStateRepo.LoadStateInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to load draw state: %w", err)
	}
	state := loaded.State

	// A device bound to someone else never reaches the draw
	if state.IsLocked() && state.DeviceLock != drawer {
		return nil, &DeviceAlreadyUsedError{LockedAs: state.DeviceLock}
	}

	if recipient, ok := state.RecipientOf(drawer); ok {
		return &GetOrDrawOutput{
			Recipient: recipient,
			IsNewDraw: false,
		}, nil
	}

	candidates := s.candidates(state, drawer, drawerFamily)
	if len(candidates) == 0 {
		s.log.WithFields(logrus.Fields{
			"drawer":         drawer,
			"pool_remaining": len(state.Available),
		}).Warn("No valid recipient left for drawer")
		return nil, ErrNoValidRecipient
	}

	chosen := candidates[s.picker.IntN(len(candidates))]

	next := state.Clone()
	next.Assigned[drawer] = chosen
	next.Available = without(next.Available, chosen)
	if !next.IsLocked() {
		next.DeviceLock = drawer
	}

	if err := s.repo.SaveState(ctx, &drawStateRepo.SaveStateInput{State: next}); err != nil {
		return nil, fmt.Errorf("failed to commit draw: %w", err)
	}

	drawID := s.uuidGenerator.NewUUID()
	drawnAt := s.clock.Now()

	// never log the recipient
	s.log.WithFields(logrus.Fields{
		"draw_id":        drawID,
		"drawer":         drawer,
		"candidates":     len(candidates),
		"pool_remaining": len(next.Available),
		"drawn_at":       drawnAt,
	}).Info("Draw committed")

	return &GetOrDrawOutput{
		Recipient: chosen,
		IsNewDraw: true,
		DrawID:    drawID,
		DrawnAt:   drawnAt,
	}, nil
}

// candidates filters the current pool for names the drawer may receive
func (s *service) candidates(state *models.DrawState, drawer string, drawerFamily models.FamilyID) []string {
	valid := make([]string, 0, len(state.Available))
	for _, name := range state.Available {
		if name == drawer {
			continue
		}
		family, err := s.roster.FamilyOf(name)
		if err != nil || family == drawerFamily {
			continue
		}
		valid = append(valid, name)
	}
	return valid
}

// GetStatus summarizes the draw without revealing any recipient
func (s *service) GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error) {
	loaded, err := s.repo.LoadState(ctx, &drawStateRepo.LoadStateInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to load draw state: %w", err)
	}
	state := loaded.State

	drawn := make([]string, 0, len(state.Assigned))
	for _, name := range s.roster.Names() {
		if _, ok := state.Assigned[name]; ok {
			drawn = append(drawn, name)
		}
	}

	return &GetStatusOutput{
		DeviceLock:   state.DeviceLock,
		Drawn:        drawn,
		Remaining:    len(state.Available),
		Participants: len(s.roster.Names()),
	}, nil
}

// Reset wipes every draw and the device lock
func (s *service) Reset(ctx context.Context, input *ResetInput) (*ResetOutput, error) {
	if err := s.repo.ResetState(ctx, &drawStateRepo.ResetStateInput{}); err != nil {
		return nil, fmt.Errorf("failed to reset draw state: %w", err)
	}

	s.log.Warn("Draw state reset")

	return &ResetOutput{
		Success: true,
	}, nil
}

func without(names []string, name string) []string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	return kept
}
