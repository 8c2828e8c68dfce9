package draw_state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KirkDiggler/secretsanta/internal/models"
	"github.com/KirkDiggler/secretsanta/internal/roster"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// FileConfig holds configuration for the file draw state repository
type FileConfig struct {
	// Fs is the filesystem holding the state file. Defaults to the OS filesystem.
	Fs afero.Fs

	// Path of the state document
	Path string

	// Roster seeds the default pool and validates loaded state
	Roster *roster.Roster

	// Logger receives recovery warnings. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// fileRepository keeps the state of one device in a single JSON document
type fileRepository struct {
	fs     afero.Fs
	path   string
	roster *roster.Roster
	log    logrus.FieldLogger
}

// NewFile creates a new file-backed draw state repository
func NewFile(cfg *FileConfig) (*fileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Path == "" {
		return nil, errors.New("state file path cannot be empty")
	}

	if cfg.Roster == nil {
		return nil, errors.New("roster cannot be nil")
	}

	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &fileRepository{
		fs:     fs,
		path:   cfg.Path,
		roster: cfg.Roster,
		log:    log.WithFields(logrus.Fields{"store": "file", "path": cfg.Path}),
	}, nil
}

// LoadState reads the state document. A missing file is a fresh device; an
// unparsable one is treated the same way. Fields are decoded one at a time.
func (r *fileRepository) LoadState(ctx context.Context, input *LoadStateInput) (*LoadStateOutput, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &LoadStateOutput{
				State: models.NewDrawState(r.roster.Names()),
			}, nil
		}
		return nil, fmt.Errorf("failed to read draw state: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		r.log.WithError(err).Warn("Discarding unreadable draw state file")
		return &LoadStateOutput{
			State:     models.NewDrawState(r.roster.Names()),
			Recovered: true,
		}, nil
	}

	// A field that is not a JSON string falls back to its own default
	fields := make(map[string]string, len(doc))
	skipped := false
	for name, raw := range doc {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			r.log.WithError(err).WithField("field", name).Warn("Discarding unreadable draw state field")
			skipped = true
			continue
		}
		fields[name] = value
	}

	if staleVersion(fields) {
		r.log.WithField("schema_version", fields[fieldSchemaVersion]).Warn("Discarding draw state from another schema version")
		if err := r.ResetState(ctx, &ResetStateInput{}); err != nil {
			return nil, err
		}
		return &LoadStateOutput{
			State:     models.NewDrawState(r.roster.Names()),
			Recovered: true,
			Discarded: true,
		}, nil
	}

	state, repaired := decodeState(fields, r.roster, r.log)

	return &LoadStateOutput{
		State:     state,
		Recovered: repaired || skipped,
	}, nil
}

// SaveState writes a temporary file next to the state file and renames it
// into place, so the document is always either the old or the new state
func (r *fileRepository) SaveState(ctx context.Context, input *SaveStateInput) error {
	if input == nil || input.State == nil {
		return errors.New("input and state cannot be nil")
	}

	fields, err := encodeState(input.State)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal draw state: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write draw state: %w", err)
	}
	if err := r.fs.Rename(tmp, r.path); err != nil {
		_ = r.fs.Remove(tmp)
		return fmt.Errorf("failed to replace draw state: %w", err)
	}

	return nil
}

// ResetState removes the state document
func (r *fileRepository) ResetState(ctx context.Context, input *ResetStateInput) error {
	if err := r.fs.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to reset draw state: %w", err)
	}
	return nil
}
