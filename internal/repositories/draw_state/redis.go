package draw_state

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/secretsanta/internal/models"
	"github.com/KirkDiggler/secretsanta/internal/roster"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultKeyPrefix = "santa"

// Config holds configuration for the Redis draw state repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// KeyPrefix namespaces the keys of one device. Defaults to "santa".
	KeyPrefix string

	// Roster seeds the default pool and validates loaded state
	Roster *roster.Roster

	// Logger receives recovery warnings. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	prefix string
	roster *roster.Roster
	log    logrus.FieldLogger
}

// NewRedis creates a new Redis-backed draw state repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.Roster == nil {
		return nil, errors.New("roster cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &redisRepository{
		client: cfg.RedisClient,
		prefix: prefix,
		roster: cfg.Roster,
		log:    log.WithField("store", "redis"),
	}, nil
}

func (r *redisRepository) key(field string) string {
	return fmt.Sprintf("%s:%s", r.prefix, field)
}

func (r *redisRepository) keys() []string {
	keys := make([]string, len(allFields))
	for i, field := range allFields {
		keys[i] = r.key(field)
	}
	return keys
}

// LoadState reads every field with a single MGET
func (r *redisRepository) LoadState(ctx context.Context, input *LoadStateInput) (*LoadStateOutput, error) {
	values, err := r.client.MGet(ctx, r.keys()...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load draw state: %w", err)
	}

	// MGET yields nil for missing keys and for keys of another type
	fields := make(map[string]string, len(allFields))
	recovered := false
	for i, value := range values {
		if value == nil {
			continue
		}
		s, ok := value.(string)
		if !ok {
			recovered = true
			continue
		}
		fields[allFields[i]] = s
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
		Recovered: recovered || repaired,
	}, nil
}

// SaveState writes all fields inside MULTI/EXEC so readers never see a
// partial update
func (r *redisRepository) SaveState(ctx context.Context, input *SaveStateInput) error {
	if input == nil || input.State == nil {
		return errors.New("input and state cannot be nil")
	}

	fields, err := encodeState(input.State)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, field := range allFields {
			value, ok := fields[field]
			if !ok {
				pipe.Del(ctx, r.key(field))
				continue
			}
			pipe.Set(ctx, r.key(field), value, 0) // No expiration
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save draw state: %w", err)
	}

	return nil
}

// ResetState deletes every key of this device
func (r *redisRepository) ResetState(ctx context.Context, input *ResetStateInput) error {
	if err := r.client.Del(ctx, r.keys()...).Err(); err != nil {
		return fmt.Errorf("failed to reset draw state: %w", err)
	}
	return nil
}
