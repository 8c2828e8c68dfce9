package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/KirkDiggler/secretsanta/internal/common/clock"
	"github.com/KirkDiggler/secretsanta/internal/common/uuid"
	"github.com/KirkDiggler/secretsanta/internal/picker"
	drawStateRepo "github.com/KirkDiggler/secretsanta/internal/repositories/draw_state"
	"github.com/KirkDiggler/secretsanta/internal/roster"
	"github.com/KirkDiggler/secretsanta/internal/services/draw"
	"github.com/KirkDiggler/secretsanta/internal/services/messaging"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// app holds the services shared by every command
type app struct {
	log      *logrus.Logger
	roster   *roster.Roster
	draws    draw.Service
	messages messaging.Service
	closers  []io.Closer
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return logger, nil
}

func newApp(ctx context.Context, cfg *Config, logOut io.Writer) (*app, error) {
	logger, err := newLogger(cfg.logLevel, logOut)
	if err != nil {
		return nil, err
	}

	r, err := cfg.loadRoster()
	if err != nil {
		return nil, err
	}

	a := &app{
		log:    logger,
		roster: r,
	}

	repo, err := a.newRepository(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.draws, err = draw.New(&draw.Config{
		Repository:    repo,
		Roster:        r,
		Picker:        picker.New(&picker.Config{}),
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
		Logger:        logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create draw service: %w", err)
	}

	a.messages, err = messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create messaging service: %w", err)
	}

	return a, nil
}

func (a *app) newRepository(ctx context.Context, cfg *Config) (drawStateRepo.Repository, error) {
	switch cfg.store {
	case storeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		a.closers = append(a.closers, client)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.redisAddr, err)
		}

		repo, err := drawStateRepo.NewRedis(&drawStateRepo.Config{
			RedisClient: client,
			KeyPrefix:   cfg.redisPrefix,
			Roster:      a.roster,
			Logger:      a.log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create draw state repository: %w", err)
		}
		return repo, nil
	default:
		repo, err := drawStateRepo.NewFile(&drawStateRepo.FileConfig{
			Fs:     cfg.fs,
			Path:   cfg.stateFile,
			Roster: a.roster,
			Logger: a.log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create draw state repository: %w", err)
		}
		return repo, nil
	}
}

// Close releases store connections
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close store connection")
		}
	}
}
