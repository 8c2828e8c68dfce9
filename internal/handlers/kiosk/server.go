package kiosk

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/KirkDiggler/secretsanta/internal/roster"
	"github.com/KirkDiggler/secretsanta/internal/services/draw"
	"github.com/KirkDiggler/secretsanta/internal/services/messaging"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

const (
	defaultBind    = "127.0.0.1"
	defaultPort    = 8080
	requestTimeout = 10 * time.Second
)

// Config holds the configuration for the kiosk server
type Config struct {
	// Bind is the listen address. Defaults to 127.0.0.1.
	Bind string

	// Port is the listen port. Defaults to 8080.
	Port int

	// AdminHash is the argon2id hash guarding the reset route. Empty disables reset.
	AdminHash string

	// RevealInterval is the delay between letters on the reveal stream
	RevealInterval time.Duration

	// Service dependencies
	DrawService      draw.Service
	MessagingService messaging.Service
	Roster           *roster.Roster

	// Logger is optional and defaults to the logrus standard logger
	Logger logrus.FieldLogger
}

// Server is the web kiosk in front of the draw service
type Server struct {
	config    *Config
	draws     draw.Service
	messages  messaging.Service
	roster    *roster.Roster
	log       logrus.FieldLogger
	router    *httprouter.Router
	pages     *pages
	adminHash string

	// mu serializes every call into the draw service
	mu sync.Mutex
}

// New creates a new kiosk server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.DrawService == nil {
		return nil, errors.New("draw service cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	if cfg.Roster == nil {
		return nil, errors.New("roster cannot be nil")
	}

	if cfg.Bind == "" {
		cfg.Bind = defaultBind
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	tmpl, err := loadPages()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	s := &Server{
		config:    cfg,
		draws:     cfg.DrawService,
		messages:  cfg.MessagingService,
		roster:    cfg.Roster,
		log:       log.WithField("component", "kiosk"),
		pages:     tmpl,
		adminHash: cfg.AdminHash,
	}
	s.router = s.routes()

	return s, nil
}

func (s *Server) routes() *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		s.log.WithFields(logrus.Fields{
			"path":  r.URL.Path,
			"panic": i,
		}).Error("Handler panicked")

		s.renderError(w, http.StatusInternalServerError, "Server Error", "An error has occurred. Please try again.")
	}

	mux.GET("/", s.serveHome())
	mux.POST("/draw", s.requireSameOrigin(s.serveDraw()))
	mux.GET("/ws/reveal/:name", s.serveReveal())
	mux.GET("/status", s.serveStatus())
	mux.GET("/qr", s.serveQR())
	mux.POST("/admin/reset", s.requireSameOrigin(s.serveAdminReset()))
	mux.GET("/healthz", s.serveHealthCheck())
	mux.GET("/static/:file", s.serveStatic())

	return mux
}

// Handler returns the kiosk routes wrapped in request logging
func (s *Server) Handler() http.Handler {
	return logMiddleware(s.log)(s.router)
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Bind, strconv.Itoa(s.config.Port))
}

// Run serves the kiosk until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       requestTimeout,
		ReadHeaderTimeout: requestTimeout,
		WriteTimeout:      requestTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("Kiosk listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err, ok := <-errs:
		if ok {
			return fmt.Errorf("kiosk server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.log.Info("Kiosk shutting down")
	return srv.Shutdown(shutdownCtx)
}

// getOrDraw runs one draw with the engine lock held
func (s *Server) getOrDraw(ctx context.Context, name string) (*draw.GetOrDrawOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.draws.GetOrDraw(ctx, &draw.GetOrDrawInput{Drawer: name})
}

func (s *Server) getStatus(ctx context.Context) (*draw.GetStatusOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.draws.GetStatus(ctx, &draw.GetStatusInput{})
}

func (s *Server) reset(ctx context.Context) (*draw.ResetOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.draws.Reset(ctx, &draw.ResetInput{})
}
