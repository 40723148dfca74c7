package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/saeidalz13/gridstrike-backend/db/sqlc"
	mb "github.com/saeidalz13/gridstrike-backend/models/battleship"
	mc "github.com/saeidalz13/gridstrike-backend/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	RouteGridStrike = "GET /gridstrike"

	// Matches untouched for longer than this are purged
	DefaultMatchMaxIdle = time.Hour * 2
)

var defaultPort = "8000"

type Server struct {
	port                   string
	stage                  string
	db                     *sql.DB
	logger                 *zap.Logger
	strictPlacement        bool
	sessionCleanupInterval time.Duration
	matchMaxIdle           time.Duration

	SessionManager   *mc.BattleshipSessionManager
	MatchManager     *mb.BattleshipMatchManager
	RequestProcessor RequestProcessor
}

type Option func(*Server) error

func NewServer(optFuncs ...Option) *Server {
	server := Server{
		port:                   defaultPort,
		stage:                  StageDev,
		sessionCleanupInterval: mc.DefaultCleanupInterval,
		matchMaxIdle:           DefaultMatchMaxIdle,
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}
	if server.logger == nil {
		server.logger = zap.NewNop()
	}

	var (
		store     mb.MatchStore
		analytics *sqlc.AnalyticsManager
	)
	if server.db != nil {
		dbManager := sqlc.NewDbManager(sqlc.New(server.db))
		store = dbManager.Matches
		analytics = dbManager.Analytics
	} else {
		server.logger.Info("no database configured; keeping matches in memory")
		store = mb.NewMemoryMatchStore()
	}

	server.SessionManager = mc.NewBattleshipSessionManager(server.logger, mc.WithCleanupInterval(server.sessionCleanupInterval))
	server.MatchManager = mb.NewBattleshipMatchManager(store, mb.WithStrictPlacement(server.strictPlacement))
	server.RequestProcessor = NewRequestProcessor(server.SessionManager, server.MatchManager, analytics, server.logger)

	return &server
}

func WithPort(port string) Option {
	return func(s *Server) error {
		if port != "" {
			s.port = port
		}
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

func WithDb(db *sql.DB) Option {
	return func(s *Server) error {
		s.db = db
		return nil
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

func WithStrictPlacement(strict bool) Option {
	return func(s *Server) error {
		s.strictPlacement = strict
		return nil
	}
}

func WithSessionCleanupInterval(interval time.Duration) Option {
	return func(s *Server) error {
		if interval <= 0 {
			return fmt.Errorf("session cleanup interval must be positive: %s", interval)
		}
		s.sessionCleanupInterval = interval
		return nil
	}
}

func WithMatchMaxIdle(maxIdle time.Duration) Option {
	return func(s *Server) error {
		if maxIdle <= 0 {
			return fmt.Errorf("match max idle must be positive: %s", maxIdle)
		}
		s.matchMaxIdle = maxIdle
		return nil
	}
}

func (s *Server) Port() string {
	return s.port
}

func (s *Server) Stage() string {
	return s.stage
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(RouteGridStrike, s.RequestProcessor)
	return mux
}

// Purges idle matches every interval until ctx is done.
func (s *Server) CleanupMatchesPeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			deleted, err := s.MatchManager.CleanupStale(ctx, s.matchMaxIdle)
			if err != nil {
				s.logger.Error("failed to clean up stale matches", zap.Error(err))
				continue
			}
			if deleted > 0 {
				s.logger.Info("removed stale matches", zap.Int64("count", deleted))
			}
		}
	}
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	go s.SessionManager.CleanupPeriodically()
	go s.CleanupMatchesPeriodically(ctx, s.sessionCleanupInterval)

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + s.port,
		Handler:           s.Mux(),
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", zap.String("port", s.port), zap.String("stage", s.stage))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
