package rpc

import (
	"context"
	"net"
	"net/http"
	"time"

	ristretto "github.com/dgraph-io/ristretto/v2"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iseefortune/go-verifier/store"
	"github.com/iseefortune/go-verifier/verifier"
)

// AuditStore persists verifications served over HTTP.
type AuditStore interface {
	PutResult(ctx context.Context, source string, res verifier.Result) error
	GetRecordsForSlot(ctx context.Context, slot uint64) ([]store.AuditRecord, error)
}

type Config struct {
	ListenAddr    string
	Modulus       uint64
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	CacheMaxItems int64
}

type Server struct {
	cfg     Config
	store   AuditStore
	cache   *ristretto.Cache[string, verifier.Result]
	metrics *Metrics
	logger  *zap.Logger

	httpServer *http.Server
	errs       chan error
}

// NewServer creates the verification server. auditStore may be nil, in which
// case nothing is persisted and the audit endpoint is unavailable.
func NewServer(cfg Config, auditStore AuditStore, logger *zap.Logger) (*Server, error) {
	if cfg.Modulus == 0 {
		return nil, verifier.ErrInvalidModulus
	}
	if cfg.CacheMaxItems < 1 {
		cfg.CacheMaxItems = 1
	}

	// results are deterministic, so entries never need to expire
	cache, err := ristretto.NewCache(&ristretto.Config[string, verifier.Result]{
		NumCounters:        cfg.CacheMaxItems * 10,
		MaxCost:            cfg.CacheMaxItems,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating result cache")
	}

	s := &Server{
		cfg:     cfg,
		store:   auditStore,
		cache:   cache,
		metrics: NewMetrics(),
		logger:  logger,
		errs:    make(chan error, 1),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(s.logger), gin.Recovery())

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	router.GET("/v1/verify", s.verify)
	router.GET("/v1/audits/:slot", s.audits)

	return router
}

// Start listens on the configured address and serves in the background.
// Serving failures are reported on Errors.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.cfg.ListenAddr)
	}

	go func() {
		err := s.httpServer.Serve(lis)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- errors.Wrap(err, "serving http")
		}
	}()

	s.logger.Info("http server started", zap.String("addr", lis.Addr().String()))

	return nil
}

func (s *Server) Errors() <-chan error {
	return s.errs
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.cache.Close()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return errors.Wrap(err, "shutting down http server")
	}

	return nil
}
