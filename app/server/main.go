package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iseefortune/go-verifier/rpc"
	"github.com/iseefortune/go-verifier/store"
)

const prefix = "VERIFIER_SERVER"

// policyModulus matches the range of the command line verifier.
const policyModulus = 10

func main() {
	if err := run(); err != nil {
		log.Fatalf("main: exited with error: %s", err.Error())
	}
}

func run() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)

	logger, err := config.Build()
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}
	defer logger.Sync()

	var cfg struct {
		Server struct {
			HttpHost        string        `conf:"default:0.0.0.0:8000"`
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:5s"`
			ShutdownTimeout time.Duration `conf:"default:5s"`
		}
		Verifier struct {
			CacheMaxItems int64  `conf:"default:10000"`
			StoreFolder   string `conf:"default:store"`
		}
	}

	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config version")
			}
			fmt.Println(version)
			return nil
		}
		return errors.Wrap(err, "parsing config")
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return errors.Wrap(err, "generating config for output")
	}
	logger.Sugar().Infof("main: Config :\n%v\n", out)

	gin.SetMode(gin.ReleaseMode)

	var auditStore rpc.AuditStore
	if cfg.Verifier.StoreFolder != "" {
		s, err := store.NewAuditStore(cfg.Verifier.StoreFolder, logger)
		if err != nil {
			return errors.Wrap(err, "creating audit store")
		}
		defer s.Close()
		auditStore = s
	}

	srv, err := rpc.NewServer(rpc.Config{
		ListenAddr:    cfg.Server.HttpHost,
		Modulus:       policyModulus,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		CacheMaxItems: cfg.Verifier.CacheMaxItems,
	}, auditStore, logger)
	if err != nil {
		return errors.Wrap(err, "creating server")
	}

	err = srv.Start()
	if err != nil {
		return errors.Wrap(err, "starting server")
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case <-shutdown:
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	case err := <-srv.Errors():
		return errors.Wrap(err, "server error")
	}
}
