package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iseefortune/go-verifier/store"
	"github.com/iseefortune/go-verifier/vectors"
)

const prefix = "VERIFIER_VECTORS"

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
	sLogger := logger.Sugar()

	var cfg struct {
		Path        string        `conf:"default:vectors/testdata/vectors.json"`
		Workers     int           `conf:"default:4"`
		Timeout     time.Duration `conf:"default:1m"`
		StoreFolder string
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
	sLogger.Infof("main: Config :\n%v\n", out)

	vecs, err := vectors.Load(cfg.Path)
	if err != nil {
		return errors.Wrap(err, "loading vectors")
	}

	var auditStore *store.AuditStore
	var sink vectors.ResultSink
	if cfg.StoreFolder != "" {
		auditStore, err = store.NewAuditStore(cfg.StoreFolder, logger)
		if err != nil {
			return errors.Wrap(err, "creating audit store")
		}
		defer auditStore.Close()
		sink = auditStore
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner := vectors.NewRunner(cfg.Workers, sink, sLogger)
	report, err := runner.Run(ctx, vecs)
	if err != nil {
		return errors.Wrap(err, "running vectors")
	}

	if auditStore != nil {
		err = auditStore.SetLastRun(ctx, store.RunSummary{
			Path:       cfg.Path,
			Total:      len(report.Outcomes),
			Passed:     report.Passed,
			Failed:     report.Failed,
			FinishedAt: time.Now().UnixMilli(),
		})
		if err != nil {
			return errors.Wrap(err, "storing run summary")
		}
	}

	if err := report.Err(); err != nil {
		return err
	}

	fmt.Printf("OK: %d vector(s) passed\n", report.Passed)

	return nil
}
