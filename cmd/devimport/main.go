package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/richxcame/devcert-dashboard/internal/csvimport"
	"github.com/richxcame/devcert-dashboard/internal/dashboard"
	"github.com/richxcame/devcert-dashboard/internal/developers"
	"github.com/richxcame/devcert-dashboard/internal/fraud"
	"github.com/richxcame/devcert-dashboard/pkg/config"
	fb "github.com/richxcame/devcert-dashboard/pkg/firebase"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"github.com/richxcame/devcert-dashboard/pkg/redis"
	"github.com/richxcame/devcert-dashboard/pkg/resilience"
	"go.uber.org/zap"
)

var (
	errMissingFile   = errors.New("-file is required")
	errUnknownFormat = errors.New("-format must be json or summary")
)

type options struct {
	file      string
	rulesPath string
	persist   bool
	records   bool
	format    string
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "Path to the CSV export to import")
	flag.StringVar(&opts.rulesPath, "rules", "", "Fraud rules YAML (defaults to FRAUD_RULES_PATH, then built-in rules)")
	flag.BoolVar(&opts.persist, "persist", false, "Upsert the valid records into Firestore")
	flag.BoolVar(&opts.records, "records", false, "Include the enriched records in the printed report")
	flag.StringVar(&opts.format, "format", "json", "Report format: json or summary")
	flag.Parse()

	cfg, err := config.Load("devimport")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init("devimport", cfg.Server.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if opts.rulesPath == "" {
		opts.rulesPath = cfg.Fraud.RulesPath
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var upserter csvimport.Upserter
	if opts.persist {
		store, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to open record store", zap.Error(err))
		}
		defer closeStore()
		upserter = store
	}

	if err := run(ctx, opts, upserter, os.Stdout); err != nil {
		logger.Error("Import failed", zap.String("file", opts.file), zap.Error(err))
		os.Exit(1)
	}
}

// run imports opts.file and prints the report. A nil upserter makes the
// import a dry run.
func run(ctx context.Context, opts options, upserter csvimport.Upserter, out io.Writer) error {
	if opts.file == "" {
		return errMissingFile
	}
	if opts.format != "" && opts.format != "json" && opts.format != "summary" {
		return errUnknownFormat
	}

	rules := fraud.DefaultRules()
	if opts.rulesPath != "" {
		var err error
		if rules, err = fraud.LoadRules(opts.rulesPath); err != nil {
			return err
		}
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", opts.file, err)
	}
	defer f.Close()

	svc := csvimport.NewService(csvimport.NewImporter(), fraud.NewService(fraud.NewEngine(rules), nil), upserter)
	report, err := svc.Import(ctx, csvimport.ImportRequest{Source: f, Filename: opts.file, DryRun: upserter == nil})
	if err != nil {
		return err
	}
	if !opts.records {
		report.Records = nil
	}

	if opts.format == "summary" {
		err = writeSummary(out, opts.file, report)
	} else {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if report.Rejected() {
		return fmt.Errorf("source rejected: %s", report.StructuralErrors[0])
	}
	return nil
}

// openStore wires the Firestore-backed developers service. When Redis is
// enabled the dashboard cache is invalidated after the upsert.
func openStore(ctx context.Context, cfg *config.Config) (*developers.Service, func(), error) {
	clients, err := fb.NewClients(ctx, cfg.Firebase)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{clients.Close}

	svc := developers.NewService(developers.NewRepository(clients.Firestore), nil)
	svc.SetCircuitBreaker(resilience.NewCircuitBreaker(resilience.SettingsFromConfig("firestore-developers", cfg.Breaker)))

	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, dashboard cache will expire on its own", zap.Error(err))
		} else {
			closers = append(closers, redisClient.Close)
			svc.SetCacheInvalidator(dashboard.NewService(svc, redisClient, cfg.Dashboard.CacheTTL))
		}
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("Closing client failed", zap.Error(err))
			}
		}
	}
	return svc, closeAll, nil
}
