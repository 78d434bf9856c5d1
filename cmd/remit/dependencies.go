package main

import (
	"fmt"
	"log/slog"
	"os"

	alignrxparser "github.com/FACorreiaa/remit-engine/internal/domain/alignrx/parser"
	alignrxservice "github.com/FACorreiaa/remit-engine/internal/domain/alignrx/service"
	"github.com/FACorreiaa/remit-engine/internal/domain/edi/extractor"
	ediservice "github.com/FACorreiaa/remit-engine/internal/domain/edi/service"
	"github.com/FACorreiaa/remit-engine/internal/ingest"
	"github.com/FACorreiaa/remit-engine/internal/search"
	"github.com/FACorreiaa/remit-engine/pkg/config"
	"github.com/FACorreiaa/remit-engine/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	MasterIndex   *search.TransactionIndex
	FilteredIndex *search.TransactionIndex
	ReportIndex   *search.ReportIndex

	EDIService     *ediservice.Service
	AlignRxService *alignrxservice.Service

	Store    storage.ReportStore
	Registry *ingest.Registry
	Syncer   *ingest.Syncer
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initIndexes(); err != nil {
		return nil, fmt.Errorf("failed to init indexes: %w", err)
	}
	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	if err := deps.initSync(); err != nil {
		return nil, fmt.Errorf("failed to init sync: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func (d *Dependencies) initIndexes() error {
	master, err := search.NewMasterIndex(d.Config.Index.MasterPath)
	if err != nil {
		return err
	}
	d.MasterIndex = master

	filtered, err := search.NewFilteredIndex(d.Config.Index.FilteredPath)
	if err != nil {
		return err
	}
	d.FilteredIndex = filtered

	reports, err := search.NewReportIndex(d.Config.Index.AlignRxPath)
	if err != nil {
		return err
	}
	d.ReportIndex = reports

	d.Logger.Info("indexes opened",
		slog.String("master", d.Config.Index.MasterPath),
		slog.String("filtered", d.Config.Index.FilteredPath),
		slog.String("alignrx", d.Config.Index.AlignRxPath),
	)
	return nil
}

func (d *Dependencies) initServices() error {
	allowlist := extractor.DefaultAllowlist
	if path := d.Config.Reports.AllowlistPath; path != "" {
		loaded, err := extractor.LoadAllowlist(path)
		if err != nil {
			return err
		}
		allowlist = loaded
	}

	ex := extractor.New(allowlist, d.Logger)
	d.EDIService = ediservice.NewService(ex, d.MasterIndex, d.FilteredIndex, d.Logger)
	d.AlignRxService = alignrxservice.NewService(alignrxparser.New(d.Logger), d.ReportIndex, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

func (d *Dependencies) initSync() error {
	store, err := storage.NewLocalStore(d.Config.Reports.Dir)
	if err != nil {
		return err
	}
	d.Store = store

	registry, err := ingest.LoadRegistry(d.Config.Reports.RegistryPath)
	if err != nil {
		return err
	}
	d.Registry = registry

	d.Syncer = ingest.NewSyncer(d.Store, d.EDIService, d.AlignRxService, d.Registry, d.Logger)
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	for _, closer := range []interface{ Close() error }{d.MasterIndex, d.FilteredIndex, d.ReportIndex} {
		if closer == nil {
			continue
		}
		if err := closer.Close(); err != nil {
			d.Logger.Warn("index close failed", slog.Any("error", err))
		}
	}
	d.Logger.Info("cleanup completed")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
