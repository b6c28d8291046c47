package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/m04kA/varaamo-core/internal/config"
	affectingRepo "github.com/m04kA/varaamo-core/internal/infra/storage/affecting"
	"github.com/m04kA/varaamo-core/internal/service/affecting"
	"github.com/m04kA/varaamo-core/pkg/dbmetrics"
	"github.com/m04kA/varaamo-core/pkg/logger"
	"github.com/m04kA/varaamo-core/pkg/metrics"
	"github.com/m04kA/varaamo-core/pkg/txmanager"
)

// app общие зависимости команд: конфигурация, логгер, база и метрики
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	rawDB   *sql.DB
	db      *dbmetrics.DB
	metrics *metrics.Metrics
	tx      *txmanager.TransactionManager
	stopCh  chan struct{}
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Configuration loaded from %s", configPath)

	// Метрики выключены: nil-коллектор, все Observe* ничего не делают
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	rawDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	rawDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	rawDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	rawDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := rawDB.PingContext(ctx); err != nil {
		_ = rawDB.Close()
		log.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	stopCh := make(chan struct{})
	var db *dbmetrics.DB
	if cfg.Metrics.Enabled {
		db = dbmetrics.WrapWithDefault(rawDB, metricsCollector, cfg.Metrics.ServiceName, stopCh)
		log.Info("Database metrics collection started")
	} else {
		db = dbmetrics.Wrap(rawDB, nil, cfg.Metrics.ServiceName)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		rawDB:   rawDB,
		db:      db,
		metrics: metricsCollector,
		tx:      txmanager.NewTransactionManager(db),
		stopCh:  stopCh,
	}, nil
}

func (a *app) affectingIndex() *affecting.Index {
	return affecting.NewIndex(
		affectingRepo.NewRepository(a.db),
		a.tx,
		a.metrics,
		a.log,
		a.cfg.AffectingIndex.MaxAge(),
		time.Duration(a.cfg.AffectingIndex.RefreshTimeout)*time.Second,
	)
}

func (a *app) close() {
	// Останавливаем сбор метрик connection pool
	close(a.stopCh)
	if err := a.rawDB.Close(); err != nil {
		a.log.Error("Failed to close database: %v", err)
	}
	a.log.Close()
}
