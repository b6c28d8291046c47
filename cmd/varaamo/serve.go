package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	allocateRoundHandler "github.com/m04kA/varaamo-core/internal/api/handlers/allocate_application_round"
	createSeriesHandler "github.com/m04kA/varaamo-core/internal/api/handlers/create_reservation_series"
	fromAllocationHandler "github.com/m04kA/varaamo-core/internal/api/handlers/create_series_from_allocation"
	firstReservableHandler "github.com/m04kA/varaamo-core/internal/api/handlers/get_first_reservable_time"
	getSeriesHandler "github.com/m04kA/varaamo-core/internal/api/handlers/get_reservation_series"
	refreshHandler "github.com/m04kA/varaamo-core/internal/api/handlers/refresh_affecting_spans"
	"github.com/m04kA/varaamo-core/internal/api/middleware"
	applicationRepo "github.com/m04kA/varaamo-core/internal/infra/storage/application"
	"github.com/m04kA/varaamo-core/internal/infra/storage/migrations"
	reservableRepo "github.com/m04kA/varaamo-core/internal/infra/storage/reservable"
	reservationRepo "github.com/m04kA/varaamo-core/internal/infra/storage/reservation"
	unitRepo "github.com/m04kA/varaamo-core/internal/infra/storage/reservation_unit"
	seriesRepo "github.com/m04kA/varaamo-core/internal/infra/storage/series"
	"github.com/m04kA/varaamo-core/internal/integrations/accesscode"
	"github.com/m04kA/varaamo-core/internal/integrations/eventservice"
	"github.com/m04kA/varaamo-core/internal/service/allocation"
	"github.com/m04kA/varaamo-core/internal/service/occurrences"
	"github.com/m04kA/varaamo-core/internal/service/reservable"
	allocateRoundUC "github.com/m04kA/varaamo-core/internal/usecase/allocate_application_round"
	createSeriesUC "github.com/m04kA/varaamo-core/internal/usecase/create_reservation_series"
	fromAllocationUC "github.com/m04kA/varaamo-core/internal/usecase/create_series_from_allocation"
	firstReservableUC "github.com/m04kA/varaamo-core/internal/usecase/get_first_reservable_time"
	getSeriesUC "github.com/m04kA/varaamo-core/internal/usecase/get_reservation_series"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrateOnStartup bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if migrateOnStartup {
				if err := migrations.Migrate(ctx, a.db); err != nil {
					return err
				}
				a.log.Info("Schema is up to date")
			}

			return serve(ctx, a)
		},
	}

	cmd.Flags().BoolVar(&migrateOnStartup, "migrate", false, "create the database schema before serving")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	cfg, log := a.cfg, a.log
	loc := cfg.Location()

	log.Info("Starting varaamo-core (timezone=%s)...", cfg.Timezone)

	// Инициализируем интеграционных клиентов
	accessCodeClient := accesscode.NewClient(cfg.AccessCodeService.URL, cfg.AccessCodeService.TimeoutDuration(), log)
	eventClient := eventservice.NewClient(cfg.EventService.URL, cfg.EventService.TimeoutDuration(), log)
	log.Info("Integration clients initialized (AccessCodeService enabled=%t, EventService enabled=%t)",
		cfg.AccessCodeService.Enabled(), cfg.EventService.Enabled())

	// Инициализируем репозитории
	unitRepository, err := unitRepo.NewCachedRepository(
		unitRepo.NewRepository(a.db),
		cfg.ReservationUnitCache.Size,
		cfg.ReservationUnitCache.TTL(),
	)
	if err != nil {
		return err
	}
	seriesRepository := seriesRepo.NewRepository(a.db)
	reservationRepository := reservationRepo.NewRepository(a.db)
	applicationRepository := applicationRepo.NewRepository(a.db)

	// Инициализируем сервисы
	reservableIndex := reservable.NewIndex(reservableRepo.NewRepository(a.db))
	affectingIndex := a.affectingIndex()
	defer affectingIndex.Wait()

	if cfg.AffectingIndex.RefreshOnStartup {
		if err := affectingIndex.Refresh(ctx); err != nil {
			log.Warn("Initial affecting index refresh failed: %v", err)
		}
	}

	generator := occurrences.NewGenerator(reservableIndex, affectingIndex, log)

	// Инициализируем use cases
	createSeriesUseCase := createSeriesUC.NewUseCase(
		unitRepository,
		seriesRepository,
		reservationRepository,
		applicationRepository,
		generator,
		affectingIndex,
		accessCodeClient,
		eventClient,
		a.tx,
		a.metrics,
		loc,
		log,
	)
	getSeriesUseCase := getSeriesUC.NewUseCase(seriesRepository, reservationRepository, a.tx, log)
	fromAllocationUseCase := fromAllocationUC.NewUseCase(applicationRepository, createSeriesUseCase, log)
	allocateRoundUseCase := allocateRoundUC.NewUseCase(applicationRepository, unitRepository, allocation.NewEngine(), a.tx, a.metrics, log)
	firstReservableUseCase := firstReservableUC.NewUseCase(
		unitRepository,
		reservableIndex,
		affectingIndex,
		loc,
		cfg.FirstReservableTime.SearchHorizon(),
		log,
	)

	// Инициализируем handlers
	createSeries := createSeriesHandler.NewHandler(createSeriesUseCase, loc, log)
	getSeries := getSeriesHandler.NewHandler(getSeriesUseCase, log)
	fromAllocation := fromAllocationHandler.NewHandler(fromAllocationUseCase, loc, log)
	allocateRound := allocateRoundHandler.NewHandler(allocateRoundUseCase, log)
	firstReservable := firstReservableHandler.NewHandler(firstReservableUseCase, loc, log)
	refresh := refreshHandler.NewHandler(affectingIndex, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Серии бронирований ---
	api.HandleFunc("/reservation-series", createSeries.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservation-series/{seriesId:[0-9]+}", getSeries.Handle).Methods(http.MethodGet)
	api.HandleFunc("/allocated-time-slots/{slotId:[0-9]+}/reservation-series", fromAllocation.Handle).Methods(http.MethodPost)

	// --- Сезонное распределение ---
	api.HandleFunc("/application-rounds/{roundId:[0-9]+}/allocate", allocateRound.Handle).Methods(http.MethodPost)

	// --- Поиск свободного времени ---
	api.HandleFunc("/reservation-units/{unitId:[0-9]+}/first-reservable-time", firstReservable.Handle).Methods(http.MethodGet)

	// --- Обслуживание ---
	api.HandleFunc("/affecting-time-spans/refresh", refresh.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
