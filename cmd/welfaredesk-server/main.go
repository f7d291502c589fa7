package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	bookingv1 "welfaredesk/backend/internal/api/booking/v1"
	"welfaredesk/backend/internal/config"
	"welfaredesk/backend/internal/notify"
	"welfaredesk/backend/internal/notify/rabbitmq"
	"welfaredesk/backend/internal/service/availability"
	"welfaredesk/backend/internal/service/booking"
	"welfaredesk/backend/internal/store"
	"welfaredesk/backend/internal/store/memory"
	"welfaredesk/backend/internal/store/postgres"
	grpcTransport "welfaredesk/backend/internal/transport/grpc"
	httpTransport "welfaredesk/backend/internal/transport/http"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "welfaredesk-server"),
	)
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("dotenv load failed", slog.Any("err", err))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "welfaredesk-server"),
	)
	slog.SetDefault(log)

	log.Info(
		"starting",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("store_driver", cfg.StoreDriver),
		slog.String("log_level", cfg.LogLevel),
	)

	var (
		repo      store.AppointmentRepository
		notifiers []notify.Sink
		auditors  []notify.AuditSink
		profiles  booking.ProfileLookup
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		repo = memory.New()
	default:
		log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
		db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
			SlowQuery:       cfg.DBSlowQuery,
			Logger:          log,
		})
		if err != nil {
			args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
			log.Error("database connection failed", args...)
			os.Exit(1)
		}
		defer func() {
			if err := postgres.Close(db); err != nil {
				log.Warn("database close failed", slog.Any("err", err))
			}
		}()

		repo = postgres.NewAppointmentRepo(db)
		records := postgres.NewNotificationRepo(db)
		notifiers = append(notifiers, records)
		auditors = append(auditors, records)
		profiles = postgres.NewProfileRepo(db)
	}

	if cfg.AMQPURL != "" {
		pub, err := rabbitmq.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Error("rabbitmq connection failed", slog.Any("err", err), slog.String("exchange", cfg.AMQPExchange))
			os.Exit(1)
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.Warn("rabbitmq close failed", slog.Any("err", err))
			}
		}()
		notifiers = append(notifiers, pub)
		auditors = append(auditors, pub)
		log.Info("publishing events", slog.String("exchange", cfg.AMQPExchange))
	}

	calc := availability.NewCalculator(repo, availability.Policy{
		DailyCap:      cfg.DailyCap,
		SlotCapacity:  cfg.SlotCapacity,
		FirstWindow:   cfg.FirstWindow,
		LastWindowEnd: cfg.LastWindowEnd,
	},
		availability.WithLocation(cfg.OfficeTimeZone),
		availability.WithLogger(log),
	)

	opts := []booking.Option{
		booking.WithNotifier(notify.NewFanout(notifiers, auditors)),
		booking.WithStrictCapacity(cfg.StrictCapacity),
		booking.WithLogger(log),
	}
	if profiles != nil {
		opts = append(opts, booking.WithProfiles(profiles))
	}
	manager := booking.NewManager(repo, calc, opts...)

	latest, err := availability.NewLatest(cfg.ViewTrackSize)
	if err != nil {
		log.Error("view tracker init failed", slog.Any("err", err))
		os.Exit(1)
	}

	auth := httpTransport.NewAuthenticator(cfg.JWTSecret)

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpcTransport.DefaultRequestTimeout(cfg.GRPCRequestTimeout),
			grpcTransport.AccessLog(log),
			grpcTransport.Authenticate(auth, log),
		),
	)
	bookingv1.RegisterBookingServiceServer(grpcServer, grpcTransport.NewAppointmentsServer(manager, calc, latest, log))
	healthServer := health.NewServer()
	healthServer.SetServingStatus(bookingv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	limiter, err := httpTransport.NewSubmitLimiter(cfg.SubmitRatePerMin, cfg.SubmitBurst, cfg.ViewTrackSize)
	if err != nil {
		log.Error("rate limiter init failed", slog.Any("err", err))
		os.Exit(1)
	}
	router := httpTransport.NewRouter(
		httpTransport.NewHandlers(manager, calc, latest, log),
		auth,
		limiter,
		log,
	)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpTransport.WithCORS(router, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("servers started", slog.String("grpc_addr", cfg.GRPCAddr()), slog.String("http_addr", cfg.HTTPAddr))

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("server stopped with error", slog.Any("err", err))
			exitCode = 1
		}
	}

	healthServer.Shutdown()
	shutdown(log, grpcServer, httpServer, cfg.ShutdownTimeout)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func shutdown(log *slog.Logger, s *grpc.Server, h *http.Server, timeout time.Duration) {
	log.Info("shutting down servers", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := h.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown failed", slog.Any("err", err))
	}

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-ctx.Done():
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
