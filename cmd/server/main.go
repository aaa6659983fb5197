package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/dilutionwise/internal/auth"
	"github.com/mmynk/dilutionwise/internal/config"
	"github.com/mmynk/dilutionwise/internal/format"
	"github.com/mmynk/dilutionwise/internal/maintenance"
	"github.com/mmynk/dilutionwise/internal/metrics"
	"github.com/mmynk/dilutionwise/internal/middleware"
	"github.com/mmynk/dilutionwise/internal/notify"
	"github.com/mmynk/dilutionwise/internal/service"
	"github.com/mmynk/dilutionwise/internal/storage/sqlite"
	"github.com/mmynk/dilutionwise/pkg/api/apiconnect"
	"github.com/mmynk/dilutionwise/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML, TOML or JSON config file")
	hashPassword := flag.Bool("hash-password", false, "read a password from stdin, print its bcrypt hash for admin.password_hash and exit")
	flag.Parse()

	if *hashPassword {
		if err := printPasswordHash(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Setup("info")
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	currency, err := format.LookupCurrency(cfg.Currency)
	if err != nil {
		return err
	}
	formatter := format.New(currency)

	tokens, err := auth.NewReportTokens(cfg.Report.TokenSecret, cfg.Report.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize report tokens: %w", err)
	}

	notifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	slog.Info("Notifier configured", "notifier", notifier.Name())

	m := metrics.New()

	pruner, err := maintenance.NewPruner(store, cfg.Deliveries.Retention, cfg.Deliveries.PruneSchedule, m)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.LoggingInterceptor(),
	)

	// Register Connect services
	dilutionPath, dilutionHandler := apiconnect.NewDilutionServiceHandler(service.NewDilutionService(service.DilutionDeps{
		Store:     store,
		Notifier:  notifier,
		Tokens:    tokens,
		Formatter: formatter,
		Metrics:   m,
		PublicURL: cfg.PublicURL,
	}), interceptors)
	mux.Handle(dilutionPath, dilutionHandler)

	if cfg.AdminEnabled() {
		admin, err := auth.NewAdminAuthenticator(cfg.Admin.Username, cfg.Admin.PasswordHash)
		if err != nil {
			return err
		}
		deliveryPath, deliveryHandler := apiconnect.NewDeliveryServiceHandler(
			service.NewDeliveryService(store),
			connect.WithInterceptors(
				middleware.MetricsInterceptor(m),
				middleware.LoggingInterceptor(),
				middleware.RequireAdmin(admin),
			),
		)
		mux.Handle(deliveryPath, deliveryHandler)
		slog.Info("Delivery log API enabled", "admin", cfg.Admin.Username)
	} else {
		slog.Info("Delivery log API disabled; set admin.password_hash to enable")
	}

	mux.Handle("GET "+service.ReportPathPrefix+"{token}", service.NewReportHandler(tokens, formatter))
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			slog.Error("Health check failed", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(loggedHandler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Connect server starting", "address", cfg.Addr, "url", cfg.PublicURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return pruner.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newNotifier(cfg *config.Config) (notify.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierSMTP:
		return notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:       cfg.SMTP.Host,
			Port:       cfg.SMTP.Port,
			Username:   cfg.SMTP.Username,
			Password:   cfg.SMTP.Password,
			From:       cfg.SMTP.From,
			MaxElapsed: cfg.SMTP.MaxElapsed,
		})
	default:
		return notify.NewLogNotifier(slog.Default()), nil
	}
}

func printPasswordHash() error {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read password: %w", err)
	}

	hash, err := auth.HashPassword(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, Content-Disposition")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
