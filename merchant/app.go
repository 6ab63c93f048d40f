package merchant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/alovak/cardflow-accept/internal/authnet"
	"github.com/alovak/cardflow-accept/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"golang.org/x/exp/slog"
)

// App is the main application, it contains all the components of the merchant
// service and is responsible for starting and stopping them.
type App struct {
	srv    *http.Server
	wg     *sync.WaitGroup
	Addr   string
	logger *slog.Logger
	config *Config
	db     *sql.DB

	listener net.Listener
	serveErr error

	// gateway is replaced in tests
	gateway PaymentGateway
}

func NewApp(logger *slog.Logger, config *Config) *App {
	logger = logger.With(slog.String("app", "merchant"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		wg:     &sync.WaitGroup{},
		logger: logger,
		config: config,
	}
}

// NewGateway builds the processor client described by config.
func NewGateway(config *Config) *authnet.Gateway {
	return authnet.New(authnet.Config{
		Environment:    config.AuthNetEnvironment,
		LoginID:        config.AuthNetLoginID,
		TransactionKey: config.AuthNetTransactionKey,
	}, authnet.WithEndpoint(config.AuthNetEndpoint))
}

// OpenRepository returns the journal selected by config.JournalBackend. The
// returned db is nil for the memory backend.
func OpenRepository(ctx context.Context, config *Config) (*Repository, *sql.DB, error) {
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}
	if config.JournalBackend == "mem" {
		return NewRepository(), nil, nil
	}

	db, err := sql.Open("postgres", config.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(10)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	repo := NewPGRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	repository, db, err := OpenRepository(context.Background(), a.config)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	a.db = db

	gateway := a.gateway
	if gateway == nil {
		g := NewGateway(a.config)
		a.logger.Info("payment gateway configured",
			slog.String("environment", a.config.AuthNetEnvironment),
			slog.String("endpoint", g.Endpoint()),
		)
		gateway = g
	}

	router := chi.NewRouter()
	router.Use(middleware.NewStructuredLogger(a.logger))
	router.Use(chimw.Recoverer)

	svc := NewService(gateway, repository, a.logger)
	api := NewAPI(svc, a.config)
	api.AppendRoutes(router)

	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Get("/-/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := repository.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/dev/payments", func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if s := r.URL.Query().Get("limit"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = v
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		entries, err := svc.Payments(ctx, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	})
	router.Get("/dev/payments/{paymentID}", func(w http.ResponseWriter, r *http.Request) {
		entry, err := svc.Payment(r.Context(), chi.URLParam(r, "paymentID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, entry)
	})

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening tcp port: %w", err)
	}

	a.Addr = l.Addr().String()
	a.listener = l

	a.srv = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.wg.Add(1)
	go func() {
		a.logger.Info("http server started", slog.String("addr", a.Addr))

		if err := a.srv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				a.logger.Error("serving http", "err", err)
				a.serveErr = fmt.Errorf("serving http: %w", err)
			}

			a.logger.Info("http server stopped")
		}

		a.wg.Done()
	}()

	return nil
}

// Wait blocks until the http server stops. It returns nil after Shutdown and
// the server error if it stopped on its own.
func (a *App) Wait() error {
	a.wg.Wait()
	return a.serveErr
}

func (a *App) Shutdown() {
	a.logger.Info("shutting down app...")

	if a.srv != nil {
		a.srv.Shutdown(context.Background())
	}

	a.wg.Wait()

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("closing db", "err", err)
		}
	}

	a.logger.Info("app stopped")
}
