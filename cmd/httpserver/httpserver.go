// Package httpserver manages server creation and api routing.
package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/limitservice"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/trackerrepo"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/internal/transferdelivery"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/numberpkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB      *sql.DB
	Engine  *gin.Engine
	Config  configpkg.Config
	Ledger  *accountservice.Service
	Limits  *limitservice.Service
	Metrics *middleware.Metrics
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

type stores struct {
	accounts     accountservice.AccountRepo
	transactions accountservice.TransactionRepo
	trackers     limitservice.Repo
	numbers      accountservice.NumberGenerator
}

func newStores(conn *sql.DB, config configpkg.Config) (stores, error) {
	switch config.StorageDriver {
	case configpkg.StoragePostgres:
		if conn == nil {
			return stores{}, errors.New("postgres storage requires a db connection")
		}

		accounts := accountrepo.NewRepoPGS(conn, config.LockTimeout)

		return stores{
			accounts:     accounts,
			transactions: transactionrepo.NewRepoPGS(conn),
			trackers:     trackerrepo.NewRepoPGS(conn, config.LockTimeout),
			numbers:      accounts,
		}, nil
	case configpkg.StorageMemory, "":
		return stores{
			accounts:     accountrepo.NewRepoMem(config.LockTimeout),
			transactions: transactionrepo.NewRepoMem(),
			trackers:     trackerrepo.NewRepoMem(config.LockTimeout),
			numbers:      numberpkg.NewSequence(numberpkg.DefaultStart),
		}, nil
	}

	return stores{}, errors.New("unknown storage driver " + config.StorageDriver)
}

// New creates Server type with instantiated domains and routes.
// conn may be nil for the memory storage.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	st, err := newStores(conn, config)
	if err != nil {
		return nil, err
	}

	limits := limitservice.New(st.trackers, nil)
	ledger := accountservice.New(st.accounts, st.transactions, limits, st.numbers, config.HistoryLimit)

	accountHandler := accountdelivery.NewHandler(ledger)
	transferHandler := transferdelivery.NewHandler(ledger)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := web.RegisterValidators(v); err != nil {
			return nil, errors.New("cannot register ledger validators")
		}
	}

	metrics := middleware.NewMetrics()

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())
	engine.Use(metrics.Instrument())

	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/")
	api.Use(middleware.NewRateLimiter(config.RateLimitRPS, config.RateLimitBurst).Middleware())

	api.POST("/accounts", accountHandler.Open)
	api.GET("/accounts", accountHandler.Count)
	api.GET("/accounts/:number", accountHandler.Get)
	api.GET("/accounts/:number/balance", accountHandler.Balance)
	api.POST("/accounts/:number/deposits", accountHandler.Deposit)
	api.POST("/accounts/:number/withdrawals", accountHandler.Withdraw)
	api.GET("/accounts/:number/transactions", accountHandler.History)

	api.POST("/transfers", transferHandler.Create)

	server := &Server{
		DB:      conn,
		Engine:  engine,
		Config:  config,
		Ledger:  ledger,
		Limits:  limits,
		Metrics: metrics,
	}

	return server, nil
}

// PurgeTrackers removes stale daily trackers every interval until ctx is done.
func (s *Server) PurgeTrackers(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	l := zerolog.Ctx(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Limits.PurgeStale(ctx); err != nil {
				l.Error().Err(err).Msg("cannot purge daily trackers")
			}
		}
	}
}
