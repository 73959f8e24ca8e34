package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/oscarlagatta/next-cash/internal/cache"
	"github.com/oscarlagatta/next-cash/internal/core"
)

// Options tunes the server's caches and list sizes.
type Options struct {
	RecentLimit int
	CacheTTL    time.Duration
	CacheSize   int
}

func (o Options) withDefaults() Options {
	if o.RecentLimit <= 0 {
		o.RecentLimit = 5
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 200
	}
	return o
}

// Server exposes the tracker core as a JSON API. Identity arrives
// resolved from the fronting auth proxy in the X-User-ID header; the
// server never authenticates anyone itself.
type Server struct {
	http.Server

	cashflow     CashflowReader
	queries      TransactionReader
	transactions TransactionMutator

	opts        Options
	rateLimiter *rateLimiter

	// Read caches, invalidated on mutation
	cashflowCache *cache.LRUCache[core.AnnualCashflow]
	recentCache   *cache.LRUCache[[]core.TransactionListItem]
	yearsCache    *cache.LRUCache[[]int]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// Ports for the core services the handlers call.
type (
	CashflowReader interface {
		GetAnnualCashflow(ctx context.Context, userID string, year int) (core.AnnualCashflow, error)
	}

	TransactionReader interface {
		GetRecentTransactions(ctx context.Context, userID string, limit int) ([]core.TransactionListItem, error)
		GetTransactionsByMonth(ctx context.Context, userID string, year, month int) ([]core.TransactionListItem, error)
		GetTransaction(ctx context.Context, userID string, id int64) (*core.Transaction, error)
		GetTransactionYearsRange(ctx context.Context, userID string) ([]int, error)
		GetCategories(ctx context.Context) ([]core.Category, error)
	}

	TransactionMutator interface {
		Create(ctx context.Context, userID string, d core.TransactionDraft) (int64, error)
		Update(ctx context.Context, userID string, id int64, d core.TransactionDraft) error
		Delete(ctx context.Context, userID string, id int64) error
	}
)

// NewServer configures routes and caches, returning a ready-to-run
// http.Server.
func NewServer(addr string, cf CashflowReader, qr TransactionReader, tm TransactionMutator, opts Options) *Server {
	opts = opts.withDefaults()
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		cashflow:      cf,
		queries:       qr,
		transactions:  tm,
		opts:          opts,
		rateLimiter:   newRateLimiter(),
		cashflowCache: cache.NewLRUCache[core.AnnualCashflow](opts.CacheSize, opts.CacheTTL),
		recentCache:   cache.NewLRUCache[[]core.TransactionListItem](opts.CacheSize, opts.CacheTTL),
		yearsCache:    cache.NewLRUCache[[]int](opts.CacheSize, opts.CacheTTL),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.cashflowCache)
	s.cacheManager.Register(s.recentCache)
	s.cacheManager.Register(s.yearsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/cashflow", s.withMiddleware(s.handleCashflow))
	mux.HandleFunc("GET /api/years", s.withMiddleware(s.handleYears))
	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleCategories))

	mux.HandleFunc("GET /api/transactions/recent", s.withMiddleware(s.handleRecentTransactions))
	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("GET /api/transactions/{id}", s.withMiddleware(s.handleGetTransaction))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withMiddleware(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func cashflowKey(userID string, year int) string {
	return userID + ":" + strconv.Itoa(year)
}

// invalidateUser drops every cached read for a user after a mutation.
// The cashflow cache is keyed by year; years touched by the mutation
// are passed in explicitly.
func (s *Server) invalidateUser(userID string, years ...int) {
	s.recentCache.Delete(userID)
	s.yearsCache.Delete(userID)
	for _, y := range years {
		s.cashflowCache.Delete(cashflowKey(userID, y))
	}
}
