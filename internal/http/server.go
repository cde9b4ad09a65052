// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"

	"divvy/internal/store"
)

type Server struct {
	http.Server
	users    *store.UserDirectory
	groups   *store.GroupRegistry
	expenses *store.ExpenseLedger

	// strict rejects expenses whose splits do not balance or whose
	// participants are not group members. Off by default, mirroring the
	// permissive ledger.
	strict bool

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, users *store.UserDirectory, groups *store.GroupRegistry, expenses *store.ExpenseLedger, strict bool) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		users:       users,
		groups:      groups,
		expenses:    expenses,
		strict:      strict,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/users", s.withTrace(s.handleListUsers))
	mux.HandleFunc("POST /api/users", s.withTrace(s.handleCreateUser))
	mux.HandleFunc("GET /api/users/{id}", s.withTrace(s.handleGetUser))
	mux.HandleFunc("PATCH /api/users/{id}", s.withTrace(s.handleUpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", s.withTrace(s.handleDeleteUser))

	mux.HandleFunc("GET /api/session", s.withTrace(s.handleGetSession))
	mux.HandleFunc("PUT /api/session", s.withTrace(s.handlePutSession))
	mux.HandleFunc("DELETE /api/session", s.withTrace(s.handleDeleteSession))

	mux.HandleFunc("GET /api/groups", s.withTrace(s.handleListGroups))
	mux.HandleFunc("POST /api/groups", s.withTrace(s.handleCreateGroup))
	mux.HandleFunc("GET /api/groups/{id}", s.withTrace(s.handleGetGroup))
	mux.HandleFunc("PATCH /api/groups/{id}", s.withTrace(s.handleUpdateGroup))
	mux.HandleFunc("DELETE /api/groups/{id}", s.withTrace(s.handleDeleteGroup))
	mux.HandleFunc("POST /api/groups/{id}/members", s.withTrace(s.handleAddMember))
	mux.HandleFunc("DELETE /api/groups/{id}/members/{userId}", s.withTrace(s.handleRemoveMember))
	mux.HandleFunc("GET /api/groups/{id}/expenses", s.withTrace(s.handleGroupExpenses))
	mux.HandleFunc("GET /api/groups/{id}/balances", s.withTrace(s.handleGroupBalances))

	mux.HandleFunc("GET /api/categories", s.withTrace(s.handleListCategories))

	mux.HandleFunc("POST /api/expenses", s.withTrace(s.handleCreateExpense))
	mux.HandleFunc("PATCH /api/expenses/{id}", s.withTrace(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withTrace(s.handleDeleteExpense))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
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
