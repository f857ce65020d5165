package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"
	"toda-flag-service/internal/usecase"
	"toda-flag-service/pkg/logger"

	"github.com/go-chi/chi/v5"
)

const defaultActor = "Admin"

// Server exposes the flag engine over HTTP for the admin console.
type Server struct {
	orchestrator *usecase.DetectionOrchestrator
	lifecycle    *usecase.FlagLifecycle
	views        *usecase.AccountViewBuilder
	runRepo      repository.DetectionRunRepository
	logger       logger.Logger
}

// New creates a new HTTP server
func New(
	orchestrator *usecase.DetectionOrchestrator,
	lifecycle *usecase.FlagLifecycle,
	views *usecase.AccountViewBuilder,
	runRepo repository.DetectionRunRepository,
	logger logger.Logger,
) *Server {
	return &Server{
		orchestrator: orchestrator,
		lifecycle:    lifecycle,
		views:        views,
		runRepo:      runRepo,
		logger:       logger,
	}
}

// Routes returns a chi.Router with all service operations mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/detection/run", s.runDetection)
	r.Get("/detection/runs", s.listRuns)

	r.Get("/accounts", s.listAccounts)
	r.Route("/accounts/{category}/{accountID}", func(r chi.Router) {
		r.Get("/", s.accountDetail)
		r.Post("/flags/{flagID}/resolve", s.lifecycleHandler(s.lifecycle.Resolve))
		r.Post("/flags/{flagID}/escalate", s.lifecycleHandler(s.lifecycle.Escalate))
		r.Post("/flags/{flagID}/dismiss", s.lifecycleHandler(s.lifecycle.Dismiss))
	})

	return r
}

func (s *Server) runDetection(w http.ResponseWriter, r *http.Request) {
	summary, err := s.orchestrator.Run(r.Context(), nil)
	if err != nil {
		// Partial results are preserved; report both.
		s.logger.Error("Detection run failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   err.Error(),
			"partial": summary,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	runs, err := s.runRepo.FindRecent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	result, err := s.views.ListAccounts(r.Context(), usecase.ListQuery{
		AccountType: q.Get("type"),
		FlagStatus:  q.Get("status"),
		FlaggedOnly: q.Get("flagged"),
		Search:      q.Get("search"),
		Page:        page,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) accountDetail(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.accountRef(w, r)
	if !ok {
		return
	}
	detail, err := s.views.BuildAccountView(r.Context(), ref)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) lifecycleHandler(op func(ctx context.Context, ref entity.AccountRef, flagID, actorID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.accountRef(w, r)
		if !ok {
			return
		}
		flagID := chi.URLParam(r, "flagID")

		actor := r.Header.Get("X-Admin-ID")
		if actor == "" {
			actor = defaultActor
		}

		if err := op(r.Context(), ref, flagID, actor); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) accountRef(w http.ResponseWriter, r *http.Request) (entity.AccountRef, bool) {
	category := chi.URLParam(r, "category")
	if category != entity.CategoryDriver && category != entity.CategoryCustomer {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "category must be driver or customer",
		})
		return entity.AccountRef{}, false
	}
	return entity.AccountRef{
		ID:       chi.URLParam(r, "accountID"),
		Category: category,
	}, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrFlagNotFound),
		errors.Is(err, repository.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrFlagClosed):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}
