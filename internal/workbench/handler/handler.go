// Package handler exposes the workbench view and the accept operation over
// HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"provenio/internal/platform/middleware"
	"provenio/internal/workbench"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
	"provenio/pkg/platform/httputil"
	"provenio/pkg/requestcontext"
)

// BuildService defines the workbench read side.
type BuildService interface {
	BuildWorkbench(ctx context.Context, clientID id.ClientEntityID) ([]workbench.Field, error)
}

// AcceptService defines the accept (propagation) side.
type AcceptService interface {
	ApplyMasterToQuestion(ctx context.Context, questionID id.QuestionID, masterValue any, actorID id.ActorID) error
}

// Handler handles workbench endpoints.
type Handler struct {
	logger     *slog.Logger
	aggregator BuildService
	propagator AcceptService
}

// New creates a new workbench Handler.
func New(aggregator BuildService, propagator AcceptService, logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		aggregator: aggregator,
		propagator: propagator,
	}
}

// Register registers the workbench routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(router chi.Router) {
		router.Use(chimw.Recoverer)
		router.Use(middleware.RequestID)
		router.Use(middleware.RequestTime)
		router.Use(middleware.Actor)
		router.Use(chimw.Timeout(30 * time.Second))

		router.Get("/entities/client/{clientID}/workbench", h.handleBuildWorkbench)
		router.With(middleware.ContentTypeJSON).Post("/questions/{questionID}/accept", h.handleAccept)
	})
}

// AcceptRequest is the body of an accept: the master representation the
// operator saw and chose to copy into the answer.
type AcceptRequest struct {
	MasterValue any `json:"master_value"`
}

func (r *AcceptRequest) Validate() error {
	if r.MasterValue == nil {
		return dErrors.New(dErrors.CodeValidation, "master_value is required")
	}
	return nil
}

func (h *Handler) handleBuildWorkbench(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, err := id.ParseClientEntityID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	fields, err := h.aggregator.BuildWorkbench(ctx, clientID)
	if err != nil {
		h.logger.ErrorContext(ctx, "workbench build failed",
			"request_id", requestcontext.RequestID(ctx),
			"client_entity_id", clientID.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"fields": fields})
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	questionID, err := id.ParseQuestionID(chi.URLParam(r, "questionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	actorID := requestcontext.ActorID(ctx)
	if actorID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "acting user is required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[AcceptRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.propagator.ApplyMasterToQuestion(ctx, questionID, req.MasterValue, actorID); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "accept failed",
				"request_id", requestID,
				"question_id", questionID.String(),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
