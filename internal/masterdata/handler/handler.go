// Package handler exposes the master data read and write operations over
// HTTP. Authorization happens upstream; the gateway forwards the acting
// user in the X-Actor-ID header.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"provenio/internal/masterdata/models"
	"provenio/internal/masterdata/service"
	"provenio/internal/platform/middleware"
	"provenio/internal/questionnaire"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
	"provenio/pkg/platform/httputil"
	"provenio/pkg/requestcontext"
)

// ReadService defines the read operations exposed by this handler.
type ReadService interface {
	FieldDetail(ctx context.Context, ref service.EntityRef, fieldNo id.FieldNo) (*service.FieldDetail, error)
	ResolveMasterData(ctx context.Context, ref service.EntityRef, questions []questionnaire.Question) (map[id.QuestionID]map[id.FieldNo]service.ResolvedValue, error)
}

// WriteService defines the write operations exposed by this handler.
type WriteService interface {
	ApplyManualOverride(ctx context.Context, override service.Override) (*models.MasterDataEvent, error)
	IngestCandidate(ctx context.Context, candidate service.Candidate) (*models.MasterDataEvent, error)
}

// Handler handles master data endpoints.
type Handler struct {
	logger *slog.Logger
	reads  ReadService
	writes WriteService
}

// New creates a new master data Handler.
func New(reads ReadService, writes WriteService, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		reads:  reads,
		writes: writes,
	}
}

// Register registers the master data routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(router chi.Router) {
		router.Use(chimw.Recoverer)
		router.Use(middleware.RequestID)
		router.Use(middleware.RequestTime)
		router.Use(middleware.Actor)
		router.Use(chimw.Timeout(30 * time.Second))

		router.Get("/entities/{entityType}/{entityID}/fields/{fieldNo}", h.handleFieldDetail)
		router.With(middleware.ContentTypeJSON).Post("/entities/{entityType}/{entityID}/resolve", h.handleResolve)
		router.With(middleware.ContentTypeJSON).Post("/entities/legal/{entityID}/fields/{fieldNo}/override", h.handleOverride)
		router.With(middleware.ContentTypeJSON).Post("/entities/legal/{entityID}/fields/{fieldNo}/candidates", h.handleIngestCandidate)
	})
}

// entityRefFromRequest parses the {entityType}/{entityID} path segments.
func entityRefFromRequest(r *http.Request) (service.EntityRef, error) {
	rawID := chi.URLParam(r, "entityID")
	switch entityType := chi.URLParam(r, "entityType"); entityType {
	case "legal":
		legalID, err := id.ParseLegalEntityID(rawID)
		if err != nil {
			return service.EntityRef{}, err
		}
		return service.LegalRef(legalID), nil
	case "client":
		clientID, err := id.ParseClientEntityID(rawID)
		if err != nil {
			return service.EntityRef{}, err
		}
		return service.ClientRef(clientID), nil
	default:
		return service.EntityRef{}, dErrors.Newf(dErrors.CodeBadRequest, "unknown entity type %q", entityType)
	}
}

func fieldNoFromRequest(r *http.Request) (id.FieldNo, error) {
	return id.ParseFieldNoString(chi.URLParam(r, "fieldNo"))
}

func (h *Handler) handleFieldDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ref, err := entityRefFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	fieldNo, err := fieldNoFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	detail, err := h.reads.FieldDetail(ctx, ref, fieldNo)
	if err != nil {
		h.writeServiceError(ctx, w, err, "field detail failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	ref, err := entityRefFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ResolveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resolved, err := h.reads.ResolveMasterData(ctx, ref, req.questions())
	if err != nil {
		h.writeServiceError(ctx, w, err, "resolve failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"resolved": resolved})
}

func (h *Handler) handleOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	legalID, err := id.ParseLegalEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	fieldNo, err := fieldNoFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	actorID := requestcontext.ActorID(ctx)
	if actorID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "acting user is required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[OverrideRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	event, err := h.writes.ApplyManualOverride(ctx, service.Override{
		EntityID:          legalID,
		FieldNo:           fieldNo,
		NewValue:          req.NewValue,
		Note:              req.Note,
		ActorID:           actorID,
		IfUnmodifiedSince: req.IfUnmodifiedSince,
	})
	if err != nil {
		h.writeServiceError(ctx, w, err, "manual override failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) handleIngestCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	legalID, err := id.ParseLegalEntityID(chi.URLParam(r, "entityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	fieldNo, err := fieldNoFromRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CandidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	event, err := h.writes.IngestCandidate(ctx, service.Candidate{
		EntityID:   legalID,
		FieldNo:    fieldNo,
		Value:      req.Value,
		Source:     req.source,
		Confidence: req.Confidence,
		EvidenceID: req.EvidenceID,
	})
	if err != nil {
		h.writeServiceError(ctx, w, err, "candidate ingest failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, event)
}

// writeServiceError logs internal failures and renders everything via the
// shared error writer, which already hides internal detail from callers.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
