package workbench

import (
	"context"
	"errors"
	"log/slog"

	"provenio/internal/masterdata/models"
	"provenio/internal/questionnaire"
	wbmetrics "provenio/internal/workbench/metrics"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
	"provenio/pkg/platform/sentinel"
)

// Propagator copies master values into questionnaire answers. This is the
// only write path from canonical data toward the questionnaire; it never
// runs automatically and never touches canonical records or field history.
type Propagator struct {
	questions questionnaire.Service
	logger    *slog.Logger
	metrics   *wbmetrics.Metrics
}

type PropagatorOption func(*Propagator)

func WithPropagatorLogger(logger *slog.Logger) PropagatorOption {
	return func(p *Propagator) { p.logger = logger }
}

func WithPropagatorMetrics(m *wbmetrics.Metrics) PropagatorOption {
	return func(p *Propagator) { p.metrics = m }
}

func NewPropagator(questions questionnaire.Service, opts ...PropagatorOption) *Propagator {
	p := &Propagator{
		questions: questions,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ApplyMasterToQuestion overwrites the question's answer with the
// stringified master value. One-way copy: the canonical side is not read or
// written here, so a subsequent workbench build classifies the question as
// SYNCED only if the caller passed the current master representation.
func (p *Propagator) ApplyMasterToQuestion(ctx context.Context, questionID id.QuestionID, masterValue any, actorID id.ActorID) error {
	answer := models.Stringify(masterValue)
	if err := p.questions.UpdateAnswer(ctx, questionID, answer); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "question %s not found", questionID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "update answer")
	}

	p.logger.InfoContext(ctx, "master value propagated to question",
		slog.String("question_id", questionID.String()),
		slog.String("actor_id", actorID.String()),
	)
	if p.metrics != nil {
		p.metrics.IncrementPropagations()
	}
	return nil
}
