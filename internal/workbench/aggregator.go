package workbench

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"provenio/internal/masterdata/models"
	"provenio/internal/masterdata/service"
	"provenio/internal/questionnaire"
	"provenio/internal/registry"
	wbmetrics "provenio/internal/workbench/metrics"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
)

// Aggregator computes the workbench view for a client entity.
type Aggregator struct {
	registry  *registry.Registry
	loader    *service.Loader
	questions questionnaire.Service
	logger    *slog.Logger
	metrics   *wbmetrics.Metrics
	tracer    trace.Tracer
}

type AggregatorOption func(*Aggregator)

func WithAggregatorLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) { a.logger = logger }
}

func WithAggregatorMetrics(m *wbmetrics.Metrics) AggregatorOption {
	return func(a *Aggregator) { a.metrics = m }
}

func NewAggregator(reg *registry.Registry, loader *service.Loader, questions questionnaire.Service, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		registry:  reg,
		loader:    loader,
		questions: questions,
		logger:    slog.Default(),
		tracer:    otel.Tracer("provenio/workbench"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// bucket accumulates the questions that share one mapping key.
type bucket struct {
	ref       FieldRef
	questions []questionnaire.Question
}

// BuildWorkbench cross-references every question linked to the client with
// current master values and computes a sync status per question. Mappings
// that resolve to no known field or group are surfaced under their own
// entries rather than dropped. The result is sorted by label.
func (a *Aggregator) BuildWorkbench(ctx context.Context, clientID id.ClientEntityID) ([]Field, error) {
	ctx, span := a.tracer.Start(ctx, "workbench.build")
	defer span.End()

	start := time.Now()
	defer func() {
		if a.metrics != nil {
			a.metrics.ObserveBuild(time.Since(start))
		}
	}()

	questions, err := a.questions.ListQuestions(ctx, clientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list questions")
	}

	buckets := map[string]*bucket{}
	var order []string
	for _, q := range questions {
		ref := a.classify(q)
		key := ref.Key()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{ref: ref}
			buckets[key] = b
			order = append(order, key)
		}
		b.questions = append(b.questions, q)
	}

	ref := service.ClientRef(clientID)
	fields := make([]Field, 0, len(order))
	for _, key := range order {
		field, err := a.buildField(ctx, ref, buckets[key])
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Label != fields[j].Label {
			return fields[i].Label < fields[j].Label
		}
		return fields[i].Key < fields[j].Key
	})
	return fields, nil
}

// classify resolves a question's mapping against the registry.
func (a *Aggregator) classify(q questionnaire.Question) FieldRef {
	switch {
	case q.MasterFieldNo != nil:
		if _, ok := a.registry.Definition(*q.MasterFieldNo); ok {
			return SingleRef{FieldNo: *q.MasterFieldNo}
		}
		return a.unresolvable(q, strconv.Itoa(int(*q.MasterFieldNo)))
	case q.MasterGroupID != nil:
		if _, ok := a.registry.Group(*q.MasterGroupID); ok {
			return GroupRef{GroupID: *q.MasterGroupID}
		}
		return a.unresolvable(q, string(*q.MasterGroupID))
	default:
		return UnmappedRef{}
	}
}

func (a *Aggregator) unresolvable(q questionnaire.Question, raw string) FieldRef {
	a.logger.Warn("question mapping resolves to no registry entry",
		slog.String("question_id", q.ID.String()),
		slog.String("mapping", raw),
	)
	if a.metrics != nil {
		a.metrics.IncrementUnresolvableMappings()
	}
	return UnresolvableRef{Raw: raw}
}

// buildField loads the master side for one bucket and attaches its questions
// with their sync status. Sync status is exact string comparison against the
// master representation; no whitespace or case normalization.
func (a *Aggregator) buildField(ctx context.Context, ref service.EntityRef, b *bucket) (Field, error) {
	field := Field{
		Type: b.ref.Type(),
		Key:  b.ref.Key(),
	}

	var master string
	switch r := b.ref.(type) {
	case SingleRef:
		def, _ := a.registry.Definition(r.FieldNo)
		field.Label = def.FieldName
		value, err := a.loader.LoadField(ctx, ref, r.FieldNo)
		if err != nil {
			return Field{}, err
		}
		if value != nil {
			master = models.Stringify(value.Value)
			field.CurrentValue = master
			field.CurrentSource = value.Source
			updated := value.UpdatedAt
			field.LastUpdated = &updated
		}
	case GroupRef:
		group, _ := a.registry.Group(r.GroupID)
		field.Label = group.Label
		values, err := a.loader.LoadGroup(ctx, ref, r.GroupID)
		if err != nil {
			return Field{}, err
		}
		if len(values) > 0 {
			master = service.GroupRepresentation(group, values)
			field.CurrentValue = master
			if primary, _, ok := service.GroupPrimary(group, values); ok {
				field.CurrentSource = primary.Source
				updated := primary.UpdatedAt
				field.LastUpdated = &updated
			}
		}
	case UnmappedRef:
		field.Label = "Unmapped"
	case UnresolvableRef:
		field.Label = r.Raw
	}

	field.Questions = make([]LinkedQuestion, 0, len(b.questions))
	for _, q := range b.questions {
		field.Questions = append(field.Questions, LinkedQuestion{
			QuestionID: q.ID,
			Text:       q.Text,
			Answer:     q.Answer,
			Status:     models.ComputeSyncStatus(q.Answer, master),
		})
	}
	return field, nil
}
