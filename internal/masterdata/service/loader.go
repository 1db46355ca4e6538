package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	mdmetrics "provenio/internal/masterdata/metrics"
	"provenio/internal/masterdata/models"
	"provenio/internal/registry"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
	"provenio/pkg/platform/sentinel"
)

// Loader resolves the current value, source, and timestamp of canonical
// fields. It is read-only and safe for concurrent use.
type Loader struct {
	registry *registry.Registry
	records  RecordStore
	resolver EntityResolver
	logger   *slog.Logger
	metrics  *mdmetrics.Metrics
	tracer   trace.Tracer
}

// LoaderOption configures optional Loader dependencies.
type LoaderOption func(*Loader)

// WithLoaderLogger injects a logger.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithLoaderMetrics injects metrics.
func WithLoaderMetrics(m *mdmetrics.Metrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// NewLoader constructs a Loader. All storage and registry dependencies are
// explicit arguments; there is no process-wide loader instance.
func NewLoader(reg *registry.Registry, records RecordStore, resolver EntityResolver, opts ...LoaderOption) *Loader {
	l := &Loader{
		registry: reg,
		records:  records,
		resolver: resolver,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer("provenio/masterdata"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadField returns the current state of one canonical field for an entity,
// or nil when the field is unset or the entity has no canonical link yet.
//
// A populated attribute without a meta entry is a data integrity fault from
// an upstream write that bypassed validation. It is surfaced as a coded
// invariant violation, never silently coerced to "unset", so monitoring
// catches it.
func (l *Loader) LoadField(ctx context.Context, ref EntityRef, fieldNo id.FieldNo) (*models.LoadedValue, error) {
	start := time.Now()
	defer func() {
		if l.metrics != nil {
			l.metrics.ObserveFieldLoad(time.Since(start))
		}
	}()

	def, ok := l.registry.Definition(fieldNo)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "unknown field number %d", fieldNo)
	}
	if !def.HasAttribute() {
		return nil, nil
	}

	entityID, linked, err := resolveRef(ctx, l.resolver, ref)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, nil
	}

	rec, err := l.records.Get(ctx, entityID, def.Model)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load canonical record")
	}

	value, present := rec.Attrs[def.Field]
	if !present || value == nil {
		return nil, nil
	}

	entry, ok := rec.Meta[def.Field]
	if !ok {
		if l.metrics != nil {
			l.metrics.IncrementIntegrityViolations()
		}
		l.logger.ErrorContext(ctx, "populated attribute missing meta entry",
			"entity_id", entityID,
			"model", def.Model,
			"attribute", def.Field,
			"field_no", fieldNo,
		)
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation,
			"attribute %q on %s is populated but has no provenance entry", def.Field, def.Model)
	}

	return &models.LoadedValue{
		Value:      value,
		Source:     entry.Source,
		UpdatedAt:  entry.Timestamp,
		Confidence: entry.Confidence,
	}, nil
}

// LoadGroup loads every field of a group concurrently and returns only the
// populated ones, keyed by field number.
func (l *Loader) LoadGroup(ctx context.Context, ref EntityRef, groupID id.GroupID) (models.GroupValues, error) {
	ctx, span := l.tracer.Start(ctx, "masterdata.LoadGroup",
		trace.WithAttributes(attribute.String("group_id", groupID.String())))
	defer span.End()

	group, ok := l.registry.Group(groupID)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "unknown field group %q", groupID)
	}

	var mu sync.Mutex
	values := make(models.GroupValues, len(group.FieldNos))

	g, ctx := errgroup.WithContext(ctx)
	for _, fieldNo := range group.FieldNos {
		g.Go(func() error {
			loaded, err := l.LoadField(ctx, ref, fieldNo)
			if err != nil {
				return err
			}
			if loaded == nil {
				return nil
			}
			mu.Lock()
			values[fieldNo] = *loaded
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

// GroupPrimary derives the group's primary provenance: the entry with the
// most recent UpdatedAt among the populated fields. Ties break toward the
// earlier field in group order, so the result is deterministic. ok is false
// when no field of the group is populated.
func GroupPrimary(group registry.FieldGroup, values models.GroupValues) (best models.LoadedValue, fieldNo id.FieldNo, ok bool) {
	for _, candidate := range group.FieldNos {
		value, present := values[candidate]
		if !present {
			continue
		}
		if !ok || value.UpdatedAt.After(best.UpdatedAt) {
			best = value
			fieldNo = candidate
			ok = true
		}
	}
	return best, fieldNo, ok
}
