package testutil

import (
	"net/http"
	"time"

	id "provenio/pkg/domain"
	"provenio/pkg/requestcontext"
)

// WithActor stamps an actor id on the request context, simulating what the
// gateway header middleware does for authorized requests. Invalid ids are
// silently ignored.
func WithActor(req *http.Request, actorID string) *http.Request {
	parsed, err := id.ParseActorID(actorID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithActorID(req.Context(), parsed))
}

// WithRequestTime pins the request-scoped clock, so domain timestamps
// written during the request are deterministic.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID stamps a request id on the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
