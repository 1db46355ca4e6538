package handler

import (
	"time"

	"provenio/internal/questionnaire"
	id "provenio/pkg/domain"
	dErrors "provenio/pkg/domain-errors"
)

// OverrideRequest is the body of a manual override.
type OverrideRequest struct {
	NewValue          any        `json:"new_value"`
	Note              string     `json:"note"`
	IfUnmodifiedSince *time.Time `json:"if_unmodified_since,omitempty"`
}

func (r *OverrideRequest) Validate() error {
	if r.NewValue == nil {
		return dErrors.New(dErrors.CodeValidation, "new_value is required")
	}
	return nil
}

// CandidateRequest is the body of a candidate ingestion from an external
// source.
type CandidateRequest struct {
	Value      any      `json:"value"`
	Source     string   `json:"source"`
	Confidence *float64 `json:"confidence,omitempty"`
	EvidenceID string   `json:"evidence_id,omitempty"`

	source id.Source
}

func (r *CandidateRequest) Validate() error {
	if r.Value == nil {
		return dErrors.New(dErrors.CodeValidation, "value is required")
	}
	source, err := id.ParseSource(r.Source)
	if err != nil {
		return err
	}
	if r.Confidence != nil && (*r.Confidence < 0 || *r.Confidence > 1) {
		return dErrors.New(dErrors.CodeValidation, "confidence must be between 0 and 1")
	}
	r.source = source
	return nil
}

// ResolveRequest carries the question mappings to resolve against current
// master data. The questionnaire subsystem owns the questions; callers pass
// the relevant slice in the request.
type ResolveRequest struct {
	Questions []ResolveQuestion `json:"questions"`
}

// ResolveQuestion mirrors the question fields that resolution needs.
type ResolveQuestion struct {
	ID            id.QuestionID `json:"id"`
	Answer        *string       `json:"answer,omitempty"`
	MasterFieldNo *id.FieldNo   `json:"master_field_no,omitempty"`
	MasterGroupID *id.GroupID   `json:"master_group_id,omitempty"`
}

func (r *ResolveRequest) Validate() error {
	for i, q := range r.Questions {
		if q.ID.IsNil() {
			return dErrors.Newf(dErrors.CodeValidation, "questions[%d].id is required", i)
		}
		if q.MasterFieldNo != nil && q.MasterGroupID != nil {
			return dErrors.Newf(dErrors.CodeValidation, "questions[%d] maps to both a field and a group", i)
		}
		if q.MasterFieldNo != nil && *q.MasterFieldNo <= 0 {
			return dErrors.Newf(dErrors.CodeValidation, "questions[%d].master_field_no must be positive", i)
		}
	}
	return nil
}

func (r *ResolveRequest) questions() []questionnaire.Question {
	out := make([]questionnaire.Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		out = append(out, questionnaire.Question{
			ID:            q.ID,
			Answer:        q.Answer,
			MasterFieldNo: q.MasterFieldNo,
			MasterGroupID: q.MasterGroupID,
		})
	}
	return out
}
