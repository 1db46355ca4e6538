// Package questionnaire defines the port to the external questionnaire
// subsystem. This core only reads questions and overwrites answers; question
// CRUD, versioning, and rendering belong to the collaborator behind this
// interface.
package questionnaire

import (
	"context"

	id "provenio/pkg/domain"
)

// Question is one questionnaire question linked to an entity. At most one
// of MasterFieldNo and MasterGroupID is set; the questionnaire subsystem
// enforces that invariant before questions reach this core.
type Question struct {
	ID                id.QuestionID
	Text              string
	Answer            *string
	MasterFieldNo     *id.FieldNo
	MasterGroupID     *id.GroupID
	QuestionnaireName string
}

// IsMapped reports whether the question references any canonical field or
// group at all.
func (q Question) IsMapped() bool {
	return q.MasterFieldNo != nil || q.MasterGroupID != nil
}

//go:generate mockgen -source=questionnaire.go -destination=mocks/questionnaire-mocks.go -package=mocks Service

// Service is the questionnaire collaborator surface consumed by this core.
type Service interface {
	// ListQuestions returns every question linked to a client entity,
	// including unmapped ones.
	ListQuestions(ctx context.Context, clientID id.ClientEntityID) ([]Question, error)
	// GetQuestion returns a question by id, or sentinel.ErrNotFound.
	GetQuestion(ctx context.Context, questionID id.QuestionID) (*Question, error)
	// UpdateAnswer overwrites a question's answer, or returns
	// sentinel.ErrNotFound when the question does not exist.
	UpdateAnswer(ctx context.Context, questionID id.QuestionID, answer string) error
}
