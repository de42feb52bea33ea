package services

import (
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
)

type ApprovalAction string

const (
	ActionApprove  ApprovalAction = "approve"
	ActionReject   ApprovalAction = "reject"
	ActionResubmit ApprovalAction = "resubmit"
	ActionEdit     ApprovalAction = "edit"
)

// Approvable is implemented by entities that go through the approval cycle.
type Approvable interface {
	ApprovalState() models.ApprovalStatus
	EntityID() string
	EntityKind() string
}

type transition struct {
	from []models.ApprovalStatus
	to   models.ApprovalStatus // empty keeps the current state
}

// One table for templates and customer assessments. Approved is terminal.
var approvalTransitions = map[ApprovalAction]transition{
	ActionApprove:  {from: []models.ApprovalStatus{models.ApprovalPending}, to: models.ApprovalApproved},
	ActionReject:   {from: []models.ApprovalStatus{models.ApprovalPending}, to: models.ApprovalRejected},
	ActionResubmit: {from: []models.ApprovalStatus{models.ApprovalRejected}, to: models.ApprovalPending},
	ActionEdit:     {from: []models.ApprovalStatus{models.ApprovalPending, models.ApprovalRejected}},
}

// Decision is a permitted transition for one entity.
type Decision[T Approvable] struct {
	Entity T
	Action ApprovalAction
	From   models.ApprovalStatus
	To     models.ApprovalStatus
}

// Expect returns the conditional-update precondition for the decision.
func (d Decision[T]) Expect(version int) Expect {
	return Expect{Statuses: []models.ApprovalStatus{d.From}, Version: version}
}

// Decide checks action against entity's current state.
func Decide[T Approvable](entity T, action ApprovalAction) (Decision[T], error) {
	tr, ok := approvalTransitions[action]
	if !ok {
		return Decision[T]{}, newValidationError("unknown approval action", string(action))
	}
	current := entity.ApprovalState()
	for _, from := range tr.from {
		if from != current {
			continue
		}
		to := tr.to
		if to == "" {
			to = current
		}
		return Decision[T]{Entity: entity, Action: action, From: current, To: to}, nil
	}
	return Decision[T]{}, &StateConflictError{
		Resource: entity.EntityKind(),
		ID:       entity.EntityID(),
		Current:  string(current),
		Action:   string(action),
	}
}

// AllowedActions lists the actions permitted from status.
func AllowedActions(status models.ApprovalStatus) []ApprovalAction {
	var actions []ApprovalAction
	for _, a := range []ApprovalAction{ActionApprove, ActionReject, ActionResubmit, ActionEdit} {
		for _, from := range approvalTransitions[a].from {
			if from == status {
				actions = append(actions, a)
			}
		}
	}
	return actions
}
