package statemachine

import (
	"fmt"
	"strings"

	"github.com/riadice/riadice-backend/internal/app/model"
)

// Transition is one allowed status change. Every transition is initiated by admin or staff.
type Transition struct {
	From model.ReservationStatus
	To   model.ReservationStatus
	Name string
}

// validTransitions is the reservation lifecycle
var validTransitions = []Transition{
	{From: model.StatusPending, To: model.StatusConfirmed, Name: "confirm"},
	{From: model.StatusPending, To: model.StatusCancelled, Name: "cancel"},
	{From: model.StatusConfirmed, To: model.StatusCompleted, Name: "complete"},
	{From: model.StatusConfirmed, To: model.StatusCancelled, Name: "cancel"},
	{From: model.StatusCancelled, To: model.StatusPending, Name: "reopen"},
	{From: model.StatusCompleted, To: model.StatusPending, Name: "reopen"},
}

type transitionKey struct {
	From model.ReservationStatus
	To   model.ReservationStatus
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To}] = true
	}
	return m
}()

// ValidTransitionsFrom returns the statuses reachable from status in one step.
// The result is never nil so it encodes as [] in JSON.
func ValidTransitionsFrom(status model.ReservationStatus) []model.ReservationStatus {
	nexts := []model.ReservationStatus{}
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition returns nil when from -> to is allowed and a descriptive error otherwise.
func CanTransition(from, to model.ReservationStatus) error {
	if !to.Valid() {
		return fmt.Errorf("invalid reservation status %q", to)
	}
	if transitionMap[transitionKey{From: from, To: to}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s -> %s is not allowed. Valid transitions from %s are: %s",
		from, to, from, describeValidFrom(from))
}

func describeValidFrom(status model.ReservationStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full lifecycle for documentation endpoints
func GetAllTransitions() []Transition {
	return validTransitions
}
