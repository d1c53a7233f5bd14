package application

import (
	"fmt"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain/booking"
)

// Action is one of the three well-defined booking transitions.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// StatusUpdateRequest is the boundary payload for a transition request. It
// carries either an explicit action or a target status; `status=completed`
// is the backward-compatible spelling of `action=complete`.
type StatusUpdateRequest struct {
	Action string `json:"action"`
	Status string `json:"status"`
}

// resolveAction reduces the request to exactly one transition action,
// rejecting everything else before any storage access. `pending` is the
// initial state with no inbound transition, so it is not a valid target.
func resolveAction(req StatusUpdateRequest) (Action, error) {
	if req.Action != "" {
		if req.Action == string(ActionComplete) {
			return ActionComplete, nil
		}
		return "", domain.NewValidationError(fmt.Sprintf("unrecognized action: %s", req.Action))
	}

	switch req.Status {
	case "":
		return "", domain.NewValidationError("either action or status is required")
	case string(booking.StatusCompleted):
		return ActionComplete, nil
	case string(booking.StatusConfirmed):
		return ActionConfirm, nil
	case string(booking.StatusCancelled):
		return ActionCancel, nil
	default:
		return "", domain.NewValidationError(fmt.Sprintf("cannot update a booking to status: %s", req.Status))
	}
}
