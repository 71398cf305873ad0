package services

import (
	"github.com/GregMSThompson/sas-financier/internal/errs"
	"github.com/GregMSThompson/sas-financier/internal/models"
)

// Action is an admin decision on a pending transaction.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// NextStatut is the approval state machine. Only en_attente accepts an
// action; approuve and rejete are terminal.
func NextStatut(current models.Statut, action Action) (models.Statut, error) {
	if current != models.StatutEnAttente {
		return "", errs.NewInvalidTransitionError(string(current), string(action))
	}
	switch action {
	case ActionApprove:
		return models.StatutApprouve, nil
	case ActionReject:
		return models.StatutRejete, nil
	default:
		return "", errs.NewInvalidTransitionError(string(current), string(action))
	}
}

// ---- Guards ----
// Capabilities come from the role resolved for the authenticated caller on
// this request, never from request input.

func requireAuthenticated(actor models.Actor) error {
	if actor.UID == "" {
		return errs.NewUnauthorizedError("authentication required")
	}
	return nil
}

func requireAdmin(actor models.Actor) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsAdmin {
		return errs.NewForbiddenError("admin role required")
	}
	return nil
}

func requireTresorier(actor models.Actor) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsTresorier {
		return errs.NewForbiddenError("only treasurers can create transactions")
	}
	return nil
}
