package workflow

import (
	"github.com/google/uuid"

	"github.com/masakazoo1979/dailyReport-sub001/pkg/apperr"
)

// Actor is the authenticated caller as seen by the policy. It is built from
// the session claims plus the salesperson record; the owner side of every
// check comes from the report's persisted owner, never from client input.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// Owns reports ownership access: the actor created the report.
func (a Actor) Owns(ownerID uuid.UUID) bool {
	return a.ID == ownerID
}

// Manages reports hierarchy access: the actor is a MANAGER and the report
// owner's ManagerID points at the actor. Strictly one level — a manager's
// manager has no implicit access to grand-subordinates' reports.
func (a Actor) Manages(ownerManagerID *uuid.UUID) bool {
	return a.Role == RoleManager && ownerManagerID != nil && *ownerManagerID == a.ID
}

// CanView gates read access to a report, its visits, and its comments.
func CanView(a Actor, ownerID uuid.UUID, ownerManagerID *uuid.UUID) bool {
	return a.Owns(ownerID) || a.Manages(ownerManagerID)
}

// CheckView returns the AuthorizationError CanView implies.
func CheckView(a Actor, ownerID uuid.UUID, ownerManagerID *uuid.UUID) error {
	if !CanView(a, ownerID, ownerManagerID) {
		return apperr.Authorization("no access to this report")
	}
	return nil
}

// CheckEditVisits gates create/update/delete of visit records: view access
// plus an editable report status. Authorization is checked before state so a
// stranger never learns the report's status from the error.
func CheckEditVisits(a Actor, ownerID uuid.UUID, ownerManagerID *uuid.UUID, status Status) error {
	if err := CheckView(a, ownerID, ownerManagerID); err != nil {
		return err
	}
	if !status.Editable() {
		return apperr.StateConflict("report is %s and cannot be edited", status)
	}
	return nil
}

// CheckOwnerEdit gates report-level edits and submission: owner only, since a
// saved edit may carry a transition to SUBMITTED.
func CheckOwnerEdit(a Actor, ownerID uuid.UUID) error {
	if !a.Owns(ownerID) {
		return apperr.Authorization("only the report owner may perform this operation")
	}
	return nil
}

// CheckDecide gates approve/reject: the actor must be the owner's direct
// manager, must not be the owner, and the report must be SUBMITTED.
func CheckDecide(a Actor, ownerID uuid.UUID, ownerManagerID *uuid.UUID, status Status) error {
	if a.Owns(ownerID) {
		return apperr.Authorization("cannot approve or reject your own report")
	}
	if !a.Manages(ownerManagerID) {
		return apperr.Authorization("only the owner's direct manager may approve or reject")
	}
	if status != StatusSubmitted {
		return apperr.StateConflict("report is %s, only SUBMITTED reports can be decided", status)
	}
	return nil
}

// CheckDeleteComment allows comment deletion by its author only. Hierarchy
// access grants no delete rights over others' comments.
func CheckDeleteComment(a Actor, authorID uuid.UUID) error {
	if a.ID != authorID {
		return apperr.Authorization("only the comment author may delete it")
	}
	return nil
}
