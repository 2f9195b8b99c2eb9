// Package workflow owns the daily-report lifecycle policy: the status state
// machine, the ownership/hierarchy authorization predicates, and the
// input-level validation rules. It is persistence-free so the policy can be
// exercised without a database.
package workflow

import (
	"github.com/masakazoo1979/dailyReport-sub001/pkg/apperr"
)

// Status is the closed report lifecycle enum.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
)

// Valid reports whether s is a member of the closed enum.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Editable reports whether a report in status s accepts content edits
// (problem/plan/visit records). SUBMITTED and APPROVED reports are frozen.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusRejected
}

// Role is the closed authorization role enum. Display labels are a
// presentation concern and never compared here.
type Role string

const (
	RoleStaff   Role = "STAFF"
	RoleManager Role = "MANAGER"
)

func (r Role) Valid() bool {
	return r == RoleStaff || r == RoleManager
}

// RejectionCommentPrefix marks a comment as a persisted rejection reason.
const RejectionCommentPrefix = "【差戻し】"

// ValidateTransition checks the status state machine:
//
//	DRAFT    -> SUBMITTED  (owner submits, needs >=1 visit)
//	REJECTED -> SUBMITTED  (owner resubmits, needs >=1 visit)
//	SUBMITTED -> APPROVED  (direct manager approves)
//	SUBMITTED -> REJECTED  (direct manager rejects with reason)
//	DRAFT/REJECTED -> DRAFT (owner saves without submitting)
//
// The visit-count and actor guards are enforced separately; this only decides
// whether the edge exists. APPROVED is terminal.
func ValidateTransition(from, to Status) error {
	switch to {
	case StatusSubmitted:
		if from == StatusDraft || from == StatusRejected {
			return nil
		}
	case StatusApproved, StatusRejected:
		if from == StatusSubmitted {
			return nil
		}
	case StatusDraft:
		if from == StatusDraft || from == StatusRejected {
			return nil
		}
	}
	return apperr.StateConflict("cannot transition report from %s to %s", from, to)
}
