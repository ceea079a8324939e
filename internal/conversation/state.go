// Package conversation holds the per-lead dialogue control state and the
// small state machine gating qualification, quoting, and duplicate-quote
// suppression.
package conversation

import (
	"time"

	"github.com/google/uuid"
)

// State is the closed set of dialogue states. Stored as text but never
// handled as a free-form string.
type State string

const (
	StateInit              State = "INIT"
	StateAskName           State = "ASK_NAME"
	StateTechQualification State = "TECH_QUALIFICATION"
	StateReadyForMatch     State = "READY_FOR_MATCH"
	StateQuoteDrafted      State = "QUOTE_DRAFTED"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateInit, StateAskName, StateTechQualification, StateReadyForMatch, StateQuoteDrafted:
		return true
	}
	return false
}

// Terminal reports whether the dialogue is finished for quoting purposes.
// A terminal conversation never produces a second quote.
func (s State) Terminal() bool {
	return s == StateQuoteDrafted
}

// Conversation is the control-state record for a (company, lead) pair.
type Conversation struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	LeadID         uuid.UUID
	State          State
	LastActivityAt time.Time
	CreatedAt      time.Time
}

// Transition computes the follow-on state for one processed turn.
// QUOTE_DRAFTED is terminal and is only ever entered through the quote
// commit, never through this function.
func Transition(current State, leadHasName, qualificationComplete bool) State {
	switch current {
	case StateInit, StateAskName:
		if !leadHasName {
			return StateAskName
		}
		if qualificationComplete {
			return StateReadyForMatch
		}
		return StateTechQualification
	case StateTechQualification:
		if qualificationComplete {
			return StateReadyForMatch
		}
		return StateTechQualification
	case StateReadyForMatch:
		return StateReadyForMatch
	case StateQuoteDrafted:
		return StateQuoteDrafted
	}
	return current
}
