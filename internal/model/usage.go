package model

import "time"

// ActionKind identifies a metered action.
type ActionKind string

const (
	// ActionChatMessage and ActionDocumentUpload are counted against a
	// rolling UTC calendar-month window.
	ActionChatMessage    ActionKind = "chat_message"
	ActionDocumentUpload ActionKind = "document_upload"
	// ActionTaskCreate is limited by the count of currently open tasks,
	// not by a monthly window.
	ActionTaskCreate ActionKind = "task_create"
)

// Valid reports whether k is a known action kind.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionChatMessage, ActionDocumentUpload, ActionTaskCreate:
		return true
	}
	return false
}

// Unlimited is the sentinel value for limit and remaining on tiers that
// are exempt from metering.
const Unlimited = -1

// Entitlement is the gate's answer for one action kind. Quota
// exhaustion is reported through Allowed, never as an error.
type Entitlement struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	Limit     int       `json:"limit"`
	ResetDate time.Time `json:"reset_date"`
}

// UsageSummary groups the per-kind entitlements returned by GET /usage.
type UsageSummary struct {
	Chat      Entitlement `json:"chat"`
	Documents Entitlement `json:"documents"`
	Tasks     Entitlement `json:"tasks"`
}
