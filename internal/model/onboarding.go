package model

import "time"

// Life event tags the generator reacts to. The set is open; unknown
// tags are carried through but trigger no rules.
const (
	LifeEventNewJob   = "new_job"
	LifeEventMarriage = "marriage"
	LifeEventDivorce  = "divorce"
	LifeEventNewBaby  = "new_baby"
)

// OnboardingProfile holds a user's questionnaire answers. The tri-state
// booleans use nil for "unknown": rules gated on an explicit true or
// false never fire on unknown. Resubmission overwrites the whole row.
type OnboardingProfile struct {
	UserID                string     `db:"user_id" json:"user_id"`
	AgeRange              *string    `db:"age_range" json:"age_range,omitempty"`
	EmploymentStatus      *string    `db:"employment_status" json:"employment_status,omitempty"`
	RelationshipStatus    *string    `db:"relationship_status" json:"relationship_status,omitempty"`
	HasChildren           *bool      `db:"has_children" json:"has_children,omitempty"`
	HasRetirementAccounts *bool      `db:"has_retirement_accounts" json:"has_retirement_accounts,omitempty"`
	HasOld401k            *bool      `db:"has_old_401k" json:"has_old_401k,omitempty"`
	HasLifeInsurance      *bool      `db:"has_life_insurance" json:"has_life_insurance,omitempty"`
	HasWill               *bool      `db:"has_will" json:"has_will,omitempty"`
	HasEmergencyFund      *bool      `db:"has_emergency_fund" json:"has_emergency_fund,omitempty"`
	RecentLifeEvents      []string   `db:"recent_life_events" json:"recent_life_events"`
	FinancialGoals        []string   `db:"financial_goals" json:"financial_goals"`
	CompletedAt           *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

// HasLifeEvent reports whether the profile carries the given tag.
func (p *OnboardingProfile) HasLifeEvent(tag string) bool {
	for _, e := range p.RecentLifeEvents {
		if e == tag {
			return true
		}
	}
	return false
}
