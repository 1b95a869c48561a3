package dto

import "handled/internal/model"

// OnboardingSubmitDTO is used for incoming questionnaire submissions.
// Every answer is optional; omitted tri-state booleans stay unknown.
type OnboardingSubmitDTO struct {
	AgeRange              *string  `json:"age_range,omitempty" validate:"omitempty,max=50"`
	EmploymentStatus      *string  `json:"employment_status,omitempty" validate:"omitempty,max=50"`
	RelationshipStatus    *string  `json:"relationship_status,omitempty" validate:"omitempty,max=50"`
	HasChildren           *bool    `json:"has_children,omitempty"`
	HasRetirementAccounts *bool    `json:"has_retirement_accounts,omitempty"`
	HasOld401k            *bool    `json:"has_old_401k,omitempty"`
	HasLifeInsurance      *bool    `json:"has_life_insurance,omitempty"`
	HasWill               *bool    `json:"has_will,omitempty"`
	HasEmergencyFund      *bool    `json:"has_emergency_fund,omitempty"`
	RecentLifeEvents      []string `json:"recent_life_events,omitempty" validate:"omitempty,dive,max=50"`
	FinancialGoals        []string `json:"financial_goals,omitempty" validate:"omitempty,dive,max=50"`
}

// ToModel builds the full profile that replaces any previous submission.
func (d *OnboardingSubmitDTO) ToModel(userID string) *model.OnboardingProfile {
	events := d.RecentLifeEvents
	if events == nil {
		events = []string{}
	}
	goals := d.FinancialGoals
	if goals == nil {
		goals = []string{}
	}
	return &model.OnboardingProfile{
		UserID:                userID,
		AgeRange:              d.AgeRange,
		EmploymentStatus:      d.EmploymentStatus,
		RelationshipStatus:    d.RelationshipStatus,
		HasChildren:           d.HasChildren,
		HasRetirementAccounts: d.HasRetirementAccounts,
		HasOld401k:            d.HasOld401k,
		HasLifeInsurance:      d.HasLifeInsurance,
		HasWill:               d.HasWill,
		HasEmergencyFund:      d.HasEmergencyFund,
		RecentLifeEvents:      events,
		FinancialGoals:        goals,
	}
}

// OnboardingStatusDTO is returned by GET /onboarding.
type OnboardingStatusDTO struct {
	Completed bool                     `json:"completed"`
	Profile   *model.OnboardingProfile `json:"profile,omitempty"`
}

// OnboardingResultDTO is returned after a successful submission.
type OnboardingResultDTO struct {
	Profile      *model.OnboardingProfile `json:"profile"`
	TasksCreated int                      `json:"tasks_created"`
	Tasks        []TaskResponseDTO        `json:"tasks"`
}
