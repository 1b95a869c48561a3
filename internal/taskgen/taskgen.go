// Package taskgen turns an onboarding profile into a personalized set
// of task specs. Generation is deterministic and performs no I/O: the
// rule table below is evaluated in order and each rule independently
// contributes zero or more specs.
package taskgen

import "handled/internal/model"

// rule pairs a predicate with a spec factory. Rules are not mutually
// exclusive; a profile may trigger many.
type rule struct {
	matches func(p *model.OnboardingProfile) bool
	specs   func(p *model.OnboardingProfile) []model.TaskSpec
}

var rules = []rule{
	// Everyone gets a credit score check.
	{
		matches: func(*model.OnboardingProfile) bool { return true },
		specs: func(*model.OnboardingProfile) []model.TaskSpec {
			return []model.TaskSpec{{
				Title:       "Check your credit score",
				Description: "Review your credit score and report for any errors or areas to improve.",
				Category:    model.CategoryCreditScore,
				Priority:    model.PriorityHigh,
			}}
		},
	},
	// Old retirement accounts to consolidate.
	{
		matches: func(p *model.OnboardingProfile) bool { return isTrue(p.HasOld401k) },
		specs: func(*model.OnboardingProfile) []model.TaskSpec {
			return []model.TaskSpec{{
				Title:       "Roll over old 401(k) accounts",
				Description: "Consolidate your old retirement accounts to simplify management and potentially reduce fees.",
				Category:    model.CategoryRetirement,
				Priority:    model.PriorityHigh,
			}}
		},
	},
	// No life insurance but dependents: research coverage.
	{
		matches: func(p *model.OnboardingProfile) bool {
			return isFalse(p.HasLifeInsurance) && (isTrue(p.HasChildren) || strEquals(p.RelationshipStatus, "married"))
		},
		specs: func(*model.OnboardingProfile) []model.TaskSpec {
			return []model.TaskSpec{{
				Title:       "Research life insurance options",
				Description: "Look into term life insurance to protect your family.",
				Category:    model.CategoryInsurance,
				Priority:    model.PriorityHigh,
			}}
		},
	},
	// Existing life insurance: review it. Mutually exclusive with the
	// rule above since one requires false and the other true.
	{
		matches: func(p *model.OnboardingProfile) bool { return isTrue(p.HasLifeInsurance) },
		specs: func(*model.OnboardingProfile) []model.TaskSpec {
			return []model.TaskSpec{{
				Title:       "Review life insurance coverage",
				Description: "Make sure your coverage amount and beneficiaries are up to date.",
				Category:    model.CategoryInsurance,
				Priority:    model.PriorityMedium,
			}}
		},
	},
	// No will: estate planning, escalated when children are involved.
	{
		matches: func(p *model.OnboardingProfile) bool { return isFalse(p.HasWill) },
		specs: func(p *model.OnboardingProfile) []model.TaskSpec {
			priority := model.PriorityMedium
			if isTrue(p.HasChildren) {
				priority = model.PriorityHigh
			}
			return []model.TaskSpec{{
				Title:       "Create or update your will",
				Description: "Having a will ensures your wishes are carried out. Consider using an online service to get started.",
				Category:    model.CategoryEstatePlanning,
				Priority:    priority,
			}}
		},
	},
	// No emergency fund.
	{
		matches: func(p *model.OnboardingProfile) bool { return isFalse(p.HasEmergencyFund) },
		specs: func(*model.OnboardingProfile) []model.TaskSpec {
			return []model.TaskSpec{{
				Title:       "Start building an emergency fund",
				Description: "Set up automatic transfers to save 3-6 months of expenses.",
				Category:    model.CategoryEmergencyFund,
				Priority:    model.PriorityHigh,
			}}
		},
	},
	// Existing retirement accounts: check beneficiary designations.
	{
		matches: func(p *model.OnboardingProfile) bool { return isTrue(p.HasRetirementAccounts) },
		specs: func(*model.OnboardingProfile) []model.TaskSpec {
			return []model.TaskSpec{{
				Title:       "Review retirement account beneficiaries",
				Description: "Make sure your beneficiary designations are current, especially after major life changes.",
				Category:    model.CategoryBeneficiaries,
				Priority:    model.PriorityMedium,
			}}
		},
	},
	// Recent life events.
	{
		matches: func(p *model.OnboardingProfile) bool { return p.HasLifeEvent(model.LifeEventNewJob) },
		specs: func(*model.OnboardingProfile) []model.TaskSpec {
			return []model.TaskSpec{{
				Title:       "Review new employer benefits",
				Description: "Understand your health insurance, retirement matching, and other benefits.",
				Category:    model.CategoryInsurance,
				Priority:    model.PriorityHigh,
			}}
		},
	},
	// Marriage or divorce both mean the same beneficiary sweep; emitted
	// once even when both tags are present.
	{
		matches: func(p *model.OnboardingProfile) bool {
			return p.HasLifeEvent(model.LifeEventMarriage) || p.HasLifeEvent(model.LifeEventDivorce)
		},
		specs: func(*model.OnboardingProfile) []model.TaskSpec {
			return []model.TaskSpec{{
				Title:       "Update beneficiaries on all accounts",
				Description: "Review and update beneficiaries on retirement accounts, life insurance, and bank accounts.",
				Category:    model.CategoryBeneficiaries,
				Priority:    model.PriorityHigh,
			}}
		},
	},
	{
		matches: func(p *model.OnboardingProfile) bool { return p.HasLifeEvent(model.LifeEventNewBaby) },
		specs: func(*model.OnboardingProfile) []model.TaskSpec {
			return []model.TaskSpec{
				{
					Title:       "Add child to health insurance",
					Description: "Update your health insurance to include your new family member.",
					Category:    model.CategoryInsurance,
					Priority:    model.PriorityHigh,
				},
				{
					Title:       "Start a 529 college savings plan",
					Description: "Consider opening a tax-advantaged education savings account.",
					Category:    model.CategoryInvestments,
					Priority:    model.PriorityMedium,
				},
			}
		},
	},
	// Everyone gets a subscription audit.
	{
		matches: func(*model.OnboardingProfile) bool { return true },
		specs: func(*model.OnboardingProfile) []model.TaskSpec {
			return []model.TaskSpec{{
				Title:       "Review monthly subscriptions",
				Description: "Audit your recurring charges and cancel services you no longer use.",
				Category:    model.CategoryBillsSubscriptions,
				Priority:    model.PriorityLow,
			}}
		},
	},
}

// Generate evaluates the rule table against the profile and returns the
// resulting task specs. Calling it twice with the same profile yields
// the same specs in the same order.
func Generate(p *model.OnboardingProfile) []model.TaskSpec {
	var specs []model.TaskSpec
	for _, r := range rules {
		if r.matches(p) {
			specs = append(specs, r.specs(p)...)
		}
	}
	return specs
}

func isTrue(b *bool) bool  { return b != nil && *b }
func isFalse(b *bool) bool { return b != nil && !*b }

func strEquals(s *string, want string) bool { return s != nil && *s == want }
