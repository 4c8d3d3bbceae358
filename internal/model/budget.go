package model

import "time"

// BudgetPeriod is an advisory label for how often a budget resets. It is not
// used to derive date ranges; StartDate/EndDate carry those.
type BudgetPeriod string

const (
	// BudgetPeriodDaily labels a daily budget.
	BudgetPeriodDaily BudgetPeriod = "daily"
	// BudgetPeriodWeekly labels a weekly budget.
	BudgetPeriodWeekly BudgetPeriod = "weekly"
	// BudgetPeriodMonthly labels a monthly budget.
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	// BudgetPeriodYearly labels a yearly budget.
	BudgetPeriodYearly BudgetPeriod = "yearly"
)

// Budget is a per-user, per-category spending cap. At most one active budget
// may exist per (OwnerID, CategoryID) pair.
type Budget struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	StartDate      time.Time
	EndDate        *time.Time
	Period         BudgetPeriod
	ID             int64
	OwnerID        int64
	CategoryID     int64
	Amount         float64
	AlertThreshold float64
	IsActive       bool
}

// BudgetUsage is the computed usage of a single budget. It is never
// persisted.
type BudgetUsage struct {
	CategoryName    string
	Period          BudgetPeriod
	BudgetID        int64
	CategoryID      int64
	BudgetAmount    float64
	UsedAmount      float64
	RemainingAmount float64
	UsagePercentage float64
	AlertThreshold  float64
	IsOverBudget    bool
}
