package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/colafan/alfred/internal/common"
	"github.com/colafan/alfred/internal/model"
	"github.com/colafan/alfred/internal/service"
)

// Budgets manages per-category spending caps and computes their usage.
type Budgets struct {
	store service.Storage
}

// NewBudgets creates a new budget service.
func NewBudgets(store service.Storage) *Budgets {
	return &Budgets{store: store}
}

// BudgetParams carries the mutable fields of a budget.
type BudgetParams struct {
	StartDate      time.Time
	EndDate        *time.Time
	Period         model.BudgetPeriod
	CategoryID     int64
	Amount         float64
	AlertThreshold float64
}

// List returns the user's active budgets, newest first.
func (b *Budgets) List(ctx context.Context, ownerID int64) ([]model.Budget, error) {
	return b.store.ListBudgets(ctx, ownerID)
}

// Get returns a single budget visible to the caller.
func (b *Budgets) Get(ctx context.Context, ownerID, budgetID int64) (*model.Budget, error) {
	budget, err := b.store.GetBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}
	if budget == nil || !budget.IsActive {
		return nil, common.NotFoundError("budget")
	}
	if budget.OwnerID != ownerID {
		return nil, common.ForbiddenError("budget belongs to another user")
	}
	return budget, nil
}

// Create adds a budget for a category. At most one active budget may exist
// per (owner, category) pair.
func (b *Budgets) Create(ctx context.Context, ownerID int64, params BudgetParams) (*model.Budget, error) {
	existing, err := b.store.GetActiveBudgetByCategory(ctx, ownerID, params.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing budget: %w", err)
	}
	if existing != nil {
		return nil, common.ConflictError("category already has a budget")
	}

	created, err := b.store.SaveBudget(ctx, &model.Budget{
		OwnerID:        ownerID,
		CategoryID:     params.CategoryID,
		Amount:         params.Amount,
		Period:         params.Period,
		AlertThreshold: params.AlertThreshold,
		StartDate:      params.StartDate,
		EndDate:        params.EndDate,
		IsActive:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	slog.Info("created budget", "owner", ownerID, "id", created.ID, "category", created.CategoryID)
	return created, nil
}

// Update changes a budget's cap, period, threshold, or date range in place.
func (b *Budgets) Update(ctx context.Context, ownerID, budgetID int64, params BudgetParams) (*model.Budget, error) {
	budget, err := b.Get(ctx, ownerID, budgetID)
	if err != nil {
		return nil, err
	}

	budget.Amount = params.Amount
	budget.Period = params.Period
	budget.AlertThreshold = params.AlertThreshold
	budget.StartDate = params.StartDate
	budget.EndDate = params.EndDate

	saved, err := b.store.SaveBudget(ctx, budget)
	if err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return saved, nil
}

// Delete soft-deletes a budget. Inactive rows for the same (owner, category)
// pair are purged first so a future budget for the pair can be inserted
// without colliding with the unique active-pair index.
func (b *Budgets) Delete(ctx context.Context, ownerID, budgetID int64) error {
	budget, err := b.Get(ctx, ownerID, budgetID)
	if err != nil {
		return err
	}

	all, err := b.store.GetBudgetsByCategory(ctx, ownerID, budget.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to list budgets for category: %w", err)
	}
	for _, other := range all {
		if other.IsActive {
			continue
		}
		if err := b.store.DeleteBudget(ctx, other.ID); err != nil {
			return fmt.Errorf("failed to purge inactive budget %d: %w", other.ID, err)
		}
		slog.Debug("purged inactive budget", "owner", ownerID, "id", other.ID)
	}

	budget.IsActive = false
	if _, err := b.store.SaveBudget(ctx, budget); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	slog.Info("deleted budget", "owner", ownerID, "id", budget.ID)
	return nil
}

// Usage computes used/remaining amounts and over-budget flags for every
// active budget of the user. A budget whose category has been deleted still
// gets a usage record, with an empty category name.
func (b *Budgets) Usage(ctx context.Context, ownerID int64) ([]model.BudgetUsage, error) {
	budgets, err := b.store.ListBudgets(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	usage := make([]model.BudgetUsage, 0, len(budgets))
	for i := range budgets {
		record, usageErr := b.computeUsage(ctx, ownerID, &budgets[i])
		if usageErr != nil {
			return nil, usageErr
		}
		usage = append(usage, *record)
	}
	return usage, nil
}

func (b *Budgets) computeUsage(ctx context.Context, ownerID int64, budget *model.Budget) (*model.BudgetUsage, error) {
	var categoryName string
	cat, err := b.store.GetCategoryByID(ctx, budget.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category for budget %d: %w", budget.ID, err)
	}
	if cat != nil {
		categoryName = cat.Name
	}

	// Closed-range budgets select every transaction kind in the window;
	// open-ended budgets pre-filter to expenses. The expense-only sum below
	// makes both paths agree, but the selection asymmetry is longstanding
	// observed behavior and is kept as is.
	var transactions []model.Transaction
	if budget.EndDate != nil {
		transactions, err = b.store.GetTransactionsByCategoryAndDateRange(ctx, ownerID, budget.CategoryID, budget.StartDate, *budget.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions for budget %d: %w", budget.ID, err)
		}
	} else {
		all, txnErr := b.store.GetTransactionsByCategory(ctx, ownerID, budget.CategoryID)
		if txnErr != nil {
			return nil, fmt.Errorf("failed to load transactions for budget %d: %w", budget.ID, txnErr)
		}
		for _, txn := range all {
			if txn.Kind == model.TransactionKindExpense {
				transactions = append(transactions, txn)
			}
		}
	}

	var used float64
	for _, txn := range transactions {
		if txn.Kind == model.TransactionKindExpense {
			used += txn.Amount
		}
	}

	return &model.BudgetUsage{
		BudgetID:        budget.ID,
		CategoryID:      budget.CategoryID,
		CategoryName:    categoryName,
		BudgetAmount:    budget.Amount,
		UsedAmount:      used,
		RemainingAmount: budget.Amount - used,
		UsagePercentage: usagePercentage(used, budget.Amount),
		IsOverBudget:    used > budget.Amount,
		Period:          budget.Period,
		AlertThreshold:  budget.AlertThreshold,
	}, nil
}

// usagePercentage returns used/amount as a percentage rounded half-up to two
// decimal places, and 0 for a zero budget.
func usagePercentage(used, amount float64) float64 {
	if amount == 0 {
		return 0
	}
	return math.Round(used/amount*10000) / 100
}
