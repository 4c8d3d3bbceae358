// Package storage provides the SQLite persistence layer for categories,
// budgets, transactions, and system configuration.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/colafan/alfred/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidID          = errors.New("id must be positive")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidBudget      = errors.New("invalid budget")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures an id parameter is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateCategory validates a category before persisting.
func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	if category.OwnerID <= 0 {
		return fmt.Errorf("%w: missing owner", ErrInvalidCategory)
	}
	switch category.Kind {
	case model.CategoryKindExpense, model.CategoryKindIncome:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidCategory, category.Kind)
	}
	if category.IsSystem && category.ConfigID == nil {
		return fmt.Errorf("%w: system category without config id", ErrInvalidCategory)
	}
	// A custom row carrying a config id is a corruption state the sync
	// engine repairs; the store must be able to round-trip it.
	return nil
}

// validateBudget validates a budget before persisting.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if budget.OwnerID <= 0 {
		return fmt.Errorf("%w: missing owner", ErrInvalidBudget)
	}
	if budget.CategoryID <= 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidBudget)
	}
	if budget.Amount < 0 {
		return fmt.Errorf("%w: negative amount", ErrInvalidBudget)
	}
	if budget.AlertThreshold < 0 || budget.AlertThreshold > 100 {
		return fmt.Errorf("%w: alert threshold must be between 0 and 100", ErrInvalidBudget)
	}
	if budget.StartDate.IsZero() {
		return fmt.Errorf("%w: missing start date", ErrInvalidBudget)
	}
	if budget.EndDate != nil && budget.EndDate.Before(budget.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidBudget)
	}
	return nil
}

// validateTransaction validates a transaction before persisting.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.OwnerID <= 0 {
		return fmt.Errorf("%w: missing owner", ErrInvalidTransaction)
	}
	if txn.CategoryID <= 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	switch txn.Kind {
	case model.TransactionKindIncome, model.TransactionKindExpense,
		model.TransactionKindTransfer, model.TransactionKindLoanIn,
		model.TransactionKindLoanOut, model.TransactionKindRepayment:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, txn.Kind)
	}
	return nil
}
