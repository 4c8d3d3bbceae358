package model

import "time"

// TransactionKind classifies a transaction posting.
type TransactionKind string

const (
	// TransactionKindIncome represents money received.
	TransactionKindIncome TransactionKind = "income"
	// TransactionKindExpense represents money spent.
	TransactionKindExpense TransactionKind = "expense"
	// TransactionKindTransfer represents a move between own accounts.
	TransactionKindTransfer TransactionKind = "transfer"
	// TransactionKindLoanIn represents borrowed money received.
	TransactionKindLoanIn TransactionKind = "loan_in"
	// TransactionKindLoanOut represents money lent out.
	TransactionKindLoanOut TransactionKind = "loan_out"
	// TransactionKindRepayment represents a loan repayment.
	TransactionKindRepayment TransactionKind = "repayment"
)

// Transaction is a single financial posting against a category. The engine
// only ever reads transactions; ingestion belongs to external collaborators.
type Transaction struct {
	Date        time.Time
	CreatedAt   time.Time
	Description string
	Kind        TransactionKind
	ID          int64
	OwnerID     int64
	CategoryID  int64
	Amount      float64
	IsActive    bool
}
