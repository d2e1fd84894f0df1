package domain

import "time"

// FeeItem is one payable entry of the fee catalog. Items are defined at
// deploy time and never change within a deployment. Amount is a whole-naira
// value; conversion to gateway subunits happens at initiation.
type FeeItem struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Required    bool      `json:"required"`
}

// DerivedStatus is a pure view over a member's ledger: never persisted,
// recomputed on demand.
type DerivedStatus struct {
	TotalPaid      int64
	CompletedItems []FeeItem
	PendingItems   []FeeItem
}

// Dashboard is the read model handed to the UI. Transactions are sorted
// newest-first. Notice carries a user-visible message when the transaction
// history could not be loaded (the totals then reflect an empty ledger).
type Dashboard struct {
	TotalPaid         int64               `json:"total_paid"`
	CompletedPayments []FeeItem           `json:"completed_payments"`
	PendingPayments   []FeeItem           `json:"pending_payments"`
	Transactions      []TransactionRecord `json:"transactions"`
	Notice            string              `json:"notice,omitempty"`
}
