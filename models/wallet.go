package models

import (
	"time"
)

// Wallet holds credit balances, one per user. The running totals are the
// source of truth: balance equals totalCreditsEarned minus totalCreditsSpent
// after every ledger operation, and never goes negative.
type Wallet struct {
	ID                 string    `bson:"_id" json:"id"`
	UserID             string    `bson:"userId" json:"userId"`
	Balance            int       `bson:"balance" json:"balance"`
	TotalCreditsEarned int       `bson:"totalCreditsEarned" json:"totalCreditsEarned"`
	TotalCreditsSpent  int       `bson:"totalCreditsSpent" json:"totalCreditsSpent"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

type TransactionType string

const (
	TxCreditPurchase TransactionType = "credit_purchase"
	TxLeadUnlock     TransactionType = "lead_unlock"
)

// Transaction is an append-only ledger entry created atomically with any
// wallet balance mutation. Amount is signed: purchases positive, unlocks
// negative.
type Transaction struct {
	ID          string          `bson:"_id" json:"id"`
	WalletID    string          `bson:"walletId" json:"walletId"`
	UserID      string          `bson:"userId" json:"userId"`
	Type        TransactionType `bson:"type" json:"type"`
	Amount      int             `bson:"amount" json:"amount"`
	Description string          `bson:"description" json:"description"`
	ReferenceID string          `bson:"referenceId,omitempty" json:"referenceId,omitempty"`
	Status      string          `bson:"status" json:"status"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
}

type AddCreditsRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}
