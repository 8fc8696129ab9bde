// Package storage defines the repository contract for the marketplace and
// its two implementations: an in-memory store for tests and demos and a
// MongoDB-backed store for production.
package storage

import (
	"context"
	"errors"

	"github.com/brickfolio/marketplace-backend/models"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicate           = errors.New("already exists")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrLeadAlreadyUnlocked = errors.New("lead already unlocked")
)

// Store is the repository the route layer talks to. Implementations must
// make UnlockLead and AddCredits atomic: either every effect of the
// operation applies or none does.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (models.User, error)

	// Properties
	CreateProperty(ctx context.Context, property models.Property) (models.Property, error)
	GetProperty(ctx context.Context, id string) (models.Property, error)
	GetAllProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
	UpdateProperty(ctx context.Context, property models.Property) (models.Property, error)
	DeleteProperty(ctx context.Context, id string) error

	// Leads
	CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error)
	GetLead(ctx context.Context, id string) (models.Lead, error)
	GetLeads(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error)
	UpdateLead(ctx context.Context, lead models.Lead) (models.Lead, error)

	// Wallet / ledger
	GetWallet(ctx context.Context, userID string) (models.Wallet, error)
	AddCredits(ctx context.Context, userID string, amount int, description string) (models.Transaction, models.Wallet, error)
	UnlockLead(ctx context.Context, leadID, userID string) (models.Lead, error)
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
}
