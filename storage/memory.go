package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brickfolio/marketplace-backend/models"
)

// MemoryStore keeps everything in process memory behind a single mutex. It
// is safe for concurrent use; the unlock and credit operations run entirely
// under the write lock, so racing unlocks cannot double-spend.
type MemoryStore struct {
	mu sync.RWMutex

	users         map[string]models.User
	usersByEmail  map[string]string
	usersByPhone  map[string]string
	properties    map[string]models.Property
	propertyOrder []string
	leads         map[string]models.Lead
	leadOrder     []string
	wallets       map[string]models.Wallet // keyed by userID
	transactions  []models.Transaction
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]models.User),
		usersByEmail: make(map[string]string),
		usersByPhone: make(map[string]string),
		properties:   make(map[string]models.Property),
		leads:        make(map[string]models.Lead),
		wallets:      make(map[string]models.Wallet),
	}
}

// Users -----------------------------------------------------------------

func (s *MemoryStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usersByEmail[user.Email]; taken {
		return models.User{}, ErrDuplicate
	}
	if user.Phone != "" {
		if _, taken := s.usersByPhone[user.Phone]; taken {
			return models.User{}, ErrDuplicate
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()

	s.users[user.ID] = user
	s.usersByEmail[user.Email] = user.ID
	if user.Phone != "" {
		s.usersByPhone[user.Phone] = user.ID
	}
	return user, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.users[id], nil
}

func (s *MemoryStore) GetUserByPhone(_ context.Context, phone string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByPhone[phone]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.users[id], nil
}

// Properties ------------------------------------------------------------

func (s *MemoryStore) CreateProperty(_ context.Context, property models.Property) (models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if property.ID == "" {
		property.ID = uuid.NewString()
	}
	if _, exists := s.properties[property.ID]; exists {
		return models.Property{}, ErrDuplicate
	}

	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now

	s.properties[property.ID] = property
	s.propertyOrder = append(s.propertyOrder, property.ID)
	return property, nil
}

func (s *MemoryStore) GetProperty(_ context.Context, id string) (models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	property, ok := s.properties[id]
	if !ok {
		return models.Property{}, ErrNotFound
	}
	return property, nil
}

func (s *MemoryStore) GetAllProperties(_ context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Property, 0, len(s.propertyOrder))
	for _, id := range s.propertyOrder {
		all = append(all, s.properties[id])
	}
	return filter.Apply(all), nil
}

func (s *MemoryStore) UpdateProperty(_ context.Context, property models.Property) (models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.properties[property.ID]
	if !ok {
		return models.Property{}, ErrNotFound
	}
	property.CreatedAt = existing.CreatedAt
	property.UpdatedAt = time.Now().UTC()
	s.properties[property.ID] = property
	return property, nil
}

func (s *MemoryStore) DeleteProperty(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return ErrNotFound
	}
	delete(s.properties, id)
	for i, pid := range s.propertyOrder {
		if pid == id {
			s.propertyOrder = append(s.propertyOrder[:i], s.propertyOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Leads -----------------------------------------------------------------

func (s *MemoryStore) CreateLead(_ context.Context, lead models.Lead) (models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if _, exists := s.leads[lead.ID]; exists {
		return models.Lead{}, ErrDuplicate
	}

	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}

	s.leads[lead.ID] = lead
	s.leadOrder = append(s.leadOrder, lead.ID)
	return lead, nil
}

func (s *MemoryStore) GetLead(_ context.Context, id string) (models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, ok := s.leads[id]
	if !ok {
		return models.Lead{}, ErrNotFound
	}
	return lead, nil
}

func (s *MemoryStore) GetLeads(_ context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Lead, 0, len(s.leadOrder))
	for _, id := range s.leadOrder {
		if lead := s.leads[id]; filter.Matches(lead) {
			matched = append(matched, lead)
		}
	}
	return matched, nil
}

func (s *MemoryStore) UpdateLead(_ context.Context, lead models.Lead) (models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.leads[lead.ID]
	if !ok {
		return models.Lead{}, ErrNotFound
	}
	lead.CreatedAt = existing.CreatedAt
	lead.UpdatedAt = time.Now().UTC()
	s.leads[lead.ID] = lead
	return lead, nil
}

// Wallet / ledger -------------------------------------------------------

// walletLocked returns the user's wallet, creating an empty one on first
// access. Caller must hold the write lock.
func (s *MemoryStore) walletLocked(userID string) models.Wallet {
	wallet, ok := s.wallets[userID]
	if !ok {
		now := time.Now().UTC()
		wallet = models.Wallet{
			ID:        uuid.NewString(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.wallets[userID] = wallet
	}
	return wallet
}

func (s *MemoryStore) GetWallet(_ context.Context, userID string) (models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return models.Wallet{}, ErrNotFound
	}
	return s.walletLocked(userID), nil
}

func (s *MemoryStore) AddCredits(_ context.Context, userID string, amount int, description string) (models.Transaction, models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet := s.walletLocked(userID)
	wallet.Balance += amount
	wallet.TotalCreditsEarned += amount
	wallet.UpdatedAt = time.Now().UTC()
	s.wallets[userID] = wallet

	tx := models.Transaction{
		ID:          uuid.NewString(),
		WalletID:    wallet.ID,
		UserID:      userID,
		Type:        models.TxCreditPurchase,
		Amount:      amount,
		Description: description,
		Status:      "completed",
		CreatedAt:   time.Now().UTC(),
	}
	s.transactions = append(s.transactions, tx)
	return tx, wallet, nil
}

// UnlockLead debits the lead's credit cost from the user's wallet and marks
// the lead unlocked, as one step under the write lock. On any failure
// nothing is mutated.
func (s *MemoryStore) UnlockLead(_ context.Context, leadID, userID string) (models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[leadID]
	if !ok {
		return models.Lead{}, ErrNotFound
	}
	if lead.IsUnlocked {
		return models.Lead{}, ErrLeadAlreadyUnlocked
	}

	wallet := s.walletLocked(userID)
	if wallet.Balance < lead.CreditCost {
		return models.Lead{}, ErrInsufficientCredits
	}

	now := time.Now().UTC()
	wallet.Balance -= lead.CreditCost
	wallet.TotalCreditsSpent += lead.CreditCost
	wallet.UpdatedAt = now
	s.wallets[userID] = wallet

	lead.IsUnlocked = true
	lead.UnlockedAt = &now
	lead.UnlockedBy = userID
	lead.UpdatedAt = now
	s.leads[leadID] = lead

	s.transactions = append(s.transactions, models.Transaction{
		ID:          uuid.NewString(),
		WalletID:    wallet.ID,
		UserID:      userID,
		Type:        models.TxLeadUnlock,
		Amount:      -lead.CreditCost,
		Description: "Unlocked lead " + lead.CustomerName,
		ReferenceID: lead.ID,
		Status:      "completed",
		CreatedAt:   now,
	})
	return lead, nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, userID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}
