package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brickfolio/marketplace-backend/models"
)

// MongoStore is the persistent Store implementation. Ledger atomicity is
// enforced with conditional single-document updates and a compensating
// refund, so a failed unlock never leaves a dangling debit.
type MongoStore struct {
	users        *mongo.Collection
	properties   *mongo.Collection
	leads        *mongo.Collection
	wallets      *mongo.Collection
	transactions *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		users:        db.Collection("users"),
		properties:   db.Collection("properties"),
		leads:        db.Collection("leads"),
		wallets:      db.Collection("wallets"),
		transactions: db.Collection("transactions"),
	}
}

// Users -----------------------------------------------------------------

func (s *MongoStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := s.users.FindOne(ctx, bson.M{"email": user.Email}).Err(); err == nil {
		return models.User{}, ErrDuplicate
	} else if err != mongo.ErrNoDocuments {
		return models.User{}, fmt.Errorf("checking email: %w", err)
	}
	if user.Phone != "" {
		if err := s.users.FindOne(ctx, bson.M{"phone": user.Phone}).Err(); err == nil {
			return models.User{}, ErrDuplicate
		} else if err != mongo.ErrNoDocuments {
			return models.User{}, fmt.Errorf("checking phone: %w", err)
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return user, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) GetUserByPhone(ctx context.Context, phone string) (models.User, error) {
	return s.findUser(ctx, bson.M{"phone": phone})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("finding user: %w", err)
	}
	return user, nil
}

// Properties ------------------------------------------------------------

func (s *MongoStore) CreateProperty(ctx context.Context, property models.Property) (models.Property, error) {
	if property.ID == "" {
		property.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now

	if _, err := s.properties.InsertOne(ctx, property); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Property{}, ErrDuplicate
		}
		return models.Property{}, fmt.Errorf("inserting property: %w", err)
	}
	return property, nil
}

func (s *MongoStore) GetProperty(ctx context.Context, id string) (models.Property, error) {
	var property models.Property
	err := s.properties.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return models.Property{}, ErrNotFound
	}
	if err != nil {
		return models.Property{}, fmt.Errorf("finding property: %w", err)
	}
	return property, nil
}

// propertyQuery translates a filter into a Mongo query with the same
// semantics as models.PropertyFilter.Matches.
func propertyQuery(f models.PropertyFilter) bson.M {
	var andConditions []bson.M

	eq := map[string]string{
		"listingType":      f.ListingType,
		"city":             f.City,
		"completionStatus": f.CompletionStatus,
		"ownerId":          f.OwnerID,
		"agentId":          f.AgentID,
		"builderId":        f.BuilderID,
		"status":           f.Status,
	}
	for field, value := range eq {
		if value != "" {
			andConditions = append(andConditions, bson.M{field: value})
		}
	}

	if f.Location != "" {
		pattern := primitive.Regex{Pattern: regexQuote(f.Location), Options: "i"}
		andConditions = append(andConditions, bson.M{"location": bson.M{"$regex": pattern}})
	}
	if len(f.PropertyTypes) > 0 {
		andConditions = append(andConditions, bson.M{"propertyType": bson.M{"$in": f.PropertyTypes}})
	}
	if len(f.Bedrooms) > 0 {
		andConditions = append(andConditions, bson.M{"bedrooms": bson.M{"$in": f.Bedrooms}})
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		rangeCond := bson.M{}
		if f.MinPrice != nil {
			rangeCond["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			rangeCond["$lte"] = *f.MaxPrice
		}
		andConditions = append(andConditions, bson.M{"price": rangeCond})
	}
	if f.MinBathrooms != nil {
		andConditions = append(andConditions, bson.M{"bathrooms": bson.M{"$gte": *f.MinBathrooms}})
	}
	if f.MinArea != nil || f.MaxArea != nil {
		rangeCond := bson.M{}
		if f.MinArea != nil {
			rangeCond["$gte"] = *f.MinArea
		}
		if f.MaxArea != nil {
			rangeCond["$lte"] = *f.MaxArea
		}
		andConditions = append(andConditions, bson.M{"areaSqFt": rangeCond})
	}
	if len(f.Amenities) > 0 {
		andConditions = append(andConditions, bson.M{"amenities": bson.M{"$all": f.Amenities}})
	}
	if f.Featured != nil {
		andConditions = append(andConditions, bson.M{"featured": *f.Featured})
	}

	query := bson.M{}
	if len(andConditions) > 0 {
		query["$and"] = andConditions
	}
	return query
}

func regexQuote(s string) string {
	special := `\.+*?()|[]{}^$`
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *MongoStore) GetAllProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
	}

	cursor, err := s.properties.Find(ctx, propertyQuery(filter), findOptions)
	if err != nil {
		return nil, fmt.Errorf("fetching properties: %w", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("decoding properties: %w", err)
	}
	return properties, nil
}

func (s *MongoStore) UpdateProperty(ctx context.Context, property models.Property) (models.Property, error) {
	property.UpdatedAt = time.Now().UTC()
	res, err := s.properties.ReplaceOne(ctx, bson.M{"_id": property.ID}, property)
	if err != nil {
		return models.Property{}, fmt.Errorf("updating property: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Property{}, ErrNotFound
	}
	return property, nil
}

func (s *MongoStore) DeleteProperty(ctx context.Context, id string) error {
	res, err := s.properties.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Leads -----------------------------------------------------------------

func (s *MongoStore) CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}

	if _, err := s.leads.InsertOne(ctx, lead); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Lead{}, ErrDuplicate
		}
		return models.Lead{}, fmt.Errorf("inserting lead: %w", err)
	}
	return lead, nil
}

func (s *MongoStore) GetLead(ctx context.Context, id string) (models.Lead, error) {
	var lead models.Lead
	err := s.leads.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err == mongo.ErrNoDocuments {
		return models.Lead{}, ErrNotFound
	}
	if err != nil {
		return models.Lead{}, fmt.Errorf("finding lead: %w", err)
	}
	return lead, nil
}

func (s *MongoStore) GetLeads(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	query := bson.M{}
	if filter.AssignedTo != "" {
		query["assignedTo"] = filter.AssignedTo
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.LeadType != "" {
		query["leadType"] = filter.LeadType
	}

	cursor, err := s.leads.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("fetching leads: %w", err)
	}
	defer cursor.Close(ctx)

	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("decoding leads: %w", err)
	}
	return leads, nil
}

func (s *MongoStore) UpdateLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	lead.UpdatedAt = time.Now().UTC()
	res, err := s.leads.ReplaceOne(ctx, bson.M{"_id": lead.ID}, lead)
	if err != nil {
		return models.Lead{}, fmt.Errorf("updating lead: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Lead{}, ErrNotFound
	}
	return lead, nil
}

// Wallet / ledger -------------------------------------------------------

func (s *MongoStore) GetWallet(ctx context.Context, userID string) (models.Wallet, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return models.Wallet{}, err
	}
	return s.ensureWallet(ctx, userID)
}

func (s *MongoStore) ensureWallet(ctx context.Context, userID string) (models.Wallet, error) {
	var wallet models.Wallet
	err := s.wallets.FindOne(ctx, bson.M{"userId": userID}).Decode(&wallet)
	if err == nil {
		return wallet, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Wallet{}, fmt.Errorf("finding wallet: %w", err)
	}

	now := time.Now().UTC()
	wallet = models.Wallet{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.wallets.InsertOne(ctx, wallet); err != nil {
		return models.Wallet{}, fmt.Errorf("creating wallet: %w", err)
	}
	return wallet, nil
}

func (s *MongoStore) AddCredits(ctx context.Context, userID string, amount int, description string) (models.Transaction, models.Wallet, error) {
	wallet, err := s.ensureWallet(ctx, userID)
	if err != nil {
		return models.Transaction{}, models.Wallet{}, err
	}

	now := time.Now().UTC()
	err = s.wallets.FindOneAndUpdate(ctx,
		bson.M{"_id": wallet.ID},
		bson.M{
			"$inc": bson.M{"balance": amount, "totalCreditsEarned": amount},
			"$set": bson.M{"updatedAt": now},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&wallet)
	if err != nil {
		return models.Transaction{}, models.Wallet{}, fmt.Errorf("crediting wallet: %w", err)
	}

	tx := models.Transaction{
		ID:          uuid.NewString(),
		WalletID:    wallet.ID,
		UserID:      userID,
		Type:        models.TxCreditPurchase,
		Amount:      amount,
		Description: description,
		Status:      "completed",
		CreatedAt:   now,
	}
	if _, err := s.transactions.InsertOne(ctx, tx); err != nil {
		return models.Transaction{}, models.Wallet{}, fmt.Errorf("recording transaction: %w", err)
	}
	return tx, wallet, nil
}

// UnlockLead debits the wallet with a balance-guarded conditional update,
// then flips the lead from locked to unlocked with a second conditional
// update. If the lead was won by a concurrent unlock in between, the debit
// is refunded.
func (s *MongoStore) UnlockLead(ctx context.Context, leadID, userID string) (models.Lead, error) {
	lead, err := s.GetLead(ctx, leadID)
	if err != nil {
		return models.Lead{}, err
	}
	if lead.IsUnlocked {
		return models.Lead{}, ErrLeadAlreadyUnlocked
	}

	wallet, err := s.ensureWallet(ctx, userID)
	if err != nil {
		return models.Lead{}, err
	}

	now := time.Now().UTC()
	debit, err := s.wallets.UpdateOne(ctx,
		bson.M{"_id": wallet.ID, "balance": bson.M{"$gte": lead.CreditCost}},
		bson.M{
			"$inc": bson.M{"balance": -lead.CreditCost, "totalCreditsSpent": lead.CreditCost},
			"$set": bson.M{"updatedAt": now},
		},
	)
	if err != nil {
		return models.Lead{}, fmt.Errorf("debiting wallet: %w", err)
	}
	if debit.MatchedCount == 0 {
		return models.Lead{}, ErrInsufficientCredits
	}

	res, err := s.leads.UpdateOne(ctx,
		bson.M{"_id": leadID, "isUnlocked": false},
		bson.M{"$set": bson.M{
			"isUnlocked": true,
			"unlockedAt": now,
			"unlockedBy": userID,
			"updatedAt":  now,
		}},
	)
	if err != nil || res.MatchedCount == 0 {
		// Lost the race (or the update failed): put the credits back.
		_, refundErr := s.wallets.UpdateOne(ctx,
			bson.M{"_id": wallet.ID},
			bson.M{"$inc": bson.M{"balance": lead.CreditCost, "totalCreditsSpent": -lead.CreditCost}},
		)
		if refundErr != nil {
			return models.Lead{}, fmt.Errorf("refunding failed unlock: %w", refundErr)
		}
		if err != nil {
			return models.Lead{}, fmt.Errorf("unlocking lead: %w", err)
		}
		return models.Lead{}, ErrLeadAlreadyUnlocked
	}

	tx := models.Transaction{
		ID:          uuid.NewString(),
		WalletID:    wallet.ID,
		UserID:      userID,
		Type:        models.TxLeadUnlock,
		Amount:      -lead.CreditCost,
		Description: "Unlocked lead " + lead.CustomerName,
		ReferenceID: lead.ID,
		Status:      "completed",
		CreatedAt:   now,
	}
	if _, err := s.transactions.InsertOne(ctx, tx); err != nil {
		return models.Lead{}, fmt.Errorf("recording transaction: %w", err)
	}

	return s.GetLead(ctx, leadID)
}

func (s *MongoStore) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	cursor, err := s.transactions.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}
	return txs, nil
}
