package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/brickfolio/marketplace-backend/models"
	"github.com/brickfolio/marketplace-backend/storage"
	"github.com/brickfolio/marketplace-backend/utils"
)

func GetWallet(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestIdentity(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		wallet, err := store.GetWallet(r.Context(), userID)
		if err != nil {
			storeError(w, err, "fetch wallet")
			return
		}
		writeJSON(w, http.StatusOK, wallet)
	}
}

// AddCredits credits the wallet. There is no payment verification here;
// a gateway integration would sit in front of this handler and the ledger
// behind it would not change.
func AddCredits(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestIdentity(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		var req models.AddCreditsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Info("invalid add-credits payload", "err", err)
			http.Error(w, "Invalid amount", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			http.Error(w, "Invalid amount", http.StatusBadRequest)
			return
		}

		tx, wallet, err := store.AddCredits(r.Context(), userID, req.Amount, "Credit purchase")
		if err != nil {
			storeError(w, err, "add credits")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"transaction": tx,
			"wallet":      wallet,
		})
	}
}

func GetTransactions(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestIdentity(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		txs, err := store.ListTransactions(r.Context(), userID)
		if err != nil {
			storeError(w, err, "fetch transactions")
			return
		}
		if txs == nil {
			txs = []models.Transaction{}
		}
		writeJSON(w, http.StatusOK, txs)
	}
}
