package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brickfolio/marketplace-backend/models"
	"github.com/brickfolio/marketplace-backend/storage"
	"github.com/brickfolio/marketplace-backend/utils"
)

// CreateLead records a customer inquiry and routes it to an assignee.
// Contact details stay hidden from the assignee until unlocked.
func CreateLead(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateLeadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Info("invalid lead payload", "err", err)
			http.Error(w, "Invalid request data", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			slog.Info("lead validation failed", "err", err)
			http.Error(w, "Invalid request data", http.StatusBadRequest)
			return
		}

		lead, err := store.CreateLead(r.Context(), models.Lead{
			LeadType:          models.LeadType(req.LeadType),
			CustomerName:      req.CustomerName,
			CustomerPhone:     req.CustomerPhone,
			CustomerEmail:     req.CustomerEmail,
			Requirement:       req.Requirement,
			Budget:            req.Budget,
			PreferredLocation: req.PreferredLocation,
			PropertyID:        req.PropertyID,
			ServiceID:         req.ServiceID,
			AssignedTo:        req.AssignedTo,
			Status:            models.LeadStatusNew,
			CreditCost:        req.CreditCost,
		})
		if err != nil {
			storeError(w, err, "create lead")
			return
		}

		writeJSON(w, http.StatusCreated, models.APIResponse{
			Success: true,
			Message: "Lead created",
			Data:    lead.Redacted(),
		})
	}
}

// GetLeads lists leads. Admins see everything and may filter by any
// assignee; everyone else is scoped to their own assignments. Locked leads
// come back redacted.
func GetLeads(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := requestIdentity(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		query := r.URL.Query()
		filter := models.LeadFilter{
			Status:   query.Get("status"),
			LeadType: query.Get("leadType"),
		}
		if role == models.RoleAdmin {
			filter.AssignedTo = query.Get("assignedTo")
		} else {
			filter.AssignedTo = userID
		}
		if filter.Status != "" && !models.LeadStatus(filter.Status).Valid() {
			http.Error(w, "Invalid status filter", http.StatusBadRequest)
			return
		}

		leads, err := store.GetLeads(r.Context(), filter)
		if err != nil {
			storeError(w, err, "fetch leads")
			return
		}

		redacted := make([]models.Lead, 0, len(leads))
		for _, lead := range leads {
			redacted = append(redacted, lead.Redacted())
		}
		writeJSON(w, http.StatusOK, redacted)
	}
}

// UnlockLead pays the lead's credit cost out of the caller's wallet and
// reveals the contact fields. Insufficient balance and repeat unlocks both
// fail with 400 and leave wallet and lead untouched.
func UnlockLead(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestIdentity(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		lead, err := store.UnlockLead(r.Context(), mux.Vars(r)["id"], userID)
		if err != nil {
			slog.Info("unlock refused", "leadID", mux.Vars(r)["id"], "userID", userID, "err", err)
			storeError(w, err, "unlock lead")
			return
		}

		writeJSON(w, http.StatusOK, lead)
	}
}

func UpdateLead(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := requestIdentity(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		lead, err := store.GetLead(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			storeError(w, err, "fetch lead")
			return
		}
		if role != models.RoleAdmin && lead.AssignedTo != userID {
			slog.Info("unauthorized lead update", "userID", userID, "leadID", lead.ID)
			http.Error(w, "Not permitted to modify this lead", http.StatusForbidden)
			return
		}

		var req models.UpdateLeadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request data", http.StatusBadRequest)
			return
		}

		if req.Status != nil {
			status := models.LeadStatus(*req.Status)
			if !status.Valid() {
				http.Error(w, "Invalid lead status", http.StatusBadRequest)
				return
			}
			lead.Status = status
		}
		if req.AssignedTo != nil {
			if role != models.RoleAdmin {
				http.Error(w, "Only admins may reassign leads", http.StatusForbidden)
				return
			}
			lead.AssignedTo = *req.AssignedTo
		}

		updated, err := store.UpdateLead(r.Context(), lead)
		if err != nil {
			storeError(w, err, "update lead")
			return
		}

		writeJSON(w, http.StatusOK, updated.Redacted())
	}
}
