package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brickfolio/marketplace-backend/models"
	"github.com/brickfolio/marketplace-backend/policy"
	"github.com/brickfolio/marketplace-backend/storage"
	"github.com/brickfolio/marketplace-backend/utils"
)

func CreateProperty(store storage.Store, cache *PropertyCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := requestIdentity(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}
		if !policy.CanCreateProperty(role) {
			slog.Info("role not permitted to create properties", "userID", userID, "role", role)
			http.Error(w, "Role not permitted to create properties", http.StatusForbidden)
			return
		}

		var req models.CreatePropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Info("invalid property payload", "err", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			slog.Info("property validation failed", "err", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		property := models.Property{
			Title:            req.Title,
			Description:      req.Description,
			PropertyType:     req.PropertyType,
			ListingType:      models.ListingType(req.ListingType),
			Price:            req.Price,
			Bedrooms:         req.Bedrooms,
			Bathrooms:        req.Bathrooms,
			AreaSqFt:         req.AreaSqFt,
			City:             req.City,
			Location:         req.Location,
			Subarea:          req.Subarea,
			Building:         req.Building,
			Images:           req.Images,
			Amenities:        req.Amenities,
			Featured:         req.Featured,
			CompletionStatus: models.CompletionStatus(req.CompletionStatus),
			Status:           models.StatusDraft,
		}
		policy.AssignOwnership(&property, userID, role)

		created, err := store.CreateProperty(r.Context(), property)
		if err != nil {
			storeError(w, err, "create property")
			return
		}

		go cache.Invalidate()

		writeJSON(w, http.StatusCreated, created)
	}
}

func GetAllProperties(store storage.Store, cache *PropertyCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if cached, hit := cache.Get(r.Context(), query); hit {
			w.Header().Set("Content-Type", "application/json")
			w.Write(cached)
			return
		}

		filter, err := models.PropertyFilterFromQuery(query)
		if err != nil {
			slog.Info("invalid property filter", "err", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		properties, err := store.GetAllProperties(r.Context(), filter)
		if err != nil {
			storeError(w, err, "fetch properties")
			return
		}

		payload, err := json.Marshal(properties)
		if err != nil {
			slog.Error("failed to serialize properties", "err", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}

		cache.Set(r.Context(), query, payload)

		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}
}

func GetPropertyByID(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		property, err := store.GetProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			storeError(w, err, "fetch property")
			return
		}
		writeJSON(w, http.StatusOK, property)
	}
}

func UpdateProperty(store storage.Store, cache *PropertyCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := requestIdentity(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		property, err := store.GetProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			storeError(w, err, "fetch property")
			return
		}
		if !policy.CanModifyProperty(userID, role, property) {
			slog.Info("unauthorized property update", "userID", userID, "propertyID", property.ID)
			http.Error(w, "Not permitted to modify this property", http.StatusForbidden)
			return
		}

		var req models.UpdatePropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Info("invalid update payload", "err", err)
			http.Error(w, "Invalid update data", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			slog.Info("update validation failed", "err", err)
			http.Error(w, "Invalid update data", http.StatusBadRequest)
			return
		}

		req.ApplyTo(&property)

		updated, err := store.UpdateProperty(r.Context(), property)
		if err != nil {
			storeError(w, err, "update property")
			return
		}

		go cache.Invalidate()

		writeJSON(w, http.StatusOK, updated)
	}
}

type statusChangeRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdatePropertyStatus moves a listing through its lifecycle. The review
// verdict is admin-only; see policy.CanTransitionStatus.
func UpdatePropertyStatus(store storage.Store, cache *PropertyCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := requestIdentity(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		property, err := store.GetProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			storeError(w, err, "fetch property")
			return
		}

		var req statusChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		target := models.PropertyStatus(req.Status)

		isHolder := policy.CanModifyProperty(userID, role, property)
		if !policy.CanTransitionStatus(role, isHolder, property.Status, target) {
			slog.Info("status transition refused",
				"userID", userID, "from", property.Status, "to", target)
			http.Error(w, "Status transition not permitted", http.StatusForbidden)
			return
		}

		property.Status = target
		updated, err := store.UpdateProperty(r.Context(), property)
		if err != nil {
			storeError(w, err, "update property status")
			return
		}

		go cache.Invalidate()

		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteProperty(store storage.Store, cache *PropertyCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, ok := requestIdentity(r)
		if !ok {
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		property, err := store.GetProperty(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			storeError(w, err, "fetch property")
			return
		}
		if !policy.CanModifyProperty(userID, role, property) {
			slog.Info("unauthorized property delete", "userID", userID, "propertyID", property.ID)
			http.Error(w, "Not permitted to delete this property", http.StatusForbidden)
			return
		}

		if err := store.DeleteProperty(r.Context(), property.ID); err != nil {
			storeError(w, err, "delete property")
			return
		}

		go cache.Invalidate()

		writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: "Property deleted successfully"})
	}
}
