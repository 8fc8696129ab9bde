// Package policy centralizes role and ownership checks so route handlers
// never compare role strings inline.
package policy

import (
	"github.com/brickfolio/marketplace-backend/models"
)

// CanCreateProperty reports whether the role may create listings.
func CanCreateProperty(role models.Role) bool {
	switch role {
	case models.RoleOwner, models.RoleAgent, models.RoleBuilder, models.RoleAdmin:
		return true
	}
	return false
}

// CanModifyProperty reports whether the user may update or delete the
// property: admins always, everyone else only if the property's single
// ownership reference points at them.
func CanModifyProperty(userID string, role models.Role, property models.Property) bool {
	if role == models.RoleAdmin {
		return true
	}
	switch role {
	case models.RoleOwner:
		return property.OwnerID == userID
	case models.RoleAgent:
		return property.AgentID == userID
	case models.RoleBuilder:
		return property.BuilderID == userID
	}
	return false
}

// AssignOwnership sets exactly one of the ownership references based on the
// creator's role.
func AssignOwnership(property *models.Property, userID string, role models.Role) {
	switch role {
	case models.RoleAgent:
		property.AgentID = userID
	case models.RoleBuilder:
		property.BuilderID = userID
	default:
		// Admin-created listings are held as owner listings.
		property.OwnerID = userID
	}
}

// CanTransitionStatus gates the listing lifecycle. The review verdict
// (live/rejected) is admin-only; the listing holder may submit drafts for
// review and mark live listings sold, rented or expired.
func CanTransitionStatus(role models.Role, isHolder bool, from, to models.PropertyStatus) bool {
	if role == models.RoleAdmin {
		return validTransition(from, to)
	}
	if !isHolder || !validTransition(from, to) {
		return false
	}
	switch to {
	case models.StatusUnderReview:
		return from == models.StatusDraft
	case models.StatusSold, models.StatusRented, models.StatusExpired:
		return from == models.StatusLive
	}
	return false
}

func validTransition(from, to models.PropertyStatus) bool {
	switch from {
	case models.StatusDraft:
		return to == models.StatusUnderReview
	case models.StatusUnderReview:
		return to == models.StatusLive || to == models.StatusRejected
	case models.StatusLive:
		return to == models.StatusSold || to == models.StatusRented || to == models.StatusExpired
	}
	return false
}
