package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brickfolio/marketplace-backend/models"
)

func TestCanCreateProperty(t *testing.T) {
	assert.True(t, CanCreateProperty(models.RoleOwner))
	assert.True(t, CanCreateProperty(models.RoleAgent))
	assert.True(t, CanCreateProperty(models.RoleBuilder))
	assert.True(t, CanCreateProperty(models.RoleAdmin))
	assert.False(t, CanCreateProperty(models.RoleCustomer))
	assert.False(t, CanCreateProperty(models.Role("")))
}

func TestCanModifyProperty(t *testing.T) {
	agentListing := models.Property{AgentID: "agent-1"}
	ownerListing := models.Property{OwnerID: "owner-1"}

	assert.True(t, CanModifyProperty("agent-1", models.RoleAgent, agentListing))
	assert.False(t, CanModifyProperty("agent-2", models.RoleAgent, agentListing))
	// Role must match the ownership slot, not just the ID.
	assert.False(t, CanModifyProperty("agent-1", models.RoleOwner, agentListing))
	assert.True(t, CanModifyProperty("owner-1", models.RoleOwner, ownerListing))
	assert.True(t, CanModifyProperty("anyone", models.RoleAdmin, agentListing))
	assert.False(t, CanModifyProperty("owner-1", models.RoleCustomer, ownerListing))
}

func TestAssignOwnershipIsMutuallyExclusive(t *testing.T) {
	cases := []struct {
		role  models.Role
		check func(models.Property) bool
	}{
		{models.RoleOwner, func(p models.Property) bool { return p.OwnerID == "u" && p.AgentID == "" && p.BuilderID == "" }},
		{models.RoleAgent, func(p models.Property) bool { return p.AgentID == "u" && p.OwnerID == "" && p.BuilderID == "" }},
		{models.RoleBuilder, func(p models.Property) bool { return p.BuilderID == "u" && p.OwnerID == "" && p.AgentID == "" }},
	}
	for _, tc := range cases {
		var p models.Property
		AssignOwnership(&p, "u", tc.role)
		assert.True(t, tc.check(p), "role %s", tc.role)
	}
}

func TestCanTransitionStatus(t *testing.T) {
	// Review verdicts are admin-gated.
	assert.True(t, CanTransitionStatus(models.RoleAdmin, false, models.StatusUnderReview, models.StatusLive))
	assert.True(t, CanTransitionStatus(models.RoleAdmin, false, models.StatusUnderReview, models.StatusRejected))
	assert.False(t, CanTransitionStatus(models.RoleAgent, true, models.StatusUnderReview, models.StatusLive))

	// Holders may submit drafts and close out live listings.
	assert.True(t, CanTransitionStatus(models.RoleAgent, true, models.StatusDraft, models.StatusUnderReview))
	assert.True(t, CanTransitionStatus(models.RoleOwner, true, models.StatusLive, models.StatusSold))
	assert.True(t, CanTransitionStatus(models.RoleOwner, true, models.StatusLive, models.StatusRented))
	assert.False(t, CanTransitionStatus(models.RoleAgent, false, models.StatusDraft, models.StatusUnderReview))

	// Skipping review is not a valid transition for anyone.
	assert.False(t, CanTransitionStatus(models.RoleAdmin, true, models.StatusDraft, models.StatusLive))
	assert.False(t, CanTransitionStatus(models.RoleAgent, true, models.StatusRejected, models.StatusLive))
}
