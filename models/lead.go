package models

import (
	"time"
)

type LeadType string

const (
	LeadTypeProperty LeadType = "property"
	LeadTypeService  LeadType = "service"
)

type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusViewed      LeadStatus = "viewed"
	LeadStatusAccepted    LeadStatus = "accepted"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusMeetingSet  LeadStatus = "meeting_fixed"
	LeadStatusWorkStarted LeadStatus = "work_started"
	LeadStatusCompleted   LeadStatus = "completed"
	LeadStatusClosed      LeadStatus = "closed"
	LeadStatusLost        LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusViewed, LeadStatusAccepted, LeadStatusContacted,
		LeadStatusMeetingSet, LeadStatusWorkStarted, LeadStatusCompleted,
		LeadStatusClosed, LeadStatusLost:
		return true
	}
	return false
}

// Lead is a customer inquiry routed to an assignee. Contact fields are
// hidden until the assignee pays CreditCost to unlock them; IsUnlocked only
// ever flips from false to true.
type Lead struct {
	ID                string     `bson:"_id" json:"id"`
	LeadType          LeadType   `bson:"leadType" json:"leadType"`
	CustomerName      string     `bson:"customerName" json:"customerName"`
	CustomerPhone     string     `bson:"customerPhone" json:"customerPhone,omitempty"`
	CustomerEmail     string     `bson:"customerEmail" json:"customerEmail,omitempty"`
	Requirement       string     `bson:"requirement" json:"requirement"`
	Budget            int        `bson:"budget" json:"budget"`
	PreferredLocation string     `bson:"preferredLocation" json:"preferredLocation"`
	PropertyID        string     `bson:"propertyId,omitempty" json:"propertyId,omitempty"`
	ServiceID         string     `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	AssignedTo        string     `bson:"assignedTo" json:"assignedTo"`
	Status            LeadStatus `bson:"status" json:"status"`
	CreditCost        int        `bson:"creditCost" json:"creditCost"`
	IsUnlocked        bool       `bson:"isUnlocked" json:"isUnlocked"`
	UnlockedAt        *time.Time `bson:"unlockedAt,omitempty" json:"unlockedAt,omitempty"`
	UnlockedBy        string     `bson:"unlockedBy,omitempty" json:"unlockedBy,omitempty"`
	CreatedAt         time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Redacted returns a copy safe to show before the lead is unlocked: the
// customer's direct contact details are blanked.
func (l Lead) Redacted() Lead {
	if l.IsUnlocked {
		return l
	}
	l.CustomerPhone = ""
	l.CustomerEmail = ""
	return l
}

type CreateLeadRequest struct {
	LeadType          string `json:"leadType" validate:"required,oneof=property service"`
	CustomerName      string `json:"customerName" validate:"required"`
	CustomerPhone     string `json:"customerPhone" validate:"required"`
	CustomerEmail     string `json:"customerEmail" validate:"omitempty,email"`
	Requirement       string `json:"requirement"`
	Budget            int    `json:"budget" validate:"gte=0"`
	PreferredLocation string `json:"preferredLocation"`
	PropertyID        string `json:"propertyId"`
	ServiceID         string `json:"serviceId"`
	AssignedTo        string `json:"assignedTo" validate:"required"`
	CreditCost        int    `json:"creditCost" validate:"gte=0"`
}

type UpdateLeadRequest struct {
	Status     *string `json:"status"`
	AssignedTo *string `json:"assignedTo"`
}

// LeadFilter narrows lead listings; non-admin callers are always scoped to
// their own assignments by the route layer.
type LeadFilter struct {
	AssignedTo string
	Status     string
	LeadType   string
}

func (f LeadFilter) Matches(l Lead) bool {
	if f.AssignedTo != "" && l.AssignedTo != f.AssignedTo {
		return false
	}
	if f.Status != "" && string(l.Status) != f.Status {
		return false
	}
	if f.LeadType != "" && string(l.LeadType) != f.LeadType {
		return false
	}
	return true
}
