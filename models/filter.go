package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PropertyFilter is built per-request from query-string parameters. Every
// field is optional; supplied fields combine as a logical AND.
type PropertyFilter struct {
	ListingType      string
	PropertyTypes    []string
	City             string
	Location         string
	MinPrice         *int
	MaxPrice         *int
	Bedrooms         []int
	MinBathrooms     *int
	MinArea          *int
	MaxArea          *int
	Amenities        []string
	Featured         *bool
	CompletionStatus string
	OwnerID          string
	AgentID          string
	BuilderID        string
	Status           string
	Limit            int
}

// PropertyFilterFromQuery parses and validates query parameters into a
// filter. Unknown parameters are ignored; malformed values are rejected
// before the filter ever reaches the engine.
func PropertyFilterFromQuery(query url.Values) (PropertyFilter, error) {
	var f PropertyFilter

	stringFields := map[string]*string{
		"listingType":      &f.ListingType,
		"city":             &f.City,
		"location":         &f.Location,
		"completionStatus": &f.CompletionStatus,
		"ownerId":          &f.OwnerID,
		"agentId":          &f.AgentID,
		"builderId":        &f.BuilderID,
		"status":           &f.Status,
	}
	intFields := map[string]**int{
		"minPrice":  &f.MinPrice,
		"maxPrice":  &f.MaxPrice,
		"bathrooms": &f.MinBathrooms,
		"minArea":   &f.MinArea,
		"maxArea":   &f.MaxArea,
	}

	for key, dst := range stringFields {
		if v := strings.TrimSpace(query.Get(key)); v != "" {
			*dst = v
		}
	}
	if f.ListingType != "" && f.ListingType != string(ListingSale) && f.ListingType != string(ListingRent) {
		return PropertyFilter{}, fmt.Errorf("invalid listingType %q", f.ListingType)
	}

	for key, dst := range intFields {
		v := strings.TrimSpace(query.Get(key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return PropertyFilter{}, fmt.Errorf("invalid numeric value for %s: %q", key, v)
		}
		val := n
		*dst = &val
	}

	f.PropertyTypes = splitList(query.Get("propertyType"))
	f.Amenities = splitList(query.Get("amenities"))

	for _, raw := range splitList(query.Get("bedrooms")) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return PropertyFilter{}, fmt.Errorf("invalid bedrooms value: %q", raw)
		}
		f.Bedrooms = append(f.Bedrooms, n)
	}

	if v := strings.TrimSpace(query.Get("featured")); v != "" {
		b, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return PropertyFilter{}, fmt.Errorf("invalid boolean value for featured: %q", v)
		}
		f.Featured = &b
	}

	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return PropertyFilter{}, fmt.Errorf("invalid limit: %q", v)
		}
		f.Limit = n
	}

	return f, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Matches reports whether the property satisfies every supplied predicate.
// Assumes well-typed input; validation happens in PropertyFilterFromQuery.
func (f PropertyFilter) Matches(p Property) bool {
	if f.ListingType != "" && string(p.ListingType) != f.ListingType {
		return false
	}
	if f.City != "" && p.City != f.City {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	if len(f.PropertyTypes) > 0 && !containsString(f.PropertyTypes, p.PropertyType) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if len(f.Bedrooms) > 0 && !containsInt(f.Bedrooms, p.Bedrooms) {
		return false
	}
	// Bathrooms is a floor, not an exact count. Asymmetric with bedrooms on
	// purpose: a 3-bathroom home satisfies a 2-bathroom requirement.
	if f.MinBathrooms != nil && p.Bathrooms < *f.MinBathrooms {
		return false
	}
	if f.MinArea != nil && p.AreaSqFt < *f.MinArea {
		return false
	}
	if f.MaxArea != nil && p.AreaSqFt > *f.MaxArea {
		return false
	}
	for _, amenity := range f.Amenities {
		if !containsString(p.Amenities, amenity) {
			return false
		}
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.CompletionStatus != "" && string(p.CompletionStatus) != f.CompletionStatus {
		return false
	}
	if f.OwnerID != "" && p.OwnerID != f.OwnerID {
		return false
	}
	if f.AgentID != "" && p.AgentID != f.AgentID {
		return false
	}
	if f.BuilderID != "" && p.BuilderID != f.BuilderID {
		return false
	}
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	return true
}

// Apply returns the properties matching the filter, preserving input order.
// A limit of zero or below leaves the result unbounded.
func (f PropertyFilter) Apply(properties []Property) []Property {
	matched := make([]Property, 0, len(properties))
	for _, p := range properties {
		if f.Matches(p) {
			matched = append(matched, p)
		}
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
