package models

import (
	"math/rand"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sampleProperties() []Property {
	return []Property{
		{
			ID: "p1", Title: "Studio", PropertyType: "Apartment", ListingType: ListingRent,
			Price: 100, Bedrooms: 1, Bathrooms: 1, AreaSqFt: 400,
			City: "Dubai", Location: "Downtown", Amenities: []string{"Pool"},
			Status: StatusLive,
		},
		{
			ID: "p2", Title: "Family Apartment", PropertyType: "Apartment", ListingType: ListingSale,
			Price: 500, Bedrooms: 2, Bathrooms: 2, AreaSqFt: 900,
			City: "Dubai", Location: "Marina Walk", Amenities: []string{"Pool", "Gym"},
			Featured: true, Status: StatusLive,
		},
		{
			ID: "p3", Title: "Villa", PropertyType: "Villa", ListingType: ListingSale,
			Price: 1000, Bedrooms: 3, Bathrooms: 3, AreaSqFt: 2500,
			City: "Abu Dhabi", Location: "Saadiyat", Amenities: []string{"Pool", "Gym", "Garden"},
			Status: StatusLive,
		},
	}
}

func resultIDs(props []Property) []string {
	ids := make([]string, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestEmptyFilterReturnsEverything(t *testing.T) {
	props := sampleProperties()
	got := PropertyFilter{}.Apply(props)
	assert.Equal(t, resultIDs(props), resultIDs(got))
}

func TestLimitZeroAndNegativeAreUnbounded(t *testing.T) {
	props := sampleProperties()

	assert.Len(t, PropertyFilter{Limit: 0}.Apply(props), 3)
	assert.Len(t, PropertyFilter{Limit: -1}.Apply(props), 3)
	assert.Equal(t, []string{"p1", "p2"}, resultIDs(PropertyFilter{Limit: 2}.Apply(props)))
}

func TestAmenitiesRequireAll(t *testing.T) {
	props := sampleProperties()

	got := PropertyFilter{Amenities: []string{"Pool", "Gym"}}.Apply(props)
	// p1 only has a pool; missing any one required amenity excludes it.
	assert.Equal(t, []string{"p2", "p3"}, resultIDs(got))
}

func TestBedroomsExactVersusBathroomsMinimum(t *testing.T) {
	props := sampleProperties()

	// Bedrooms is a membership test: the 3-bedroom villa is out.
	got := PropertyFilter{Bedrooms: []int{2}}.Apply(props)
	assert.Equal(t, []string{"p2"}, resultIDs(got))

	// Bathrooms is a floor: the 3-bathroom villa stays in.
	got = PropertyFilter{MinBathrooms: intPtr(2)}.Apply(props)
	assert.Equal(t, []string{"p2", "p3"}, resultIDs(got))
}

func TestLocationSubstringCaseInsensitive(t *testing.T) {
	props := sampleProperties()

	got := PropertyFilter{Location: "marina"}.Apply(props)
	assert.Equal(t, []string{"p2"}, resultIDs(got))

	// City is exact and case-sensitive.
	assert.Empty(t, PropertyFilter{City: "dubai"}.Apply(props))
	assert.Len(t, PropertyFilter{City: "Dubai"}.Apply(props), 2)
}

func TestPriceAndBedroomsScenario(t *testing.T) {
	props := sampleProperties()

	got := PropertyFilter{
		MinPrice: intPtr(200),
		MaxPrice: intPtr(1000),
		Bedrooms: []int{2, 3},
	}.Apply(props)
	assert.Equal(t, []string{"p2", "p3"}, resultIDs(got))
}

func TestInclusiveRangeBounds(t *testing.T) {
	props := sampleProperties()

	got := PropertyFilter{MinPrice: intPtr(100), MaxPrice: intPtr(100)}.Apply(props)
	assert.Equal(t, []string{"p1"}, resultIDs(got))

	got = PropertyFilter{MinArea: intPtr(900), MaxArea: intPtr(2500)}.Apply(props)
	assert.Equal(t, []string{"p2", "p3"}, resultIDs(got))
}

func TestApplyEqualsPerPropertyMatches(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	types := []string{"Apartment", "Villa", "Townhouse"}
	cities := []string{"Dubai", "Abu Dhabi", "Sharjah"}
	amenityPool := []string{"Pool", "Gym", "Garden", "Parking"}

	var props []Property
	for i := 0; i < 200; i++ {
		var amenities []string
		for _, a := range amenityPool {
			if rng.Intn(2) == 0 {
				amenities = append(amenities, a)
			}
		}
		props = append(props, Property{
			ID:           strconv.Itoa(i),
			PropertyType: types[rng.Intn(len(types))],
			ListingType:  []ListingType{ListingSale, ListingRent}[rng.Intn(2)],
			Price:        rng.Intn(2000),
			Bedrooms:     rng.Intn(5),
			Bathrooms:    rng.Intn(4),
			AreaSqFt:     rng.Intn(3000),
			City:         cities[rng.Intn(len(cities))],
			Amenities:    amenities,
			Featured:     rng.Intn(2) == 0,
		})
	}

	filters := []PropertyFilter{
		{},
		{ListingType: "Sale"},
		{City: "Dubai", MinPrice: intPtr(500)},
		{PropertyTypes: []string{"Villa", "Townhouse"}, MinBathrooms: intPtr(2)},
		{Bedrooms: []int{1, 3}, MaxPrice: intPtr(1500)},
		{Amenities: []string{"Pool", "Gym"}},
		{Featured: boolPtr(true), MinArea: intPtr(1000), MaxArea: intPtr(2500)},
	}

	for _, f := range filters {
		var want []string
		for _, p := range props {
			if f.Matches(p) {
				want = append(want, p.ID)
			}
		}
		got := resultIDs(f.Apply(props))
		if want == nil {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, want, got)
	}
}

func boolPtr(v bool) *bool { return &v }

func TestPropertyFilterFromQuery(t *testing.T) {
	query := url.Values{}
	query.Set("listingType", "Sale")
	query.Set("propertyType", "Apartment,Villa")
	query.Set("minPrice", "200")
	query.Set("maxPrice", "1000")
	query.Set("bedrooms", "2,3")
	query.Set("bathrooms", "2")
	query.Set("amenities", "Pool, Gym")
	query.Set("featured", "true")
	query.Set("limit", "5")

	f, err := PropertyFilterFromQuery(query)
	require.NoError(t, err)

	assert.Equal(t, "Sale", f.ListingType)
	assert.Equal(t, []string{"Apartment", "Villa"}, f.PropertyTypes)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 200, *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 1000, *f.MaxPrice)
	assert.Equal(t, []int{2, 3}, f.Bedrooms)
	require.NotNil(t, f.MinBathrooms)
	assert.Equal(t, 2, *f.MinBathrooms)
	assert.Equal(t, []string{"Pool", "Gym"}, f.Amenities)
	require.NotNil(t, f.Featured)
	assert.True(t, *f.Featured)
	assert.Equal(t, 5, f.Limit)
}

func TestPropertyFilterFromQueryRejectsMalformedValues(t *testing.T) {
	cases := map[string]url.Values{
		"non-numeric price": {"minPrice": {"cheap"}},
		"bad bedrooms":      {"bedrooms": {"two"}},
		"bad featured":      {"featured": {"yep"}},
		"bad limit":         {"limit": {"ten"}},
		"bad listing type":  {"listingType": {"Lease"}},
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PropertyFilterFromQuery(query)
			assert.Error(t, err)
		})
	}
}
