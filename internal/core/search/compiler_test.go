package search

import (
	"reflect"
	"testing"

	"property-service/internal/core/domain"

	"github.com/google/uuid"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }

func findConditions(p domain.CompiledPredicate, field string) []domain.Condition {
	var out []domain.Condition
	for _, c := range p.Conditions {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

func TestCompile_EmptyFiltersProduceEmptyPredicate(t *testing.T) {
	p := Compile(domain.SearchFilters{})
	if !p.IsEmpty() {
		t.Errorf("Compile(empty) = %+v, want empty predicate", p)
	}
}

func TestCompile_UnsetFieldsProduceNoConditions(t *testing.T) {
	// Only price is set; nothing else may appear in the tree.
	p := Compile(domain.SearchFilters{MinPrice: floatPtr(100000)})

	if len(p.OrGroups) != 0 {
		t.Errorf("unexpected OR groups: %+v", p.OrGroups)
	}
	if len(p.Conditions) != 1 {
		t.Fatalf("got %d conditions, want 1: %+v", len(p.Conditions), p.Conditions)
	}
	want := domain.Condition{Field: "price", Op: domain.OpGte, Value: 100000.0}
	if !reflect.DeepEqual(p.Conditions[0], want) {
		t.Errorf("condition = %+v, want %+v", p.Conditions[0], want)
	}
}

func TestCompile_Ranges(t *testing.T) {
	tests := []struct {
		name    string
		filters domain.SearchFilters
		field   string
		wantOps []string
	}{
		{
			name:    "both price bounds",
			filters: domain.SearchFilters{MinPrice: floatPtr(200000), MaxPrice: floatPtr(300000)},
			field:   "price",
			wantOps: []string{domain.OpGte, domain.OpLte},
		},
		{
			name:    "only min area",
			filters: domain.SearchFilters{MinArea: floatPtr(50)},
			field:   "area",
			wantOps: []string{domain.OpGte},
		},
		{
			name:    "only max area",
			filters: domain.SearchFilters{MaxArea: floatPtr(120)},
			field:   "area",
			wantOps: []string{domain.OpLte},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile(tt.filters)
			conds := findConditions(p, tt.field)
			if len(conds) != len(tt.wantOps) {
				t.Fatalf("got %d conditions for %q, want %d", len(conds), tt.field, len(tt.wantOps))
			}
			for i, op := range tt.wantOps {
				if conds[i].Op != op {
					t.Errorf("condition %d op = %q, want %q", i, conds[i].Op, op)
				}
			}
		})
	}
}

func TestCompile_PropertyTypeSingleAndSet(t *testing.T) {
	single := Compile(domain.SearchFilters{PropertyTypes: []string{"apartment"}})
	conds := findConditions(single, "property_type")
	if len(conds) != 1 || conds[0].Op != domain.OpEq || conds[0].Value != "apartment" {
		t.Errorf("single type conditions = %+v", conds)
	}

	set := Compile(domain.SearchFilters{PropertyTypes: []string{"apartment", "condo"}})
	conds = findConditions(set, "property_type")
	if len(conds) != 1 || conds[0].Op != domain.OpIn {
		t.Fatalf("set type conditions = %+v", conds)
	}
	if !reflect.DeepEqual(conds[0].Value, []string{"apartment", "condo"}) {
		t.Errorf("set value = %+v", conds[0].Value)
	}
}

func TestCompile_LocationIsOrGroup(t *testing.T) {
	p := Compile(domain.SearchFilters{Location: strPtr("Austin")})

	if len(p.OrGroups) != 1 {
		t.Fatalf("got %d OR groups, want 1", len(p.OrGroups))
	}
	group := p.OrGroups[0]
	wantFields := []string{"address", "city", "state"}
	if len(group.Conditions) != len(wantFields) {
		t.Fatalf("group has %d conditions, want %d", len(group.Conditions), len(wantFields))
	}
	for i, field := range wantFields {
		c := group.Conditions[i]
		if c.Field != field || c.Op != domain.OpContains || c.Value != "Austin" {
			t.Errorf("group condition %d = %+v", i, c)
		}
	}
}

func TestCompile_KeywordsNarrowAcrossGroups(t *testing.T) {
	// Keyword AND location: two independent OR-groups, both must hold.
	p := Compile(domain.SearchFilters{Location: strPtr("Austin"), Keywords: strPtr("pool")})

	if len(p.OrGroups) != 2 {
		t.Fatalf("got %d OR groups, want 2", len(p.OrGroups))
	}
	keywordGroup := p.OrGroups[1]
	if len(keywordGroup.Conditions) != 5 {
		t.Errorf("keyword group has %d conditions, want 5", len(keywordGroup.Conditions))
	}
	for _, c := range keywordGroup.Conditions {
		if c.Op != domain.OpContains || c.Value != "pool" {
			t.Errorf("keyword condition = %+v", c)
		}
	}
}

func TestCompile_Amenities(t *testing.T) {
	p := Compile(domain.SearchFilters{Amenities: []string{"pool", "garage", "bogus"}})

	pool := findConditions(p, "has_pool")
	garage := findConditions(p, "has_garage")
	if len(pool) != 1 || pool[0].Value != true {
		t.Errorf("has_pool conditions = %+v", pool)
	}
	if len(garage) != 1 || garage[0].Value != true {
		t.Errorf("has_garage conditions = %+v", garage)
	}
	// Unknown amenity names compile to nothing.
	if len(p.Conditions) != 2 {
		t.Errorf("got %d conditions, want 2: %+v", len(p.Conditions), p.Conditions)
	}
}

func TestCompile_RadiusBoundingBox(t *testing.T) {
	lat, lon, radius := 30.2672, -97.7431, 11.1
	p := Compile(domain.SearchFilters{Latitude: &lat, Longitude: &lon, RadiusKm: &radius})

	latConds := findConditions(p, "latitude")
	lonConds := findConditions(p, "longitude")
	if len(latConds) != 2 || len(lonConds) != 2 {
		t.Fatalf("lat conds %d, lon conds %d, want 2 and 2", len(latConds), len(lonConds))
	}

	// 11.1 km ≈ 0.1 degree of latitude.
	latMin := latConds[0].Value.(float64)
	latMax := latConds[1].Value.(float64)
	if latMax-latMin < 0.19 || latMax-latMin > 0.21 {
		t.Errorf("latitude box height = %f, want ≈0.2", latMax-latMin)
	}
	// The longitude box must be wider than the latitude box off the equator.
	lonMin := lonConds[0].Value.(float64)
	lonMax := lonConds[1].Value.(float64)
	if lonMax-lonMin <= latMax-latMin {
		t.Errorf("longitude box width %f not wider than latitude box %f", lonMax-lonMin, latMax-latMin)
	}
}

func TestCompile_OwnerAndFlagFilters(t *testing.T) {
	owner := uuid.New()
	p := Compile(domain.SearchFilters{
		OwnerID:    &owner,
		IsActive:   boolPtr(true),
		IsFeatured: boolPtr(false),
	})

	if c := findConditions(p, "owner_id"); len(c) != 1 || c[0].Value != owner {
		t.Errorf("owner_id conditions = %+v", c)
	}
	if c := findConditions(p, "is_active"); len(c) != 1 || c[0].Value != true {
		t.Errorf("is_active conditions = %+v", c)
	}
	// IsFeatured=false is a real constraint, not an unset field.
	if c := findConditions(p, "is_featured"); len(c) != 1 || c[0].Value != false {
		t.Errorf("is_featured conditions = %+v", c)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	filters := domain.SearchFilters{
		PropertyTypes: []string{"apartment", "house"},
		ListingType:   strPtr("sale"),
		MinPrice:      floatPtr(100000),
		MaxPrice:      floatPtr(500000),
		Bedrooms:      intPtr(3),
		Location:      strPtr("Austin"),
		Keywords:      strPtr("garden view"),
		Amenities:     []string{"pool"},
	}

	first := Compile(filters)
	second := Compile(filters)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compile is not deterministic:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestCompile_MonotonicNarrowing(t *testing.T) {
	// Adding a field may only add conditions, never remove or alter existing
	// ones: the structural form of "omitting a field matches a superset".
	base := domain.SearchFilters{MinPrice: floatPtr(200000), MaxPrice: floatPtr(300000)}
	narrowed := base
	narrowed.Bedrooms = intPtr(2)

	pBase := Compile(base)
	pNarrowed := Compile(narrowed)

	if len(pNarrowed.Conditions) != len(pBase.Conditions)+1 {
		t.Fatalf("narrowed has %d conditions, base has %d", len(pNarrowed.Conditions), len(pBase.Conditions))
	}
	for _, c := range pBase.Conditions {
		found := false
		for _, n := range pNarrowed.Conditions {
			if reflect.DeepEqual(c, n) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("base condition %+v missing from narrowed predicate", c)
		}
	}
}
