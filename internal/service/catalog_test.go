package service

import (
	"context"
	"testing"
)

func TestListReturnsActiveOnly(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog([]Service{
		{ID: "1", NameEN: "Carpenter", Category: "carpenter", IsActive: true},
		{ID: "2", NameEN: "Retired", Category: "legacy", IsActive: false},
		{ID: "3", NameEN: "Plumber", Category: "plumber", IsActive: true},
	})

	got, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d services, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("List order = %s, %s; want 1, 3", got[0].ID, got[1].ID)
	}
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(nil)

	s, err := c.GetByID(ctx, "3")
	if err != nil {
		t.Fatal(err)
	}
	if s.NameEN != "Plumber" || s.BasePrice != 199 {
		t.Errorf("got %+v", s)
	}

	if _, err := c.GetByID(ctx, "999"); err != ErrServiceNotFound {
		t.Errorf("err = %v, want ErrServiceNotFound", err)
	}
}

func TestByCategory(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(nil)

	got, err := c.ByCategory(ctx, "appliance_repair")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].NameEN != "AC Technician" {
		t.Errorf("got %v", got)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(nil)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"by english name case-insensitive", "CARPENTER", []string{"1"}},
		{"by hindi name", "माली", []string{"9"}},
		{"by description substring", "leakage", []string{"3"}},
		{"by category", "pest", []string{"8"}},
		{"no match", "helicopter", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Search(ctx, tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Search(%q) returned %d services, want %d", tt.query, len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("result[%d].ID = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog([]Service{
		{ID: "1", Category: "plumber", IsActive: true},
		{ID: "2", Category: "plumber", IsActive: true},
		{ID: "3", Category: "inactive_cat", IsActive: false},
		{ID: "4", Category: "unknown_cat", IsActive: true},
	})

	got, err := c.Categories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Categories returned %d, want 2", len(got))
	}
	if got[0].ID != "plumber" || got[0].NameEN != "Plumbing" || got[0].Icon != "fas fa-wrench" {
		t.Errorf("plumber category = %+v", got[0])
	}
	// Unknown categories fall back to raw ID and generic icon.
	if got[1].NameEN != "unknown_cat" || got[1].Icon != "fas fa-cog" {
		t.Errorf("unknown category = %+v", got[1])
	}
}

func TestCatalogInterfaceExposesFullReadModel(t *testing.T) {
	var catalog Catalog = NewCatalog(nil)
	ctx := context.Background()

	// Handlers hold the interface type, so every read the API performs
	// must be reachable through it, not just through *InMemoryCatalog.
	if _, err := catalog.Emergency(ctx); err != nil {
		t.Fatalf("Emergency via interface: %v", err)
	}
	if got := catalog.EstimatePrice(ctx, "1", 0); got == 0 {
		t.Error("EstimatePrice via interface returned 0 for a seeded service")
	}
}

func TestEmergency(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(nil)

	got, err := c.Emergency(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"electrician": true, "plumber": true, "security": true}
	if len(got) != 3 {
		t.Fatalf("Emergency returned %d services, want 3", len(got))
	}
	for _, s := range got {
		if !want[s.Category] {
			t.Errorf("unexpected emergency category %q", s.Category)
		}
	}
}

func TestEstimatePrice(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(nil)

	tests := []struct {
		name     string
		id       string
		duration int
		want     int
	}{
		{"zero duration uses base price", "1", 0, 299},
		{"standard duration uses base price", "1", 60, 299},
		{"double duration doubles the rate", "1", 120, 598},
		{"half duration halves rounded", "3", 30, 100},
		{"unknown service", "999", 60, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.EstimatePrice(ctx, tt.id, tt.duration); got != tt.want {
				t.Errorf("EstimatePrice(%s, %d) = %d, want %d", tt.id, tt.duration, got, tt.want)
			}
		})
	}
}
