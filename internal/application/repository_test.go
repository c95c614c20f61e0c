package application

import (
	"context"
	"errors"
	"testing"
)

func newApplication() *Application {
	return &Application{
		Name:         "Ravi Sharma",
		PhoneNumber:  "9876543210",
		Email:        "ravi@example.com",
		Services:     []string{"1", "3"},
		HourlyRate:   300,
		ServiceAreas: []string{"110001"},
		KYCDocuments: []KYCDocument{{Type: "aadhar", Number: "XXXX1234", Status: "pending"}},
	}
}

func TestInsertAssignsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	a := newApplication()
	if err := repo.Insert(ctx, a); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if a.ID == "" {
		t.Error("ID not assigned")
	}
	if a.Status != StatusSubmitted {
		t.Errorf("Status = %q, want submitted", a.Status)
	}
	if a.CreatedAt == nil || a.UpdatedAt == nil {
		t.Error("timestamps not assigned")
	}
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	a := newApplication()
	if err := repo.Insert(ctx, a); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Ravi Sharma" {
		t.Errorf("Name = %q", got.Name)
	}

	if _, err := repo.GetByID(ctx, "absent"); !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("err = %v, want ErrApplicationNotFound", err)
	}
}

func TestListSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	names := []string{"First", "Second", "Third"}
	for _, name := range names {
		a := newApplication()
		a.Name = name
		if err := repo.Insert(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("List returned %d, want 3", len(got))
	}
	for i, name := range names {
		if got[i].Name != name {
			t.Errorf("applications[%d].Name = %s, want %s", i, got[i].Name, name)
		}
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	a := newApplication()
	if err := repo.Insert(ctx, a); err != nil {
		t.Fatal(err)
	}

	got, err := repo.UpdateStatus(ctx, a.ID, StatusUnderReview)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != StatusUnderReview {
		t.Errorf("Status = %s", got.Status)
	}

	if _, err := repo.UpdateStatus(ctx, a.ID, StatusApproved); err != nil {
		t.Fatal(err)
	}

	// Approved is terminal.
	if _, err := repo.UpdateStatus(ctx, a.ID, StatusRejected); !errors.Is(err, ErrInvalidReviewMove) {
		t.Errorf("err = %v, want ErrInvalidReviewMove", err)
	}

	if _, err := repo.UpdateStatus(ctx, "absent", StatusApproved); !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("err = %v, want ErrApplicationNotFound", err)
	}
}
