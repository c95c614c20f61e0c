package audit

import (
	"net/http/httptest"
	"testing"
)

func TestRecordAndQueryByEntity(t *testing.T) {
	repo := NewInMemoryRepository()

	first, err := repo.Record(Entry{
		AdminUser:  "admin",
		EntityType: EntityApplication,
		EntityID:   "app-1",
		Action:     ActionReviewApplication,
		Outcome:    OutcomeSuccess,
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if first.ID == "" {
		t.Error("expected generated log ID")
	}
	if first.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	_, err = repo.Record(Entry{
		AdminUser:  "admin",
		EntityType: EntityApplication,
		EntityID:   "app-1",
		Action:     ActionReviewApplication,
		Outcome:    OutcomeFailure,
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	logs, err := repo.QueryByEntity(EntityApplication, "app-1", 0)
	if err != nil {
		t.Fatalf("QueryByEntity() error = %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	// Newest first
	if logs[0].Outcome != OutcomeFailure {
		t.Errorf("expected newest-first ordering, got outcome %q first", logs[0].Outcome)
	}
}

func TestQueryByEntityLimit(t *testing.T) {
	repo := NewInMemoryRepository()
	for i := 0; i < 5; i++ {
		if _, err := repo.Record(Entry{
			EntityType: EntityAdminPanel,
			EntityID:   "dashboard",
			Action:     ActionViewDashboard,
			Outcome:    OutcomeSuccess,
		}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	logs, err := repo.QueryByEntity(EntityAdminPanel, "dashboard", 3)
	if err != nil {
		t.Fatalf("QueryByEntity() error = %v", err)
	}
	if len(logs) != 3 {
		t.Errorf("expected limit of 3 logs, got %d", len(logs))
	}
}

func TestQueryByAdmin(t *testing.T) {
	repo := NewInMemoryRepository()
	_, _ = repo.Record(Entry{AdminUser: "admin", EntityType: EntityAdminPanel, EntityID: "dashboard", Action: ActionAdminLogin, Outcome: OutcomeSuccess})
	_, _ = repo.Record(Entry{AdminUser: "other", EntityType: EntityAdminPanel, EntityID: "dashboard", Action: ActionAdminLogin, Outcome: OutcomeFailure})

	logs, err := repo.QueryByAdmin("admin", 0)
	if err != nil {
		t.Fatalf("QueryByAdmin() error = %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log for admin, got %d", len(logs))
	}
	if logs[0].Action != ActionAdminLogin {
		t.Errorf("unexpected action %q", logs[0].Action)
	}
}

func TestLogFromRequest(t *testing.T) {
	repo := NewInMemoryRepository()

	req := httptest.NewRequest("GET", "/admin/bookings/export", nil)
	req.RemoteAddr = "203.0.113.10:54321"
	req.Header.Set("User-Agent", "test-agent")

	if err := LogFromRequest(req, repo, EntityAdminPanel, "export", ActionExportBookings, OutcomeSuccess); err != nil {
		t.Fatalf("LogFromRequest() error = %v", err)
	}

	logs, err := repo.QueryByEntity(EntityAdminPanel, "export", 0)
	if err != nil {
		t.Fatalf("QueryByEntity() error = %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	if logs[0].IPAddress != "203.0.113.10" {
		t.Errorf("expected port stripped from IP, got %q", logs[0].IPAddress)
	}
	if logs[0].UserAgent != "test-agent" {
		t.Errorf("unexpected user agent %q", logs[0].UserAgent)
	}
}

func TestLogFromRequestValidation(t *testing.T) {
	repo := NewInMemoryRepository()
	req := httptest.NewRequest("GET", "/admin/stats", nil)

	tests := []struct {
		name       string
		entityType string
		entityID   string
		action     string
		wantErr    error
	}{
		{"empty entity type", "", "x", ActionViewDashboard, ErrInvalidEntityType},
		{"unknown entity type", "warehouse", "x", ActionViewDashboard, ErrInvalidEntityType},
		{"empty entity id", EntityAdminPanel, "", ActionViewDashboard, ErrInvalidEntityID},
		{"empty action", EntityAdminPanel, "x", "", ErrInvalidAction},
		{"unknown action", EntityAdminPanel, "x", "delete_everything", ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LogFromRequest(req, repo, tt.entityType, tt.entityID, tt.action, OutcomeSuccess)
			if err != tt.wantErr {
				t.Errorf("LogFromRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := LogFromRequest(req, nil, EntityAdminPanel, "x", ActionViewDashboard, OutcomeSuccess); err != ErrNilRepository {
		t.Errorf("expected ErrNilRepository for nil repo, got %v", err)
	}
}

func TestExtractIPAddress(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "192.0.2.1:8080",
			want:       "192.0.2.1",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for chain uses first",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.3"},
			want:       "198.51.100.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := extractIPAddress(req); got != tt.want {
				t.Errorf("extractIPAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}
