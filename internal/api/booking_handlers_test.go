package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jaldikaro/jaldikaro/internal/booking"
	"github.com/jaldikaro/jaldikaro/internal/notify"
	"github.com/jaldikaro/jaldikaro/internal/service"
)

func newBookingHandlers() (*BookingHandlers, booking.Repository) {
	repo := booking.NewInMemoryRepository()
	catalog := service.NewCatalog(service.DefaultServices())
	return NewBookingHandlers(repo, catalog, notify.NewHub()), repo
}

func createBookingFixture(t *testing.T, repo booking.Repository, method string) *booking.Booking {
	t.Helper()
	b := &booking.Booking{
		UserPhone:      "9876543210",
		ProviderID:     "p1",
		ServiceID:      "1",
		ServiceAddress: "12 MG Road",
		PinCode:        "400001",
		EstimatedPrice: 299,
		PaymentMethod:  method,
		Status:         booking.StatusPending,
		PaymentStatus:  booking.PaymentPending,
	}
	if err := repo.Insert(context.Background(), b); err != nil {
		t.Fatalf("failed to insert booking fixture: %v", err)
	}
	return b
}

func TestCreateBooking(t *testing.T) {
	h, _ := newBookingHandlers()

	body, _ := json.Marshal(CreateBookingRequest{
		UserPhone:      "9876543210",
		ProviderID:     "p1",
		ServiceID:      "1",
		ServiceAddress: "Flat 4, Shanti Apartments, MG Road",
		PinCode:        "400001",
		PaymentMethod:  booking.MethodCash,
	})

	req := httptest.NewRequest(http.MethodPost, "/tables/bookings", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Bookings(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data booking.Booking `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID == "" {
		t.Error("expected booking to be assigned an ID")
	}
	if resp.Data.Status != booking.StatusPending {
		t.Errorf("expected status pending, got %q", resp.Data.Status)
	}
	// Carpenter base price at standard duration.
	if resp.Data.EstimatedPrice != 299 {
		t.Errorf("expected server-side price 299, got %d", resp.Data.EstimatedPrice)
	}
}

func TestCreateBookingIgnoresClientPrice(t *testing.T) {
	h, _ := newBookingHandlers()

	// A tampered client posts its own price; the server must recompute it.
	body := []byte(`{
		"user_phone": "9876543210",
		"provider_id": "p1",
		"service_id": "1",
		"service_address": "12 MG Road",
		"pin_code": "400001",
		"payment_method": "cash",
		"estimated_price": 1
	}`)

	req := httptest.NewRequest(http.MethodPost, "/tables/bookings", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Bookings(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data booking.Booking `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.EstimatedPrice != 299 {
		t.Errorf("expected recomputed price 299, got %d", resp.Data.EstimatedPrice)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	h, _ := newBookingHandlers()

	base := CreateBookingRequest{
		UserPhone:      "9876543210",
		ProviderID:     "p1",
		ServiceID:      "1",
		ServiceAddress: "12 MG Road",
		PinCode:        "400001",
		PaymentMethod:  booking.MethodCash,
	}

	tests := []struct {
		name   string
		mutate func(*CreateBookingRequest)
	}{
		{"bad phone", func(r *CreateBookingRequest) { r.UserPhone = "12345" }},
		{"missing provider", func(r *CreateBookingRequest) { r.ProviderID = "" }},
		{"missing service", func(r *CreateBookingRequest) { r.ServiceID = "" }},
		{"blank address", func(r *CreateBookingRequest) { r.ServiceAddress = "   " }},
		{"bad pin code", func(r *CreateBookingRequest) { r.PinCode = "4001" }},
		{"bad payment method", func(r *CreateBookingRequest) { r.PaymentMethod = "cheque" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqBody := base
			tt.mutate(&reqBody)
			body, _ := json.Marshal(reqBody)

			req := httptest.NewRequest(http.MethodPost, "/tables/bookings", bytes.NewReader(body))
			w := httptest.NewRecorder()
			h.Bookings(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if errResp.Error.Code != ErrCodeValidation {
				t.Errorf("expected error code %s, got %s", ErrCodeValidation, errResp.Error.Code)
			}
		})
	}
}

func TestCreateBookingUnknownService(t *testing.T) {
	h, _ := newBookingHandlers()

	body, _ := json.Marshal(CreateBookingRequest{
		UserPhone:      "9876543210",
		ProviderID:     "p1",
		ServiceID:      "nope",
		ServiceAddress: "12 MG Road",
		PinCode:        "400001",
		PaymentMethod:  booking.MethodUPI,
	})

	req := httptest.NewRequest(http.MethodPost, "/tables/bookings", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Bookings(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Error.Code != ErrCodeServiceNotFound {
		t.Errorf("expected error code %s, got %s", ErrCodeServiceNotFound, errResp.Error.Code)
	}
}

func TestCreateBookingSanitizesAddress(t *testing.T) {
	h, _ := newBookingHandlers()

	body, _ := json.Marshal(CreateBookingRequest{
		UserPhone:           "9876543210",
		ProviderID:          "p1",
		ServiceID:           "1",
		ServiceAddress:      `<script>alert('xss')</script> MG Road`,
		PinCode:             "400001",
		PaymentMethod:       booking.MethodCash,
		SpecialInstructions: "<b>ring twice</b>",
	})

	req := httptest.NewRequest(http.MethodPost, "/tables/bookings", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Bookings(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data booking.Booking `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if strings.Contains(resp.Data.ServiceAddress, "<script>") {
		t.Errorf("address not sanitized: %q", resp.Data.ServiceAddress)
	}
	if strings.Contains(resp.Data.SpecialInstructions, "<b>") {
		t.Errorf("instructions not sanitized: %q", resp.Data.SpecialInstructions)
	}
}

func TestListBookingsByPhone(t *testing.T) {
	h, repo := newBookingHandlers()
	createBookingFixture(t, repo, booking.MethodCash)
	other := &booking.Booking{
		UserPhone:      "9123456780",
		ProviderID:     "p2",
		ServiceID:      "2",
		ServiceAddress: "Other Street",
		PinCode:        "110001",
		PaymentMethod:  booking.MethodUPI,
		Status:         booking.StatusPending,
		PaymentStatus:  booking.PaymentPending,
	}
	if err := repo.Insert(context.Background(), other); err != nil {
		t.Fatalf("failed to insert booking: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/tables/bookings?phone=9876543210", nil)
	w := httptest.NewRecorder()
	h.Bookings(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data  []booking.Booking `json:"data"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 booking for phone, got %d", resp.Total)
	}
	if resp.Data[0].UserPhone != "9876543210" {
		t.Errorf("unexpected booking %q in phone filter", resp.Data[0].ID)
	}
}

func TestGetBookingNotFound(t *testing.T) {
	h, _ := newBookingHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/bookings/ghost", nil)
	w := httptest.NewRecorder()
	h.BookingByID(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestUpdateBookingStatus(t *testing.T) {
	h, repo := newBookingHandlers()
	b := createBookingFixture(t, repo, booking.MethodCash)

	body, _ := json.Marshal(UpdateBookingStatusRequest{Status: booking.StatusConfirmed})
	req := httptest.NewRequest(http.MethodPatch, "/tables/bookings/"+b.ID+"/status", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.BookingByID(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data booking.Booking `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Status != booking.StatusConfirmed {
		t.Errorf("expected status confirmed, got %q", resp.Data.Status)
	}
}

func TestUpdateBookingStatusInvalidTransition(t *testing.T) {
	h, repo := newBookingHandlers()
	b := createBookingFixture(t, repo, booking.MethodCash)

	// pending -> completed skips confirmed and in_progress.
	body, _ := json.Marshal(UpdateBookingStatusRequest{Status: booking.StatusCompleted})
	req := httptest.NewRequest(http.MethodPatch, "/tables/bookings/"+b.ID+"/status", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.BookingByID(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Error.Code != ErrCodeInvalidTransition {
		t.Errorf("expected error code %s, got %s", ErrCodeInvalidTransition, errResp.Error.Code)
	}
}

func TestUpdateBookingStatusUnknownStatus(t *testing.T) {
	h, repo := newBookingHandlers()
	b := createBookingFixture(t, repo, booking.MethodCash)

	body, _ := json.Marshal(UpdateBookingStatusRequest{Status: "teleported"})
	req := httptest.NewRequest(http.MethodPatch, "/tables/bookings/"+b.ID+"/status", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.BookingByID(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
