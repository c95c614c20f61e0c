package booking

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// csvHeader fixes the export column order.
var csvHeader = []string{
	"id", "user_phone", "provider_id", "service_id", "service_address",
	"pin_code", "scheduled_datetime", "estimated_price", "payment_method",
	"special_instructions", "status", "payment_status", "created_at",
	"updated_at",
}

// WriteCSV writes the bookings as CSV with a header row. Fields containing
// commas or quotes are quoted per RFC 4180. An empty slice yields just the
// header.
func WriteCSV(w io.Writer, bookings []Booking) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, b := range bookings {
		row := []string{
			b.ID,
			b.UserPhone,
			b.ProviderID,
			b.ServiceID,
			b.ServiceAddress,
			b.PinCode,
			formatCSVTime(b.ScheduledDatetime),
			strconv.Itoa(b.EstimatedPrice),
			b.PaymentMethod,
			b.SpecialInstructions,
			b.Status,
			b.PaymentStatus,
			formatCSVTime(b.CreatedAt),
			formatCSVTime(b.UpdatedAt),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for booking %s: %w", b.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFilename returns the dated download name for a bookings export,
// e.g. "jaldikaro-bookings-2026-08-28.csv".
func ExportFilename(now time.Time) string {
	return "jaldikaro-bookings-" + now.UTC().Format("2006-01-02") + ".csv"
}

func formatCSVTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
