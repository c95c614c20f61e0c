package payment

import (
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
)

// CheckoutParams describes a Checkout Session for one booking.
type CheckoutParams struct {
	BookingID   string
	ServiceName string
	AmountPaise int64 // Estimated price in paise
	SuccessURL  string
	CancelURL   string
}

// Client is an interface over Stripe operations to enable mocking.
type Client interface {
	CreateCheckoutSession(params *CheckoutParams) (*stripe.CheckoutSession, error)
}

// StripeClient implements Client using the real Stripe SDK.
type StripeClient struct{}

// NewStripeClient creates a Stripe client with the given API key.
func NewStripeClient(apiKey string) *StripeClient {
	stripe.Key = apiKey
	return &StripeClient{}
}

// CreateCheckoutSession creates a Checkout Session for a card booking.
// The booking ID travels in the session metadata so webhook handlers can
// resolve the payment record.
func (c *StripeClient) CreateCheckoutSession(params *CheckoutParams) (*stripe.CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyINR)),
					UnitAmount: stripe.Int64(params.AmountPaise),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.ServiceName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		Metadata: map[string]string{
			"booking_id": params.BookingID,
		},
	}

	return session.New(sessionParams)
}
