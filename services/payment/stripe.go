package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// IntentResult is what the booking flow consumes from the payment gateway:
// the transaction id (attached to the booking once payment succeeds) and
// the client secret the app needs to complete the charge.
type IntentResult struct {
	TransactionID string `json:"transactionId"`
	ClientSecret  string `json:"clientSecret"`
}

// PaymentService creates payment intents; capture and webhooks live with
// the gateway integration outside this service.
type PaymentService interface {
	CreateIntent(amount float64, currency, customerID string) (*IntentResult, error)
}

// StripePaymentService implements PaymentService against Stripe.
type StripePaymentService struct {
	Logger *zap.Logger
}

// CreateIntent creates a Stripe PaymentIntent for the given amount.
func (s *StripePaymentService) CreateIntent(amount float64, currency, customerID string) (*IntentResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount %.2f", amount)
	}
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("customerId", customerID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	s.Logger.Info("payment intent created",
		zap.String("intentId", pi.ID),
		zap.String("customerId", customerID),
		zap.Float64("amount", amount))

	return &IntentResult{TransactionID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
