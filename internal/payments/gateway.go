package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"quickshow/internal/shared/config"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

const MetadataBookingID = "bookingId"

var (
	ErrPaymentProvider = errors.New("payment provider error")
	// ErrSessionCompleted means the customer already paid; the session can
	// no longer be expired.
	ErrSessionCompleted = errors.New("checkout session already completed")
	ErrSessionNotFound  = errors.New("checkout session not found")
)

type CheckoutRequest struct {
	BookingID  string
	Title      string
	Amount     float64
	SuccessURL string
	CancelURL  string
	ExpiresAt  time.Time
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Gateway is the hosted-checkout provider
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// BookingIDForPaymentIntent finds the session a payment intent belongs to
	// and returns the booking id stored in its metadata.
	BookingIDForPaymentIntent(ctx context.Context, paymentIntentID string) (string, error)
	// ExpireSession closes an open session so it can no longer be paid.
	ExpireSession(ctx context.Context, sessionID string) error
}

type stripeGateway struct {
	api      *client.API
	currency string
}

func NewStripeGateway(cfg config.StripeConfig) Gateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &stripeGateway{api: api, currency: cfg.Currency}
}

// ToMinorUnits converts an amount to cents, rounding to the nearest cent
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Title),
					},
					UnitAmount: stripe.Int64(ToMinorUnits(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		ExpiresAt: stripe.Int64(req.ExpiresAt.Unix()),
	}
	params.AddMetadata(MetadataBookingID, req.BookingID)
	params.Context = ctx

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %v", ErrPaymentProvider, err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *stripeGateway) BookingIDForPaymentIntent(ctx context.Context, paymentIntentID string) (string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Limit = stripe.Int64(1)
	params.Context = ctx

	iter := g.api.CheckoutSessions.List(params)
	if iter.Next() {
		return iter.CheckoutSession().Metadata[MetadataBookingID], nil
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("%w: list checkout sessions: %v", ErrPaymentProvider, err)
	}
	return "", ErrSessionNotFound
}

func (g *stripeGateway) ExpireSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionNotFound
	}

	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx
	s, err := g.api.CheckoutSessions.Get(sessionID, getParams)
	if err != nil {
		return fmt.Errorf("%w: get checkout session: %v", ErrPaymentProvider, err)
	}

	switch s.Status {
	case stripe.CheckoutSessionStatusComplete:
		return ErrSessionCompleted
	case stripe.CheckoutSessionStatusExpired:
		return nil
	}

	expireParams := &stripe.CheckoutSessionExpireParams{}
	expireParams.Context = ctx
	if _, err := g.api.CheckoutSessions.Expire(sessionID, expireParams); err != nil {
		// The customer may have finished paying between the two calls
		if again, getErr := g.api.CheckoutSessions.Get(sessionID, getParams); getErr == nil &&
			again.Status == stripe.CheckoutSessionStatusComplete {
			return ErrSessionCompleted
		}
		return fmt.Errorf("%w: expire checkout session: %v", ErrPaymentProvider, err)
	}
	return nil
}
