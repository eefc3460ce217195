package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"quickshow/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const maxWebhookBodyBytes = 65536

var ErrInvalidSignature = errors.New("webhook signature verification failed")

// Confirmer marks a booking as paid. It must be idempotent and return nil
// for unknown or already paid bookings.
type Confirmer interface {
	ConfirmPayment(ctx context.Context, bookingID string) error
}

// VerifyEvent checks the Stripe-Signature header against the raw body
func VerifyEvent(payload []byte, signature, secret string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return event, nil
}

type WebhookController struct {
	gateway   Gateway
	confirmer Confirmer
	secret    string
	log       *logger.Logger
}

func NewWebhookController(gateway Gateway, confirmer Confirmer, secret string) *WebhookController {
	return &WebhookController{
		gateway:   gateway,
		confirmer: confirmer,
		secret:    secret,
		log:       logger.GetDefault(),
	}
}

// HandleStripe verifies and dispatches a payment provider event. The body is
// read raw; it must not be parsed before the signature check.
func (c *WebhookController) HandleStripe(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		ctx.String(http.StatusBadRequest, "Webhook Error: unreadable body")
		return
	}

	event, err := VerifyEvent(payload, ctx.GetHeader("Stripe-Signature"), c.secret)
	if err != nil {
		c.log.LogWebhookRejected(ctx.Request.Context(), "stripe", err.Error(), ctx.ClientIP())
		ctx.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	if err := c.dispatch(ctx.Request.Context(), event); err != nil {
		c.log.ErrorWithContext(ctx.Request.Context(), "failed to handle payment event", err, map[string]interface{}{
			"event_id":   event.ID,
			"event_type": string(event.Type),
		})
		// A 5xx makes the provider redeliver later
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

func (c *WebhookController) dispatch(ctx context.Context, event stripe.Event) error {
	var bookingID string

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			c.log.WarnContext(ctx, "Malformed payment intent event", "event_id", event.ID, "error", err)
			return nil
		}
		id, err := c.gateway.BookingIDForPaymentIntent(ctx, intent.ID)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				c.log.WarnContext(ctx, "No checkout session for payment intent", "payment_intent", intent.ID)
				return nil
			}
			return err
		}
		bookingID = id

	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.log.WarnContext(ctx, "Malformed checkout session event", "event_id", event.ID, "error", err)
			return nil
		}
		if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
			return nil
		}
		bookingID = session.Metadata[MetadataBookingID]

	default:
		c.log.InfoContext(ctx, "Unhandled event type", "event_type", string(event.Type))
		return nil
	}

	if bookingID == "" {
		c.log.WarnContext(ctx, "Payment event carried no booking id", "event_id", event.ID)
		return nil
	}

	return c.confirmer.ConfirmPayment(ctx, bookingID)
}
