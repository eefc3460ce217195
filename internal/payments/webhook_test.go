package payments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test"

type fakeGateway struct {
	byIntent map[string]string
	err      error
}

func (f *fakeGateway) CreateCheckoutSession(context.Context, CheckoutRequest) (*CheckoutSession, error) {
	return &CheckoutSession{ID: "cs_test", URL: "https://pay.test/cs_test"}, nil
}

func (f *fakeGateway) BookingIDForPaymentIntent(_ context.Context, pi string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	id, ok := f.byIntent[pi]
	if !ok {
		return "", ErrSessionNotFound
	}
	return id, nil
}

func (f *fakeGateway) ExpireSession(context.Context, string) error { return nil }

type recordingConfirmer struct {
	confirmed []string
	err       error
}

func (r *recordingConfirmer) ConfirmPayment(_ context.Context, bookingID string) error {
	if r.err != nil {
		return r.err
	}
	r.confirmed = append(r.confirmed, bookingID)
	return nil
}

func eventJSON(eventType, object string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":"2020-08-27","type":%q,"data":{"object":%s}}`, eventType, object))
}

func postWebhook(t *testing.T, ctrl *WebhookController, payload []byte, header string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupWebhookRoutes(router.Group("/api/v1"), ctrl)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stripe/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)
	router.ServeHTTP(w, req)
	return w
}

func signed(payload []byte) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	}).Header
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	confirmer := &recordingConfirmer{}
	ctrl := NewWebhookController(&fakeGateway{}, confirmer, testWebhookSecret)
	payload := eventJSON("payment_intent.succeeded", `{"id":"pi_1","object":"payment_intent"}`)

	forged := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload, Secret: "whsec_other", Timestamp: time.Now(),
	}).Header

	for _, header := range []string{"", "t=1,v1=deadbeef", forged} {
		w := postWebhook(t, ctrl, payload, header)
		if w.Code != http.StatusBadRequest {
			t.Errorf("header %q: code = %d, want 400", header, w.Code)
		}
	}
	if len(confirmer.confirmed) != 0 {
		t.Errorf("bad signature confirmed bookings: %v", confirmer.confirmed)
	}
}

func TestWebhookPaymentIntentSucceeded(t *testing.T) {
	confirmer := &recordingConfirmer{}
	gw := &fakeGateway{byIntent: map[string]string{"pi_1": "booking-1"}}
	ctrl := NewWebhookController(gw, confirmer, testWebhookSecret)

	payload := eventJSON("payment_intent.succeeded", `{"id":"pi_1","object":"payment_intent"}`)
	w := postWebhook(t, ctrl, payload, signed(payload))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}
	if len(confirmer.confirmed) != 1 || confirmer.confirmed[0] != "booking-1" {
		t.Errorf("confirmed = %v", confirmer.confirmed)
	}
}

func TestWebhookCheckoutSessionCompleted(t *testing.T) {
	tests := []struct {
		name    string
		session string
		want    int
	}{
		{"paid", `{"id":"cs_1","object":"checkout.session","payment_status":"paid","metadata":{"bookingId":"booking-2"}}`, 1},
		{"unpaid", `{"id":"cs_1","object":"checkout.session","payment_status":"unpaid","metadata":{"bookingId":"booking-2"}}`, 0},
		{"no metadata", `{"id":"cs_1","object":"checkout.session","payment_status":"paid"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confirmer := &recordingConfirmer{}
			ctrl := NewWebhookController(&fakeGateway{}, confirmer, testWebhookSecret)

			payload := eventJSON("checkout.session.completed", tt.session)
			w := postWebhook(t, ctrl, payload, signed(payload))

			if w.Code != http.StatusOK {
				t.Fatalf("code = %d", w.Code)
			}
			if len(confirmer.confirmed) != tt.want {
				t.Errorf("confirmed = %v, want %d", confirmer.confirmed, tt.want)
			}
		})
	}
}

func TestWebhookAcknowledgesWithoutConfirming(t *testing.T) {
	confirmer := &recordingConfirmer{}
	ctrl := NewWebhookController(&fakeGateway{byIntent: map[string]string{}}, confirmer, testWebhookSecret)

	for _, payload := range [][]byte{
		eventJSON("customer.created", `{"id":"cus_1","object":"customer"}`),
		eventJSON("payment_intent.succeeded", `{"id":"pi_unknown","object":"payment_intent"}`),
	} {
		w := postWebhook(t, ctrl, payload, signed(payload))
		if w.Code != http.StatusOK {
			t.Errorf("code = %d, want 200", w.Code)
		}
		if !bytes.Contains(w.Body.Bytes(), []byte(`"received":true`)) {
			t.Errorf("body = %s", w.Body.String())
		}
	}
	if len(confirmer.confirmed) != 0 {
		t.Errorf("confirmed = %v, want none", confirmer.confirmed)
	}
}

func TestWebhookConfirmErrorAsksForRedelivery(t *testing.T) {
	confirmer := &recordingConfirmer{err: errors.New("db down")}
	ctrl := NewWebhookController(&fakeGateway{byIntent: map[string]string{"pi_1": "b"}}, confirmer, testWebhookSecret)

	payload := eventJSON("payment_intent.succeeded", `{"id":"pi_1","object":"payment_intent"}`)
	w := postWebhook(t, ctrl, payload, signed(payload))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", w.Code)
	}
}

func TestToMinorUnits(t *testing.T) {
	tests := map[float64]int64{
		30:      3000,
		12.5:    1250,
		19.99:   1999,
		0.1 * 3: 30,
	}
	for in, want := range tests {
		if got := ToMinorUnits(in); got != want {
			t.Errorf("ToMinorUnits(%v) = %d, want %d", in, got, want)
		}
	}
}
