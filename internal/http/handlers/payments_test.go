package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"zunda_backend/internal/service"

	"github.com/gin-gonic/gin"
)

func paymentsTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/payments/packages", h.Packages)
	r.POST("/api/payments/webhook", h.Webhook)
	return r
}

func TestPackagesEndpoint(t *testing.T) {
	h := &Handler{PaymentService: &service.PaymentService{}}
	r := paymentsTestRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/payments/packages", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Packages []struct {
			ID    string `json:"id"`
			Rub   int64  `json:"rub"`
			Coins int64  `json:"coins"`
		} `json:"packages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Packages) != 5 {
		t.Fatalf("expected 5 packages, got %d", len(body.Packages))
	}
}

// Events the reconciler does not act on are acknowledged so the gateway
// stops retrying.
func TestWebhook_IgnoredEvent(t *testing.T) {
	h := &Handler{PaymentService: &service.PaymentService{}}
	r := paymentsTestRouter(h)

	body := `{"event":"payment.waiting_for_capture","object":{"id":"pay-1"}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/payments/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWebhook_MissingPaymentID(t *testing.T) {
	h := &Handler{PaymentService: &service.PaymentService{}}
	r := paymentsTestRouter(h)

	body := `{"event":"payment.succeeded","object":{"metadata":{"coins":100}}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/payments/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestWebhook_BadBody(t *testing.T) {
	h := &Handler{PaymentService: &service.PaymentService{}}
	r := paymentsTestRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/payments/webhook", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
