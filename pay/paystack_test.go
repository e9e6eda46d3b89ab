package pay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(srv *httptest.Server) *PaystackClient {
	return &PaystackClient{
		SecretKey:  "sk_test_abc",
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: time.Second},
	}
}

func TestToKobo(t *testing.T) {
	if got := ToKobo(45000); got != 4500000 {
		t.Errorf("ToKobo(45000) = %d, want 4500000", got)
	}
	if got := ToKobo(0.5); got != 50 {
		t.Errorf("ToKobo(0.5) = %d, want 50", got)
	}
}

func TestInitializeTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_abc" {
			t.Errorf("authorization header = %q", got)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["amount"].(float64) != 4500000 {
			t.Errorf("amount = %v, want kobo 4500000", body["amount"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         body["reference"],
			},
		})
	}))
	defer srv.Close()

	client := testClient(srv)
	result, err := client.InitializeTransaction(context.Background(), "ada@school.edu", 45000, "PAY-TEST1")
	if err != nil {
		t.Fatalf("InitializeTransaction: %v", err)
	}
	if result.AuthorizationURL != "https://checkout.paystack.com/abc123" {
		t.Errorf("authorization url = %q", result.AuthorizationURL)
	}
	if result.Reference != "PAY-TEST1" {
		t.Errorf("reference = %q, want PAY-TEST1", result.Reference)
	}
}

func TestVerifyTransactionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/PAY-TEST2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]interface{}{
				"status":    "success",
				"reference": "PAY-TEST2",
				"amount":    4500000,
				"channel":   "card",
				"currency":  "NGN",
				"paid_at":   "2026-02-10T09:30:00Z",
			},
		})
	}))
	defer srv.Close()

	client := testClient(srv)
	result, err := client.VerifyTransaction(context.Background(), "PAY-TEST2")
	if err != nil {
		t.Fatalf("VerifyTransaction: %v", err)
	}
	if result.Status != "success" || result.Amount != 4500000 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestVerifyTransactionGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Transaction reference not found",
		})
	}))
	defer srv.Close()

	client := testClient(srv)
	if _, err := client.VerifyTransaction(context.Background(), "PAY-NOPE"); err == nil {
		t.Fatal("expected an error for an unknown reference")
	}
}
