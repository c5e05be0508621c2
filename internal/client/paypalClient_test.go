package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"berrypay/internal/config"
)

func newPaypalTestServer(t *testing.T, captured *map[string]interface{}) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "token-123"})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if captured != nil {
			json.NewDecoder(r.Body).Decode(captured)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "ORDER-1",
			"status": "CREATED",
			"links": []map[string]string{
				{"rel": "self", "href": "https://api/self"},
				{"rel": "approve", "href": "https://paypal/approve/ORDER-1"},
			},
		})
	})
	mux.HandleFunc("/v2/checkout/orders/ORDER-1/capture", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "ORDER-1",
			"status": "COMPLETED",
			"payer":  map[string]string{"payer_id": "PAYER-9"},
		})
	})
	mux.HandleFunc("/v2/checkout/orders/BROKEN/capture", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"name":"UNPROCESSABLE_ENTITY"}`, http.StatusUnprocessableEntity)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		1000:   "10.00",
		123456: "1234.56",
	}
	for cents, want := range cases {
		if got := FormatAmount(cents); got != want {
			t.Errorf("FormatAmount(%d) = %s, want %s", cents, got, want)
		}
	}
}

func TestPaypalCreateOrder(t *testing.T) {
	var payload map[string]interface{}
	srv := newPaypalTestServer(t, &payload)
	client := NewPaypalClient(&config.Paypal{BaseApiURL: srv.URL + "/", ClientID: "id", ClientSecret: "secret"})

	resp, err := client.CreateOrder(context.Background(), &CreateOrderRequest{
		ReferenceID: "sale-1",
		AmountCents: 4990,
		Currency:    "BRL",
		ReturnURL:   "http://localhost/return",
		CancelURL:   "http://localhost/cancel",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if resp.OrderID != "ORDER-1" || resp.ApproveURL != "https://paypal/approve/ORDER-1" {
		t.Fatalf("unexpected response %+v", resp)
	}

	units := payload["purchase_units"].([]interface{})
	amount := units[0].(map[string]interface{})["amount"].(map[string]interface{})
	if amount["value"] != "49.90" || amount["currency_code"] != "BRL" {
		t.Fatalf("unexpected amount payload %v", amount)
	}
}

func TestPaypalCaptureOrder(t *testing.T) {
	srv := newPaypalTestServer(t, nil)
	client := NewPaypalClient(&config.Paypal{BaseApiURL: srv.URL, ClientID: "id", ClientSecret: "secret"})

	resp, err := client.CaptureOrder(context.Background(), "ORDER-1")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if resp.Status != "COMPLETED" || resp.PayerID != "PAYER-9" {
		t.Fatalf("unexpected capture %+v", resp)
	}

	_, err = client.CaptureOrder(context.Background(), "BROKEN")
	if err == nil || !strings.Contains(err.Error(), "422") {
		t.Fatalf("expected 422 error, got %v", err)
	}
}

func TestPaypalBadCredentials(t *testing.T) {
	srv := newPaypalTestServer(t, nil)
	client := NewPaypalClient(&config.Paypal{BaseApiURL: srv.URL, ClientID: "id", ClientSecret: "wrong"})

	if _, err := client.CaptureOrder(context.Background(), "ORDER-1"); err == nil {
		t.Fatal("expected oauth failure")
	}
}
