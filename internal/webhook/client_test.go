package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestTriggerInvoicePostsPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "", zap.NewNop())
	err := c.TriggerInvoice(context.Background(), map[string]any{"Facture_Nom": "Garage Dupont"})
	if err != nil {
		t.Fatalf("TriggerInvoice: %v", err)
	}
	if got["Facture_Nom"] != "Garage Dupont" {
		t.Errorf("payload = %v", got)
	}
}

func TestTriggerReceiptMissingURL(t *testing.T) {
	c := New("http://invoice", "", zap.NewNop())
	err := c.TriggerReceipt(context.Background(), map[string]any{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestTriggerInvoiceSurfacesFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "", zap.NewNop())
	if err := c.TriggerInvoice(context.Background(), map[string]any{}); err == nil {
		t.Fatal("expected error on 500 response")
	}
}
