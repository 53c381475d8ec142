package payout

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(baseURL string) *Client {
	return &Client{
		BaseURL:      baseURL,
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		HTTPClient:   &http.Client{Timeout: time.Second},
	}
}

func TestGetBeneficiaryNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"status": "ERROR", "message": "not found"})
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetBeneficiary("doc_42")
	if !errors.Is(err, ErrBeneficiaryNotFound) {
		t.Errorf("err = %v, want ErrBeneficiaryNotFound", err)
	}
}

func TestGetBeneficiary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/beneficiary/doc_42" {
			t.Errorf("path = %s, want /beneficiary/doc_42", r.URL.Path)
		}
		if r.Header.Get("X-Client-Id") != "test-id" || r.Header.Get("X-Client-Secret") != "test-secret" {
			t.Error("auth headers missing")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "SUCCESS",
			"data":   map[string]string{"beneId": "doc_42", "name": "Dr Smith"},
		})
	}))
	defer server.Close()

	bene, err := testClient(server.URL).GetBeneficiary("doc_42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bene.BeneficiaryID != "doc_42" || bene.Name != "Dr Smith" {
		t.Errorf("got %+v", bene)
	}
}

func TestCreateTransfer(t *testing.T) {
	var received Transfer
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transfers" {
			t.Errorf("%s %s, want POST /transfers", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"status": "SUCCESS"})
	}))
	defer server.Close()

	transfer := Transfer{TransferID: "tr_1", BeneficiaryID: "doc_42", Amount: 450}
	if err := testClient(server.URL).CreateTransfer(transfer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.TransferID != "tr_1" || received.Amount != 450 {
		t.Errorf("server received %+v", received)
	}
}

func TestCreateTransferConflictIsIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"status": "ERROR", "message": "duplicate transfer id"})
	}))
	defer server.Close()

	transfer := Transfer{TransferID: "tr_1", BeneficiaryID: "doc_42", Amount: 450}
	if err := testClient(server.URL).CreateTransfer(transfer); err != nil {
		t.Errorf("resubmitting a transfer id should not error, got %v", err)
	}
}

func TestCreateTransferFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"status": "ERROR", "message": "invalid beneficiary"})
	}))
	defer server.Close()

	transfer := Transfer{TransferID: "tr_1", BeneficiaryID: "nope", Amount: 450}
	if err := testClient(server.URL).CreateTransfer(transfer); err == nil {
		t.Error("expected an error for a rejected transfer")
	}
}

func TestGetTransferStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transfers/tr_1" {
			t.Errorf("path = %s, want /transfers/tr_1", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "SUCCESS",
			"data":   map[string]string{"transferId": "tr_1", "status": TransferSuccess},
		})
	}))
	defer server.Close()

	status, err := testClient(server.URL).GetTransferStatus("tr_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != TransferSuccess {
		t.Errorf("status = %s, want %s", status, TransferSuccess)
	}
}
