// Package payout wraps the payout provider's beneficiary and transfer
// REST APIs. Transfers are idempotent on the provider side via the
// caller-supplied transfer id.
package payout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Transfer statuses as reported by the provider
const (
	TransferPending = "PENDING"
	TransferSuccess = "SUCCESS"
	TransferFailed  = "FAILED"
)

var ErrBeneficiaryNotFound = errors.New("beneficiary not found")

type Client struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// NewClientFromEnv builds a client from PAYOUT_* environment variables.
// Outbound calls use a fixed timeout, no retries.
func NewClientFromEnv() *Client {
	return &Client{
		BaseURL:      os.Getenv("PAYOUT_BASE_URL"),
		ClientID:     os.Getenv("PAYOUT_CLIENT_ID"),
		ClientSecret: os.Getenv("PAYOUT_CLIENT_SECRET"),
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

type Beneficiary struct {
	BeneficiaryID string `json:"beneId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	BankAccount   string `json:"bankAccount"`
	IFSC          string `json:"ifsc"`
}

type Transfer struct {
	TransferID    string  `json:"transferId"`
	BeneficiaryID string  `json:"beneId"`
	Amount        float64 `json:"amount"`
}

// envelope is the provider's standard response wrapper
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(method, path string, body interface{}) (*envelope, int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequest(method, c.BaseURL+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Id", c.ClientID)
	req.Header.Set("X-Client-Secret", c.ClientSecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decoding payout response: %v", err)
	}
	return &env, resp.StatusCode, nil
}

// GetBeneficiary looks up a registered beneficiary by id
func (c *Client) GetBeneficiary(beneficiaryID string) (*Beneficiary, error) {
	env, code, err := c.do(http.MethodGet, "/beneficiary/"+beneficiaryID, nil)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, ErrBeneficiaryNotFound
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("beneficiary lookup failed: %s", env.Message)
	}

	var bene Beneficiary
	if err := json.Unmarshal(env.Data, &bene); err != nil {
		return nil, err
	}
	return &bene, nil
}

// CreateBeneficiary registers bank details with the provider
func (c *Client) CreateBeneficiary(bene Beneficiary) error {
	env, code, err := c.do(http.MethodPost, "/beneficiary", bene)
	if err != nil {
		return err
	}
	if code != http.StatusOK && code != http.StatusCreated {
		return fmt.Errorf("beneficiary create failed: %s", env.Message)
	}
	return nil
}

// CreateTransfer initiates a payout. Submitting the same transfer id
// twice is accepted by the provider and applied once.
func (c *Client) CreateTransfer(transfer Transfer) error {
	env, code, err := c.do(http.MethodPost, "/transfers", transfer)
	if err != nil {
		return err
	}
	// 409 means the transfer id was already submitted, which is fine
	if code != http.StatusOK && code != http.StatusCreated && code != http.StatusConflict {
		return fmt.Errorf("transfer create failed: %s", env.Message)
	}
	return nil
}

type transferStatus struct {
	TransferID string `json:"transferId"`
	Status     string `json:"status"`
}

// GetTransferStatus polls the state of an initiated transfer
func (c *Client) GetTransferStatus(transferID string) (string, error) {
	env, code, err := c.do(http.MethodGet, "/transfers/"+transferID, nil)
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return "", fmt.Errorf("transfer status failed: %s", env.Message)
	}

	var ts transferStatus
	if err := json.Unmarshal(env.Data, &ts); err != nil {
		return "", err
	}
	return ts.Status, nil
}
