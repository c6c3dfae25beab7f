package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// CreatePaymentLink asks the mobile-money gateway for a hosted payment
// page. Completion is never pushed back to us; the payments collection is
// polled instead.
func CreatePaymentLink(ctx context.Context, amount float64, phone, reference string) (string, string, error) {
	gatewayURL := os.Getenv("MOMO_GATEWAY_URL")
	apiKey := os.Getenv("MOMO_API_KEY")
	if gatewayURL == "" || apiKey == "" {
		return "", "", fmt.Errorf("payment gateway is not configured")
	}

	requestBody, _ := json.Marshal(map[string]interface{}{
		"amount":      amount,
		"currency":    "XAF",
		"phone":       phone,
		"external_id": reference,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gatewayURL+"/api/v1/payment-links", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", "", fmt.Errorf("gateway error: %s", body)
	}

	var result struct {
		PaymentURL string `json:"payment_url"`
		ID         string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", "", fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if result.PaymentURL == "" {
		return "", "", fmt.Errorf("gateway returned no payment link")
	}

	return result.PaymentURL, result.ID, nil
}
