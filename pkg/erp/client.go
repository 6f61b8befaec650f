package erp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront/internal/models"
)

// Client talks to the ERP integration API. Every call carries a bounded
// timeout; callers must treat any returned error as a retryable remote
// failure, not a local bug.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type SyncOrderResponse struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Error       string `json:"error,omitempty"`
}

type WebsiteOrderItem struct {
	ProductID  string  `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

type WebsiteOrderRequest struct {
	UserID               uint               `json:"user_id"`
	TotalAmount          float64            `json:"total_amount"`
	PaymentMethod        string             `json:"payment_method"`
	ShippingAddress      string             `json:"shipping_address"`
	ShippingCity         string             `json:"shipping_city"`
	ShippingPostalCode   string             `json:"shipping_postal_code"`
	DeliveryInstructions string             `json:"delivery_instructions"`
	Notes                string             `json:"notes,omitempty"`
	Items                []WebsiteOrderItem `json:"items"`
}

type createWebsiteOrderResponse struct {
	ID string `json:"id"`
}

// WebsiteOrder is the read view of an order created through the
// authenticated primary path.
type WebsiteOrder struct {
	ID          string             `json:"id"`
	OrderNumber string             `json:"order_number"`
	Status      string             `json:"status"`
	TotalAmount float64            `json:"total_amount"`
	Items       []WebsiteOrderItem `json:"items"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SyncOrder registers one order with the ERP through the integration
// endpoint (the unauthenticated, API-key path).
func (c *Client) SyncOrder(payload models.OrderSyncPayload) (*SyncOrderResponse, error) {
	var response SyncOrderResponse
	if err := c.post("/api/integration/orders", payload, &response); err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("erp rejected order %s: %s", payload.OrderID, response.Error)
	}
	return &response, nil
}

// CreateWebsiteOrder creates an order through the authenticated primary
// path, then fetches the full order details from the read view.
func (c *Client) CreateWebsiteOrder(req WebsiteOrderRequest) (*WebsiteOrder, error) {
	var created createWebsiteOrderResponse
	if err := c.post("/api/website-orders", req, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("erp returned empty order id")
	}

	order, err := c.GetWebsiteOrder(created.ID)
	if err != nil {
		return nil, fmt.Errorf("order created but failed to fetch details: %w", err)
	}
	return order, nil
}

// GetWebsiteOrder fetches order details from the ERP read view.
func (c *Client) GetWebsiteOrder(id string) (*WebsiteOrder, error) {
	url := fmt.Sprintf("%s/api/website-orders/%s", c.BaseURL, id)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var order WebsiteOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &order, nil
}

// Health reports whether the ERP answers its liveness endpoint.
func (c *Client) Health() bool {
	req, err := http.NewRequest("GET", c.BaseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (c *Client) post(path string, body interface{}, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequest("POST", c.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
