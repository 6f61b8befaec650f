package erp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSyncPayload() models.OrderSyncPayload {
	return models.OrderSyncPayload{
		OrderID: "order-123",
		CustomerInfo: models.CustomerInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
		Items: []models.SyncItem{
			{ProductID: "prod-a", ProductName: "Product A", SKU: "SKU-A", Quantity: 1, UnitPrice: 50, TotalPrice: 50},
		},
		TotalAmount:   64,
		PaymentMethod: "card",
		OrderDate:     time.Now(),
	}
}

func TestSyncOrder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotKey, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-API-Key")
			gotPath = r.URL.Path

			var payload models.OrderSyncPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "order-123", payload.OrderID)

			json.NewEncoder(w).Encode(SyncOrderResponse{
				Success:     true,
				OrderID:     "erp-1",
				OrderNumber: "WEB-1",
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret", 5*time.Second)
		resp, err := client.SyncOrder(testSyncPayload())

		require.NoError(t, err)
		assert.Equal(t, "erp-1", resp.OrderID)
		assert.Equal(t, "WEB-1", resp.OrderNumber)
		assert.Equal(t, "secret", gotKey)
		assert.Equal(t, "/api/integration/orders", gotPath)
	})

	t.Run("rejected by erp", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(SyncOrderResponse{Success: false, Error: "duplicate order"})
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret", 5*time.Second)
		_, err := client.SyncOrder(testSyncPayload())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate order")
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret", 5*time.Second)
		_, err := client.SyncOrder(testSyncPayload())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 500")
	})

	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "secret", time.Second)
		_, err := client.SyncOrder(testSyncPayload())
		require.Error(t, err)
	})
}

func TestCreateWebsiteOrder(t *testing.T) {
	t.Run("creates then fetches details", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/website-orders", func(w http.ResponseWriter, r *http.Request) {
			var req WebsiteOrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, uint(7), req.UserID)
			json.NewEncoder(w).Encode(map[string]string{"id": "web-42"})
		})
		mux.HandleFunc("GET /api/website-orders/{id}", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "web-42", r.PathValue("id"))
			assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
			json.NewEncoder(w).Encode(WebsiteOrder{
				ID:          "web-42",
				OrderNumber: "WEB-42",
				Status:      "pending",
				TotalAmount: 64,
			})
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := NewClient(server.URL, "secret", 5*time.Second)
		order, err := client.CreateWebsiteOrder(WebsiteOrderRequest{
			UserID:        7,
			TotalAmount:   64,
			PaymentMethod: "card",
			Items: []WebsiteOrderItem{
				{ProductID: "prod-a", Quantity: 1, UnitPrice: 50, TotalPrice: 50},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "web-42", order.ID)
		assert.Equal(t, "WEB-42", order.OrderNumber)
	})

	t.Run("empty id from create", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret", 5*time.Second)
		_, err := client.CreateWebsiteOrder(WebsiteOrderRequest{UserID: 7})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty order id")
	})

	t.Run("detail fetch fails", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/website-orders", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"id": "web-42"})
		})
		mux.HandleFunc("GET /api/website-orders/{id}", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := NewClient(server.URL, "secret", 5*time.Second)
		_, err := client.CreateWebsiteOrder(WebsiteOrderRequest{UserID: 7})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch details")
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret", 5*time.Second)
		assert.True(t, client.Health())
	})

	t.Run("unhealthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret", 5*time.Second)
		assert.False(t, client.Health())
	})

	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "secret", time.Second)
		assert.False(t, client.Health())
	})
}
