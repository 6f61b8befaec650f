package models

import "time"

// SyncItem is one order line re-keyed with the identifiers the ERP expects.
type SyncItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// OrderSyncPayload is the remote-facing shape of one order, built once from
// the local order and carried unchanged through retries.
type OrderSyncPayload struct {
	OrderID       string       `json:"order_id"`
	CustomerInfo  CustomerInfo `json:"customer_info"`
	Items         []SyncItem   `json:"items"`
	TotalAmount   float64      `json:"total_amount"`
	PaymentMethod string       `json:"payment_method"`
	OrderDate     time.Time    `json:"order_date"`
	Notes         string       `json:"notes,omitempty"`
}

// SyncResult is the outcome of one sync attempt. The sync boundary always
// returns a result value, never an error.
type SyncResult struct {
	Success        bool   `json:"success"`
	ERPOrderID     string `json:"erp_order_id,omitempty"`
	ERPOrderNumber string `json:"erp_order_number,omitempty"`
	Error          string `json:"error,omitempty"`
}

// SyncInfo is the per-order record kept after a successful sync, used for
// idempotent status lookups without touching the network.
type SyncInfo struct {
	OrderID        string    `json:"order_id"`
	ERPOrderID     string    `json:"erp_order_id"`
	ERPOrderNumber string    `json:"erp_order_number"`
	SyncedAt       time.Time `json:"synced_at"`
}

// SyncStatusResult answers "has this order reached the ERP yet".
type SyncStatusResult struct {
	Synced         bool   `json:"synced"`
	ERPOrderID     string `json:"erp_order_id,omitempty"`
	ERPOrderNumber string `json:"erp_order_number,omitempty"`
}

// FailedSync is one ledger entry for an order that could not be registered
// with the ERP. At most one entry exists per order id.
type FailedSync struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	OrderID    string           `json:"order_id" gorm:"uniqueIndex;not null"`
	Payload    OrderSyncPayload `json:"payload" gorm:"serializer:json"`
	FailedAt   time.Time        `json:"failed_at"`
	RetryCount int              `json:"retry_count"`
}

// DeadLetterSync holds ledger entries that exhausted their retry budget and
// need manual intervention. They are never retried automatically.
type DeadLetterSync struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	OrderID     string           `json:"order_id" gorm:"index;not null"`
	Payload     OrderSyncPayload `json:"payload" gorm:"serializer:json"`
	FailedAt    time.Time        `json:"failed_at"`
	RetryCount  int              `json:"retry_count"`
	ExhaustedAt time.Time        `json:"exhausted_at"`
}
