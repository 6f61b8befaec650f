package models

import (
	"time"
)

// CustomerInfo is a snapshot of shipping and contact details taken at
// checkout. It is frozen on the order and never re-synced with later
// profile changes.
type CustomerInfo struct {
	FirstName  string `json:"first_name" gorm:"column:customer_first_name"`
	LastName   string `json:"last_name" gorm:"column:customer_last_name"`
	Email      string `json:"email" gorm:"column:customer_email"`
	Phone      string `json:"phone" gorm:"column:customer_phone"`
	Address    string `json:"address" gorm:"column:shipping_address"`
	City       string `json:"city" gorm:"column:shipping_city"`
	State      string `json:"state" gorm:"column:shipping_state"`
	PostalCode string `json:"postal_code" gorm:"column:shipping_postal_code"`
	Country    string `json:"country" gorm:"column:shipping_country"`
}

// CartItem is one line of a cart: a product snapshot plus quantity. Orders
// keep their own copy so later cart or catalog changes never touch them.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID             string       `json:"id" gorm:"primaryKey"`
	OrderNumber    string       `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerInfo   CustomerInfo `json:"customer_info" gorm:"embedded"`
	Items          []CartItem   `json:"items" gorm:"serializer:json"`
	Subtotal       float64      `json:"subtotal"`
	Tax            float64      `json:"tax"`
	Shipping       float64      `json:"shipping"`
	TotalAmount    float64      `json:"total_amount"`
	PaymentMethod  string       `json:"payment_method"`
	OrderDate      time.Time    `json:"order_date" gorm:"index"`
	Status         string       `json:"status" gorm:"default:'pending'"`
	SyncStatus     string       `json:"sync_status" gorm:"default:'pending'"`
	ERPOrderID     string       `json:"erp_order_id,omitempty" gorm:"column:erp_order_id"`
	ERPOrderNumber string       `json:"erp_order_number,omitempty" gorm:"column:erp_order_number"`
	Notes          string       `json:"notes,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncFailed  SyncStatus = "failed"
)

// ValidOrderStatus reports whether s is one of the known fulfillment states.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderStatistics aggregates counts and revenue over all orders.
type OrderStatistics struct {
	TotalOrders    int            `json:"total_orders"`
	TotalRevenue   float64        `json:"total_revenue"`
	OrdersByStatus map[string]int `json:"orders_by_status"`
	SyncStatistics map[string]int `json:"sync_statistics"`
}
