package handlers

import (
	"net/http"
	"time"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService   services.OrderService
	productService services.ProductService
	syncService    services.ERPSyncService
}

func NewOrderHandler(orderService services.OrderService, productService services.ProductService, syncService services.ERPSyncService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		productService: productService,
		syncService:    syncService,
	}
}

type checkoutItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type checkoutRequest struct {
	Items         []checkoutItem   `json:"items" binding:"required,min=1,dive"`
	CustomerInfo  checkoutCustomer `json:"customer_info" binding:"required"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
}

type checkoutCustomer struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country"`
}

// Checkout creates an order from the submitted cart. Validation failures
// are rejected here; once they pass, order creation always succeeds even
// when the ERP is unreachable.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// Line items are priced from the catalog, never from the client.
	cartItems := make([]models.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, err := h.productService.GetProduct(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product: " + item.ProductID})
			return
		}
		cartItems = append(cartItems, models.CartItem{Product: *product, Quantity: item.Quantity})
	}

	customerInfo := models.CustomerInfo{
		FirstName:  req.CustomerInfo.FirstName,
		LastName:   req.CustomerInfo.LastName,
		Email:      req.CustomerInfo.Email,
		Phone:      req.CustomerInfo.Phone,
		Address:    req.CustomerInfo.Address,
		City:       req.CustomerInfo.City,
		State:      req.CustomerInfo.State,
		PostalCode: req.CustomerInfo.PostalCode,
		Country:    req.CustomerInfo.Country,
	}

	customerID := uint(0)
	if id, ok := c.Get("customer_id"); ok {
		customerID = id.(uint)
	}

	order, err := h.orderService.CreateOrder(cartItems, customerInfo, req.PaymentMethod, customerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, ok := h.orderService.GetOrder(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrderByNumber(c *gin.Context) {
	order, ok := h.orderService.GetOrderByNumber(c.Param("number"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrders serves all orders, optionally filtered by customer email,
// search query or date range.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		c.JSON(http.StatusOK, h.orderService.GetCustomerOrders(email))
		return
	}
	if q := c.Query("q"); q != "" {
		c.JSON(http.StatusOK, h.orderService.SearchOrders(q))
		return
	}
	if startStr := c.Query("start"); startStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date"})
			return
		}
		end, err := time.Parse(time.RFC3339, c.Query("end"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date"})
			return
		}
		c.JSON(http.StatusOK, h.orderService.GetOrdersByDateRange(start, end))
		return
	}

	c.JSON(http.StatusOK, h.orderService.GetAllOrders())
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + req.Status})
		return
	}

	if !h.orderService.UpdateOrderStatus(c.Param("id"), req.Status) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional for cancellation.
	_ = c.ShouldBindJSON(&req)

	if !h.orderService.CancelOrder(c.Param("id"), req.Reason) {
		c.JSON(http.StatusConflict, gin.H{"error": "Order cannot be cancelled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(models.OrderCancelled)})
}

func (h *OrderHandler) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.orderService.GetOrderStatistics())
}

func (h *OrderHandler) RetrySyncs(c *gin.Context) {
	h.orderService.RetryFailedSyncs()
	h.syncService.RetryFailedOrders()
	c.JSON(http.StatusAccepted, gin.H{"status": "retry started"})
}

// ClearAll is administrative only; it wipes every order.
func (h *OrderHandler) ClearAll(c *gin.Context) {
	h.orderService.ClearAllOrders()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *OrderHandler) SyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.syncService.GetSyncStatus(c.Param("orderId")))
}

func (h *OrderHandler) SyncHealth(c *gin.Context) {
	healthy := h.syncService.CheckERPHealth()
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"healthy": healthy})
}
