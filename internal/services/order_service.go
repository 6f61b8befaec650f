package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/pkg/erp"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyCart = errors.New("cart is empty")

// PricingPolicy holds the checkout constants applied at order creation.
// Orders keep the totals computed from the policy in force at that moment.
type PricingPolicy struct {
	TaxRate               float64
	FreeShippingThreshold float64
	FlatShippingFee       float64
}

// OrderService is the sole mutation point for orders. It owns the
// authoritative in-memory index and writes every change through to the
// order repository. Sync failure is recorded as order state, never raised
// to the caller: checkout always completes once validation passes.
type OrderService interface {
	CreateOrder(cartItems []models.CartItem, customerInfo models.CustomerInfo, paymentMethod string, customerID uint) (*models.Order, error)
	GetOrder(id string) (*models.Order, bool)
	GetOrderByNumber(number string) (*models.Order, bool)
	GetCustomerOrders(email string) []models.Order
	GetAllOrders() []models.Order
	UpdateOrderStatus(id, status string) bool
	CancelOrder(id, reason string) bool
	RetryFailedSyncs()
	GetOrderStatistics() models.OrderStatistics
	GetOrdersByDateRange(start, end time.Time) []models.Order
	SearchOrders(query string) []models.Order
	ClearAllOrders()
}

type orderService struct {
	mu     sync.RWMutex
	orders map[string]*models.Order

	repo    repository.OrderRepository
	erpSync ERPSyncService
	erp     ERPClient
	policy  PricingPolicy
	logger  *zap.Logger
}

// NewOrderService reloads the persisted snapshot into the in-memory index.
// A load failure degrades to an empty index rather than refusing to start.
func NewOrderService(repo repository.OrderRepository, syncSvc ERPSyncService, erpClient ERPClient, policy PricingPolicy, logger *zap.Logger) OrderService {
	s := &orderService{
		orders:  make(map[string]*models.Order),
		repo:    repo,
		erpSync: syncSvc,
		erp:     erpClient,
		policy:  policy,
		logger:  logger,
	}

	orders, err := repo.LoadAll()
	if err != nil {
		logger.Error("failed to load order snapshot, starting empty", zap.Error(err))
		return s
	}
	for i := range orders {
		order := orders[i]
		s.orders[order.ID] = &order
	}
	if len(orders) > 0 {
		logger.Info("loaded order snapshot", zap.Int("orders", len(orders)))
	}

	return s
}

func (s *orderService) CreateOrder(cartItems []models.CartItem, customerInfo models.CustomerInfo, paymentMethod string, customerID uint) (*models.Order, error) {
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()

	// Calculate totals
	subtotal := 0.0
	for _, item := range cartItems {
		subtotal += item.Product.Price * float64(item.Quantity)
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * s.policy.TaxRate)
	shipping := s.policy.FlatShippingFee
	if subtotal > s.policy.FreeShippingThreshold {
		shipping = 0
	}
	totalAmount := round2(subtotal + tax + shipping)

	// Snapshot the cart so later mutations never reach the order.
	items := make([]models.CartItem, len(cartItems))
	copy(items, cartItems)

	order := &models.Order{
		ID:            generateOrderID(now),
		OrderNumber:   generateOrderNumber(now),
		CustomerInfo:  customerInfo,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Shipping:      shipping,
		TotalAmount:   totalAmount,
		PaymentMethod: paymentMethod,
		OrderDate:     now,
		Status:        string(models.OrderPending),
		SyncStatus:    string(models.SyncPending),
	}

	// Primary path: an authenticated customer gets a direct order creation
	// in the ERP. Failure here is not fatal; the order falls back to the
	// integration sync path below.
	if customerID != 0 {
		if created, err := s.erp.CreateWebsiteOrder(websiteOrderRequest(order, customerID)); err != nil {
			s.logger.Warn("primary order creation failed, falling back to sync",
				zap.String("order_id", order.ID),
				zap.Error(err))
		} else {
			order.ERPOrderID = created.ID
			order.ERPOrderNumber = created.OrderNumber
			order.SyncStatus = string(models.SyncSynced)
			order.Status = string(models.OrderProcessing)
		}
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()
	s.persist(order)

	if order.SyncStatus != string(models.SyncSynced) {
		result := s.erpSync.SyncOrderToERP(syncPayload(order))
		s.mu.Lock()
		if result.Success {
			order.ERPOrderID = result.ERPOrderID
			order.ERPOrderNumber = result.ERPOrderNumber
			order.SyncStatus = string(models.SyncSynced)
		} else {
			order.SyncStatus = string(models.SyncFailed)
		}
		s.mu.Unlock()
		s.persist(order)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.TotalAmount),
		zap.String("sync_status", order.SyncStatus))

	return cloneOrder(order), nil
}

func (s *orderService) GetOrder(id string) (*models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, false
	}
	return cloneOrder(order), true
}

func (s *orderService) GetOrderByNumber(number string) (*models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, order := range s.orders {
		if order.OrderNumber == number {
			return cloneOrder(order), true
		}
	}
	return nil, false
}

func (s *orderService) GetCustomerOrders(email string) []models.Order {
	return s.collect(func(o *models.Order) bool {
		return strings.EqualFold(o.CustomerInfo.Email, email)
	})
}

func (s *orderService) GetAllOrders() []models.Order {
	return s.collect(func(*models.Order) bool { return true })
}

func (s *orderService) UpdateOrderStatus(id, status string) bool {
	s.mu.Lock()
	order, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	order.Status = status
	s.mu.Unlock()

	s.persist(order)
	return true
}

func (s *orderService) CancelOrder(id, reason string) bool {
	s.mu.Lock()
	order, ok := s.orders[id]
	if !ok || order.Status == string(models.OrderDelivered) {
		s.mu.Unlock()
		return false
	}
	order.Status = string(models.OrderCancelled)
	if reason != "" {
		order.Notes = order.Notes + "\nCancelled: " + reason
	}
	s.mu.Unlock()

	s.persist(order)
	return true
}

// RetryFailedSyncs re-attempts the ERP sync for every order whose sync
// previously failed. Individual failures are logged and skipped.
func (s *orderService) RetryFailedSyncs() {
	s.mu.RLock()
	var failed []*models.Order
	for _, order := range s.orders {
		if order.SyncStatus == string(models.SyncFailed) {
			failed = append(failed, order)
		}
	}
	s.mu.RUnlock()

	for _, order := range failed {
		result := s.erpSync.SyncOrderToERP(syncPayload(order))
		if !result.Success {
			s.logger.Warn("sync retry failed",
				zap.String("order_id", order.ID),
				zap.String("error", result.Error))
			continue
		}

		s.mu.Lock()
		order.ERPOrderID = result.ERPOrderID
		order.ERPOrderNumber = result.ERPOrderNumber
		order.SyncStatus = string(models.SyncSynced)
		s.mu.Unlock()
		s.persist(order)
	}
}

func (s *orderService) GetOrderStatistics() models.OrderStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.OrderStatistics{
		OrdersByStatus: make(map[string]int),
		SyncStatistics: make(map[string]int),
	}
	for _, order := range s.orders {
		stats.TotalOrders++
		stats.TotalRevenue += order.TotalAmount
		stats.OrdersByStatus[order.Status]++
		stats.SyncStatistics[order.SyncStatus]++
	}
	stats.TotalRevenue = round2(stats.TotalRevenue)
	return stats
}

func (s *orderService) GetOrdersByDateRange(start, end time.Time) []models.Order {
	return s.collect(func(o *models.Order) bool {
		return !o.OrderDate.Before(start) && !o.OrderDate.After(end)
	})
}

func (s *orderService) SearchOrders(query string) []models.Order {
	q := strings.ToLower(query)
	return s.collect(func(o *models.Order) bool {
		return strings.Contains(strings.ToLower(o.OrderNumber), q) ||
			strings.Contains(strings.ToLower(o.CustomerInfo.FirstName), q) ||
			strings.Contains(strings.ToLower(o.CustomerInfo.LastName), q) ||
			strings.Contains(strings.ToLower(o.CustomerInfo.Email), q) ||
			(o.ERPOrderNumber != "" && strings.Contains(strings.ToLower(o.ERPOrderNumber), q))
	})
}

// ClearAllOrders empties the index and its persisted snapshot. Intended
// for administrative and test use only.
func (s *orderService) ClearAllOrders() {
	s.mu.Lock()
	s.orders = make(map[string]*models.Order)
	s.mu.Unlock()

	if err := s.repo.DeleteAll(); err != nil {
		s.logger.Error("failed to clear persisted orders", zap.Error(err))
	}
}

// collect returns matching orders sorted by order date descending.
func (s *orderService) collect(match func(*models.Order) bool) []models.Order {
	s.mu.RLock()
	result := make([]models.Order, 0)
	for _, order := range s.orders {
		if match(order) {
			result = append(result, *cloneOrder(order))
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderDate.After(result[j].OrderDate)
	})
	return result
}

// persist writes one order through to storage. Persistence failure is
// best effort: the order stays valid in memory.
func (s *orderService) persist(order *models.Order) {
	s.mu.RLock()
	snapshot := cloneOrder(order)
	s.mu.RUnlock()

	if err := s.repo.Save(snapshot); err != nil {
		s.logger.Error("failed to persist order",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

func syncPayload(order *models.Order) models.OrderSyncPayload {
	items := make([]models.SyncItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = models.SyncItem{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			SKU:         item.Product.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
			TotalPrice:  round2(item.Product.Price * float64(item.Quantity)),
		}
	}
	return models.OrderSyncPayload{
		OrderID:       order.ID,
		CustomerInfo:  order.CustomerInfo,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		OrderDate:     order.OrderDate,
		Notes:         "E-commerce order " + order.OrderNumber,
	}
}

func websiteOrderRequest(order *models.Order, customerID uint) erp.WebsiteOrderRequest {
	items := make([]erp.WebsiteOrderItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = erp.WebsiteOrderItem{
			ProductID:  item.Product.ID,
			Quantity:   item.Quantity,
			UnitPrice:  item.Product.Price,
			TotalPrice: round2(item.Product.Price * float64(item.Quantity)),
		}
	}
	return erp.WebsiteOrderRequest{
		UserID:             customerID,
		TotalAmount:        order.TotalAmount,
		PaymentMethod:      order.PaymentMethod,
		ShippingAddress:    order.CustomerInfo.Address,
		ShippingCity:       order.CustomerInfo.City,
		ShippingPostalCode: order.CustomerInfo.PostalCode,
		Notes:              "E-commerce order " + order.OrderNumber,
		Items:              items,
	}
}

func cloneOrder(order *models.Order) *models.Order {
	clone := *order
	clone.Items = make([]models.CartItem, len(order.Items))
	copy(clone.Items, order.Items)
	return &clone
}

func generateOrderID(now time.Time) string {
	return fmt.Sprintf("order-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

func generateOrderNumber(now time.Time) string {
	ts := fmt.Sprintf("%d", now.UnixMilli())
	return fmt.Sprintf("ORD-%s%03d", ts[len(ts)-6:], rand.Intn(1000))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
