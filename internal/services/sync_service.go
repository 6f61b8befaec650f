package services

import (
	"time"

	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/pkg/erp"

	"go.uber.org/zap"
)

// ERPClient is the remote surface the sync layer depends on. pkg/erp
// implements it; tests substitute a scripted fake.
type ERPClient interface {
	SyncOrder(payload models.OrderSyncPayload) (*erp.SyncOrderResponse, error)
	CreateWebsiteOrder(req erp.WebsiteOrderRequest) (*erp.WebsiteOrder, error)
	Health() bool
}

// SyncInfoStore keeps one record per successfully synced order for
// idempotent status lookups. The redis client implements it.
type SyncInfoStore interface {
	SetSyncInfo(info *models.SyncInfo) error
	GetSyncInfo(orderID string) (*models.SyncInfo, error)
}

// ERPSyncService isolates order creation from ERP integration failure.
// Remote errors never cross this boundary: every attempt produces a
// SyncResult, and failed payloads land in the retry ledger.
type ERPSyncService interface {
	SyncOrderToERP(payload models.OrderSyncPayload) models.SyncResult
	RetryFailedOrders()
	GetSyncStatus(orderID string) models.SyncStatusResult
	CheckERPHealth() bool
	Initialize()
}

type erpSyncService struct {
	erp        ERPClient
	ledger     repository.SyncRepository
	info       SyncInfoStore
	maxRetries int
	logger     *zap.Logger
}

func NewERPSyncService(erpClient ERPClient, ledger repository.SyncRepository, info SyncInfoStore, maxRetries int, logger *zap.Logger) ERPSyncService {
	return &erpSyncService{
		erp:        erpClient,
		ledger:     ledger,
		info:       info,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (s *erpSyncService) SyncOrderToERP(payload models.OrderSyncPayload) models.SyncResult {
	resp, err := s.erp.SyncOrder(payload)
	if err != nil {
		s.logger.Error("order sync failed",
			zap.String("order_id", payload.OrderID),
			zap.Error(err))

		entry := &models.FailedSync{
			OrderID:    payload.OrderID,
			Payload:    payload,
			FailedAt:   time.Now(),
			RetryCount: 0,
		}
		if ledgerErr := s.ledger.UpsertFailed(entry); ledgerErr != nil {
			s.logger.Error("failed to record sync for retry",
				zap.String("order_id", payload.OrderID),
				zap.Error(ledgerErr))
		}

		return models.SyncResult{Success: false, Error: err.Error()}
	}

	s.recordSuccess(payload.OrderID, resp)

	return models.SyncResult{
		Success:        true,
		ERPOrderID:     resp.OrderID,
		ERPOrderNumber: resp.OrderNumber,
	}
}

func (s *erpSyncService) RetryFailedOrders() {
	entries, err := s.ledger.ListFailed()
	if err != nil {
		s.logger.Error("failed to load sync ledger", zap.Error(err))
		return
	}
	if len(entries) == 0 {
		return
	}

	s.logger.Info("retrying failed order syncs", zap.Int("count", len(entries)))

	for _, entry := range entries {
		// Entries should be dead-lettered as soon as they exhaust their
		// budget, but a crash between increment and move can leave one
		// behind.
		if entry.RetryCount >= s.maxRetries {
			s.deadLetter(&entry)
			continue
		}

		resp, err := s.erp.SyncOrder(entry.Payload)
		if err == nil {
			s.recordSuccess(entry.OrderID, resp)
			s.logger.Info("order sync retry succeeded",
				zap.String("order_id", entry.OrderID),
				zap.String("erp_order_number", resp.OrderNumber))
			continue
		}

		entry.RetryCount++
		s.logger.Warn("order sync retry failed",
			zap.String("order_id", entry.OrderID),
			zap.Int("retry_count", entry.RetryCount),
			zap.Error(err))

		if entry.RetryCount >= s.maxRetries {
			s.deadLetter(&entry)
			continue
		}
		if err := s.ledger.UpdateRetryCount(entry.ID, entry.RetryCount); err != nil {
			s.logger.Error("failed to update retry count",
				zap.String("order_id", entry.OrderID),
				zap.Error(err))
		}
	}
}

func (s *erpSyncService) GetSyncStatus(orderID string) models.SyncStatusResult {
	info, err := s.info.GetSyncInfo(orderID)
	if err != nil {
		return models.SyncStatusResult{Synced: false}
	}
	return models.SyncStatusResult{
		Synced:         true,
		ERPOrderID:     info.ERPOrderID,
		ERPOrderNumber: info.ERPOrderNumber,
	}
}

func (s *erpSyncService) CheckERPHealth() bool {
	return s.erp.Health()
}

// Initialize checks ERP health and, if reachable, runs one retry pass over
// the ledger. Called once at startup.
func (s *erpSyncService) Initialize() {
	healthy := s.CheckERPHealth()
	if !healthy {
		s.logger.Warn("erp unavailable, skipping sync retry pass")
		return
	}
	s.RetryFailedOrders()
}

func (s *erpSyncService) recordSuccess(orderID string, resp *erp.SyncOrderResponse) {
	info := &models.SyncInfo{
		OrderID:        orderID,
		ERPOrderID:     resp.OrderID,
		ERPOrderNumber: resp.OrderNumber,
		SyncedAt:       time.Now(),
	}
	if err := s.info.SetSyncInfo(info); err != nil {
		s.logger.Error("failed to store sync info",
			zap.String("order_id", orderID),
			zap.Error(err))
	}
	if err := s.ledger.DeleteByOrderID(orderID); err != nil {
		s.logger.Error("failed to clear ledger entry",
			zap.String("order_id", orderID),
			zap.Error(err))
	}
}

func (s *erpSyncService) deadLetter(entry *models.FailedSync) {
	if err := s.ledger.MoveToDeadLetter(entry); err != nil {
		s.logger.Error("failed to move sync to dead letter",
			zap.String("order_id", entry.OrderID),
			zap.Error(err))
		return
	}
	s.logger.Warn("order sync exhausted retries, moved to dead letter",
		zap.String("order_id", entry.OrderID),
		zap.Int("retry_count", entry.RetryCount))
}
