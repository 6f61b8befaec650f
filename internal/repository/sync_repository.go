package repository

import (
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncRepository persists the failed-sync ledger and the dead-letter set.
type SyncRepository interface {
	// UpsertFailed records a failed attempt for an order. An existing
	// entry for the same order keeps its retry count; only the failure
	// timestamp and payload are refreshed.
	UpsertFailed(entry *models.FailedSync) error
	ListFailed() ([]models.FailedSync, error)
	UpdateRetryCount(id uint, retryCount int) error
	DeleteByOrderID(orderID string) error
	// MoveToDeadLetter removes a ledger entry and records it in the
	// dead-letter table.
	MoveToDeadLetter(entry *models.FailedSync) error
	ListDeadLetters() ([]models.DeadLetterSync, error)
}

type syncRepository struct {
	db *gorm.DB
}

func NewSyncRepository(db *gorm.DB) SyncRepository {
	return &syncRepository{db: db}
}

func (r *syncRepository) UpsertFailed(entry *models.FailedSync) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "failed_at"}),
	}).Create(entry).Error
}

func (r *syncRepository) ListFailed() ([]models.FailedSync, error) {
	var entries []models.FailedSync
	err := r.db.Order("failed_at asc").Find(&entries).Error
	return entries, err
}

func (r *syncRepository) UpdateRetryCount(id uint, retryCount int) error {
	return r.db.Model(&models.FailedSync{}).Where("id = ?", id).Update("retry_count", retryCount).Error
}

func (r *syncRepository) DeleteByOrderID(orderID string) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.FailedSync{}).Error
}

func (r *syncRepository) MoveToDeadLetter(entry *models.FailedSync) error {
	dead := &models.DeadLetterSync{
		OrderID:     entry.OrderID,
		Payload:     entry.Payload,
		FailedAt:    entry.FailedAt,
		RetryCount:  entry.RetryCount,
		ExhaustedAt: time.Now(),
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dead).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FailedSync{}, entry.ID).Error
	})
}

func (r *syncRepository) ListDeadLetters() ([]models.DeadLetterSync, error) {
	var entries []models.DeadLetterSync
	err := r.db.Order("exhausted_at desc").Find(&entries).Error
	return entries, err
}
