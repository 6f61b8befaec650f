package services

import (
	"errors"
	"sync"

	"storefront/internal/models"
	"storefront/pkg/erp"
)

// In-memory fakes for the repository and store interfaces, so service
// tests run without postgres or redis.

type fakeOrderRepo struct {
	mu      sync.Mutex
	saved   map[string]models.Order
	loadErr error
	saveErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{saved: make(map[string]models.Order)}
}

func (f *fakeOrderRepo) Save(order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[order.ID] = *order
	return nil
}

func (f *fakeOrderRepo) LoadAll() ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	orders := make([]models.Order, 0, len(f.saved))
	for _, order := range f.saved {
		orders = append(orders, order)
	}
	return orders, nil
}

func (f *fakeOrderRepo) DeleteAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = make(map[string]models.Order)
	return nil
}

type fakeERPClient struct {
	mu sync.Mutex

	syncErr   error
	syncResp  erp.SyncOrderResponse
	syncCalls []models.OrderSyncPayload

	createErr   error
	createResp  *erp.WebsiteOrder
	createCalls []erp.WebsiteOrderRequest

	healthy bool
}

func (f *fakeERPClient) SyncOrder(payload models.OrderSyncPayload) (*erp.SyncOrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncCalls = append(f.syncCalls, payload)
	if f.syncErr != nil {
		return nil, f.syncErr
	}
	resp := f.syncResp
	return &resp, nil
}

func (f *fakeERPClient) CreateWebsiteOrder(req erp.WebsiteOrderRequest) (*erp.WebsiteOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResp == nil {
		return nil, errors.New("no response configured")
	}
	resp := *f.createResp
	return &resp, nil
}

func (f *fakeERPClient) Health() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthy
}

func (f *fakeERPClient) syncCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.syncCalls)
}

type fakeSyncLedger struct {
	mu      sync.Mutex
	nextID  uint
	entries []models.FailedSync
	dead    []models.DeadLetterSync
}

func newFakeSyncLedger() *fakeSyncLedger {
	return &fakeSyncLedger{nextID: 1}
}

func (f *fakeSyncLedger) UpsertFailed(entry *models.FailedSync) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].OrderID == entry.OrderID {
			f.entries[i].Payload = entry.Payload
			f.entries[i].FailedAt = entry.FailedAt
			return nil
		}
	}
	entry.ID = f.nextID
	f.nextID++
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeSyncLedger) ListFailed() ([]models.FailedSync, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.FailedSync, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeSyncLedger) UpdateRetryCount(id uint, retryCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i].RetryCount = retryCount
			return nil
		}
	}
	return errors.New("entry not found")
}

func (f *fakeSyncLedger) DeleteByOrderID(orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.OrderID != orderID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeSyncLedger) MoveToDeadLetter(entry *models.FailedSync) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.ID != entry.ID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	f.dead = append(f.dead, models.DeadLetterSync{
		OrderID:    entry.OrderID,
		Payload:    entry.Payload,
		FailedAt:   entry.FailedAt,
		RetryCount: entry.RetryCount,
	})
	return nil
}

func (f *fakeSyncLedger) ListDeadLetters() ([]models.DeadLetterSync, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.DeadLetterSync, len(f.dead))
	copy(out, f.dead)
	return out, nil
}

func (f *fakeSyncLedger) failedEntries() []models.FailedSync {
	entries, _ := f.ListFailed()
	return entries
}

func (f *fakeSyncLedger) deadEntries() []models.DeadLetterSync {
	entries, _ := f.ListDeadLetters()
	return entries
}

type fakeSyncInfoStore struct {
	mu    sync.Mutex
	infos map[string]models.SyncInfo
}

func newFakeSyncInfoStore() *fakeSyncInfoStore {
	return &fakeSyncInfoStore{infos: make(map[string]models.SyncInfo)}
}

func (f *fakeSyncInfoStore) SetSyncInfo(info *models.SyncInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infos[info.OrderID] = *info
	return nil
}

func (f *fakeSyncInfoStore) GetSyncInfo(orderID string) (*models.SyncInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.infos[orderID]
	if !ok {
		return nil, errors.New("sync info not found")
	}
	return &info, nil
}
