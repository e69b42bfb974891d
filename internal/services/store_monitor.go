package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultMonitorSchedule is how often the durable store is pinged
const DefaultMonitorSchedule = "@every 30s"

// StoreMonitor periodically pings the durable store and flips the
// FallbackStore between durable and in-memory storage
type StoreMonitor struct {
	store   *FallbackStore
	cron    *cron.Cron
	timeout time.Duration
}

// NewStoreMonitor creates a monitor for store
func NewStoreMonitor(store *FallbackStore) *StoreMonitor {
	return &StoreMonitor{
		store:   store,
		cron:    cron.New(),
		timeout: 5 * time.Second,
	}
}

// Schedule registers the ping job; schedule uses robfig/cron syntax
func (m *StoreMonitor) Schedule(schedule string) (cron.EntryID, error) {
	entryID, err := m.cron.AddFunc(schedule, m.Check)
	if err != nil {
		return 0, fmt.Errorf("failed to schedule store monitor: %w", err)
	}
	log.Printf("[STORE] Availability monitor scheduled (%s)", schedule)
	return entryID, nil
}

// Check pings the durable store once
func (m *StoreMonitor) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := m.store.Ping(ctx); err != nil {
		log.Printf("WARNING: [STORE] ping failed: %v", err)
	}
}

// Start starts the cron scheduler
func (m *StoreMonitor) Start() {
	m.cron.Start()
	log.Println("[STORE] Availability monitor started")
}

// Stop stops the cron scheduler and waits for a running check to finish
func (m *StoreMonitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("[STORE] Availability monitor stopped")
}
