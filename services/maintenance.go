// services/maintenance.go - background retention tasks
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"goaltrack/repository"
)

// MaintenanceService runs periodic housekeeping: read unlock notifications
// past the retention window are purged. Unread notifications are kept forever.
type MaintenanceService struct {
	notifications repository.NotificationRepository
	interval      time.Duration
	retention     time.Duration
	stop          chan struct{}
}

func NewMaintenanceService(notifications repository.NotificationRepository, interval, retention time.Duration) *MaintenanceService {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &MaintenanceService{
		notifications: notifications,
		interval:      interval,
		retention:     retention,
		stop:          make(chan struct{}),
	}
}

// Start launches the maintenance loop.
func (s *MaintenanceService) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.PurgeOldNotifications(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the maintenance loop.
func (s *MaintenanceService) Stop() {
	close(s.stop)
}

// PurgeOldNotifications deletes read notifications older than the retention
// window.
func (s *MaintenanceService) PurgeOldNotifications(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.retention)
	n, err := s.notifications.PurgeReadOlderThan(ctx, cutoff)
	if err != nil {
		logrus.WithError(err).Error("notification purge failed")
		return
	}
	if n > 0 {
		logrus.WithField("purged", n).Info("purged old notifications")
	}
}
