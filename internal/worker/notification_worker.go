package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/freelance-marketplace/internal/events"
	"github.com/spec-kit/freelance-marketplace/internal/service"
)

// NotificationWorker owns the lifecycle of the notification handlers.
type NotificationWorker struct {
	notifications *service.NotificationService
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// StartNotificationWorker registers notification handlers on the dispatcher.
func StartNotificationWorker(notifications *service.NotificationService, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &NotificationWorker{notifications: notifications, dispatcher: dispatcher, logger: logger}
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	return w
}

// Stop waits for in-flight notifications until ctx is done. It reports
// whether everything drained in time.
func (w *NotificationWorker) Stop(ctx context.Context) bool {
	if w == nil || w.dispatcher == nil {
		return true
	}
	done := make(chan struct{})
	go func() {
		w.dispatcher.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		w.logger.Warn("notifications still in flight at shutdown", zap.Error(ctx.Err()))
		return false
	}
}
