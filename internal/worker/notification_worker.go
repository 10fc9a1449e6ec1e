package worker

import (
	"github.com/telaviv/ops-dashboard/internal/events"
	"github.com/telaviv/ops-dashboard/internal/service"
)

// StartNotificationWorker subscribes the notice queue and the screen
// registry to session lifecycle events.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, registry *service.ScreenRegistry) {
	if dispatcher == nil {
		return
	}
	if notifications != nil {
		notifications.RegisterHandlers(dispatcher)
	}
	if registry != nil {
		registry.RegisterHandlers(dispatcher)
	}
}
