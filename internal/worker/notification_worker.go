package worker

import (
	"github.com/spec-kit/hr-helpdesk/internal/service"
)

// StartNotificationWorker registers the ticket notification handlers on the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
