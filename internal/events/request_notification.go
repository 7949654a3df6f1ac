package events

// RequestNotificationTopic carries employee-facing notifications about
// request status changes. Messages are keyed by recipient employee id.
const RequestNotificationTopic = "erp.request.notification.v1"

const (
	EventRequestStatusNotification = "request.status_notification"
	AggregateRequest               = "request"
)
