package models

import "time"

// NotificationType classifies a toast notification.
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
)

// Notification is a dismissible toast shown by the screen and
// auto-expired by the controller.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}
