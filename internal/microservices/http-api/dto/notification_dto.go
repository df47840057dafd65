package dto

import "time"

// NotificationItem: one notification as shaped for list responses.
// ReminderTitle and AllocationName are null when the source reminder has
// been deleted since the notification fired.
type NotificationItem struct {
	ID             string    `json:"id"`
	ReminderID     string    `json:"reminderId"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	ReminderTitle  *string   `json:"reminderTitle"`
	AllocationName *string   `json:"allocationName"`
}

// NotificationListResponse: paginated notification list
type NotificationListResponse struct {
	Status            bool               `json:"status"`
	Data              []NotificationItem `json:"data"`
	TotalPage         int                `json:"totalPage"`
	TotalNotification int64              `json:"totalNotification"`
}

// NotificationBulkRequest: bulk action applied to all of the owner's
// notifications
type NotificationBulkRequest struct {
	Action string `json:"action" binding:"required,oneof=read delete"`
}
