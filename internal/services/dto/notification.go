package dto

import "time"

type NotificationResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Message       string     `json:"message"`
	ApplicationID string     `json:"application,omitempty"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int                     `json:"total"`
	Unread        int                     `json:"unread"`
}

type NotificationListQuery struct {
	UnreadOnly bool `form:"unread_only" json:"unread_only"`
}
