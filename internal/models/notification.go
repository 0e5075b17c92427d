package models

import (
	"time"
)

type Notification struct {
	BaseModel
	UserID        string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Type          string     `gorm:"not null" json:"type"` // "application_rejected", "order_rejected"
	Message       string     `json:"message"`
	ApplicationID string     `gorm:"type:varchar(36)" json:"application,omitempty"`
	Read          bool       `gorm:"column:is_read;default:false" json:"read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
}

func (n *Notification) Clone() *Notification {
	if n == nil {
		return nil
	}
	cp := *n
	cp.ReadAt = cloneTime(n.ReadAt)
	return &cp
}
