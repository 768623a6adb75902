package dto

// ── 固定时段模块 DTO ──

// CreateFixedScheduleRequest 创建固定时段请求
type CreateFixedScheduleRequest struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
	Weekday  int    `json:"weekday"   binding:"required,min=1,max=5"`
	Time     string `json:"time"      binding:"required"`
}

// FixedScheduleResponse 固定时段响应
type FixedScheduleResponse struct {
	ID            string `json:"id"`
	ClientID      string `json:"client_id"`
	ClientName    string `json:"client_name,omitempty"`
	Weekday       int    `json:"weekday"`
	Time          string `json:"time"`
	EquipmentID   string `json:"equipment_id,omitempty"`
	EquipmentName string `json:"equipment_name,omitempty"`
	ScheduleType  string `json:"schedule_type"`
	IsActive      bool   `json:"is_active"`
}

// ConflictAuditResponse 设备冲突审计结果
type ConflictAuditResponse struct {
	ConflictGroups int      `json:"conflict_groups"` // 发现的冲突组数
	Reassigned     int      `json:"reassigned"`      // 重新分配的时段数
	Passes         int      `json:"passes"`          // 收敛所需轮数
	Details        []string `json:"details,omitempty"`
}

// DailyRotationResponse 每日轮换结果
type DailyRotationResponse struct {
	Rotated       int `json:"rotated"`        // 被重新指派设备的时段数
	SkippedGroups int `json:"skipped_groups"` // 设备不足而跳过的时段组数
}

// ── 设备轮换序列 DTO ──

// CreateSequenceRequest 创建轮换序列请求
type CreateSequenceRequest struct {
	ClientID       string   `json:"client_id"       binding:"required,uuid"`
	Name           string   `json:"name"            binding:"required,min=2,max=100"`
	Weekday        int      `json:"weekday"         binding:"required,min=1,max=5"`
	EquipmentOrder []string `json:"equipment_order" binding:"required,min=1,dive,uuid"`
}

// SetSequencePositionRequest 设置轮换游标请求
type SetSequencePositionRequest struct {
	Position int `json:"position" binding:"min=0"`
}

// SequenceResponse 轮换序列响应
type SequenceResponse struct {
	ID               string   `json:"id"`
	ClientID         string   `json:"client_id"`
	Name             string   `json:"name"`
	Weekday          int      `json:"weekday"`
	EquipmentOrder   []string `json:"equipment_order"`
	CurrentPosition  int      `json:"current_position"`
	CurrentEquipment string   `json:"current_equipment,omitempty"`
	IsActive         bool     `json:"is_active"`
}

// [自证通过] internal/dto/schedule.go
