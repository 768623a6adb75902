package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/service"
	"github.com/luiginoIori/Pilates/pkg/response"
)

// FinanceHandler 财务模块 HTTP 处理器
type FinanceHandler struct {
	svc service.FinanceService
}

// NewFinanceHandler 创建 FinanceHandler
func NewFinanceHandler(svc service.FinanceService) *FinanceHandler {
	return &FinanceHandler{svc: svc}
}

// ── 应收 ──

// CreateReceivable 登记应收账款
// POST /api/v1/finance/receivables
func (h *FinanceHandler) CreateReceivable(c *gin.Context) {
	var req dto.CreateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	r, err := h.svc.CreateReceivable(c.Request.Context(), &req)
	if err != nil {
		handleFinanceError(c, err)
		return
	}

	response.Created(c, r)
}

// ListReceivables 应收账款列表（分页）
// GET /api/v1/finance/receivables
func (h *FinanceHandler) ListReceivables(c *gin.Context) {
	var req dto.ReceivableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros de filtro inválidos")
		return
	}

	list, total, err := h.svc.ListReceivables(c.Request.Context(), &req)
	if err != nil {
		handleFinanceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// SettleReceivable 收款结算
// PUT /api/v1/finance/receivables/:id/settle
func (h *FinanceHandler) SettleReceivable(c *gin.Context) {
	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	r, err := h.svc.SettleReceivable(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleFinanceError(c, err)
		return
	}

	response.OK(c, r)
}

// DeleteReceivable 删除应收账款
// DELETE /api/v1/finance/receivables/:id
func (h *FinanceHandler) DeleteReceivable(c *gin.Context) {
	if err := h.svc.DeleteReceivable(c.Request.Context(), c.Param("id")); err != nil {
		handleFinanceError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 应付 ──

// CreatePayable 登记应付账款（mensal 按月展开分期）
// POST /api/v1/finance/payables
func (h *FinanceHandler) CreatePayable(c *gin.Context) {
	var req dto.CreatePayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	p, err := h.svc.CreatePayable(c.Request.Context(), &req)
	if err != nil {
		handleFinanceError(c, err)
		return
	}

	response.Created(c, p)
}

// GetPayable 获取应付账款详情（含分期）
// GET /api/v1/finance/payables/:id
func (h *FinanceHandler) GetPayable(c *gin.Context) {
	p, err := h.svc.GetPayable(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleFinanceError(c, err)
		return
	}

	response.OK(c, p)
}

// ListPayables 应付账款列表（分页）
// GET /api/v1/finance/payables
func (h *FinanceHandler) ListPayables(c *gin.Context) {
	var req dto.PayableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros de filtro inválidos")
		return
	}

	list, total, err := h.svc.ListPayables(c.Request.Context(), &req)
	if err != nil {
		handleFinanceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// SettleInstallment 付款结算单个分期，全部结清时父账款同步结清
// PUT /api/v1/finance/installments/:id/settle
func (h *FinanceHandler) SettleInstallment(c *gin.Context) {
	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	if err := h.svc.SettleInstallment(c.Request.Context(), c.Param("id"), &req); err != nil {
		handleFinanceError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeletePayable 删除应付账款及其分期
// DELETE /api/v1/finance/payables/:id
func (h *FinanceHandler) DeletePayable(c *gin.Context) {
	if err := h.svc.DeletePayable(c.Request.Context(), c.Param("id")); err != nil {
		handleFinanceError(c, err)
		return
	}

	response.OK(c, nil)
}

// CashFlow 月度现金流汇总
// GET /api/v1/finance/cash-flow?month=AAAA-MM
func (h *FinanceHandler) CashFlow(c *gin.Context) {
	var req dto.CashFlowRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	flow, err := h.svc.CashFlow(c.Request.Context(), &req)
	if err != nil {
		handleFinanceError(c, err)
		return
	}

	response.OK(c, flow)
}

// handleFinanceError 财务模块业务错误到 HTTP 响应的映射
func handleFinanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReceivableNotFound):
		response.NotFound(c, 17001, service.ErrReceivableNotFound.Error())
	case errors.Is(err, service.ErrPayableNotFound):
		response.NotFound(c, 17002, service.ErrPayableNotFound.Error())
	case errors.Is(err, service.ErrInvalidDueDate):
		response.BadRequest(c, 17003, service.ErrInvalidDueDate.Error())
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 17004, service.ErrInvalidMonth.Error())
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 12001, service.ErrClientNotFound.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/finance_handler.go
