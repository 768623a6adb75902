package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/luiginoIori/Pilates/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Name
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListClients(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == model.RoleClient {
			result = append(result, *u)
		}
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) IncrementUsedSessions(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.UsedSessions++
	return nil
}

// ── Mock EquipmentRepository ──
// 切片保持登记顺序（List 的规范顺序，轮换偏移依赖它）

type mockEquipmentRepo struct {
	items []*model.Equipment
}

func newMockEquipmentRepo() *mockEquipmentRepo {
	return &mockEquipmentRepo{}
}

func (m *mockEquipmentRepo) Create(_ context.Context, eq *model.Equipment) error {
	if eq.EquipmentID == "" {
		eq.EquipmentID = "eq-" + eq.Name
	}
	m.items = append(m.items, eq)
	return nil
}

func (m *mockEquipmentRepo) GetByID(_ context.Context, id string) (*model.Equipment, error) {
	for _, eq := range m.items {
		if eq.EquipmentID == id {
			return eq, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEquipmentRepo) List(_ context.Context) ([]model.Equipment, error) {
	result := make([]model.Equipment, 0, len(m.items))
	for _, eq := range m.items {
		result = append(result, *eq)
	}
	return result, nil
}

func (m *mockEquipmentRepo) Update(_ context.Context, eq *model.Equipment) error {
	for i := range m.items {
		if m.items[i].EquipmentID == eq.EquipmentID {
			m.items[i] = eq
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockEquipmentRepo) Delete(_ context.Context, id string) error {
	for i := range m.items {
		if m.items[i].EquipmentID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock FixedScheduleRepository ──
// 切片保持创建顺序（ListAll 按 created_at 排序，审计先到先得依赖它）

type mockFixedScheduleRepo struct {
	entries []*model.FixedSchedule
	nextID  int
}

func newMockFixedScheduleRepo() *mockFixedScheduleRepo {
	return &mockFixedScheduleRepo{}
}

func (m *mockFixedScheduleRepo) Create(_ context.Context, entry *model.FixedSchedule) error {
	if entry.ScheduleID == "" {
		m.nextID++
		entry.ScheduleID = fmt.Sprintf("fs-%d", m.nextID)
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockFixedScheduleRepo) GetByID(_ context.Context, id string) (*model.FixedSchedule, error) {
	for _, e := range m.entries {
		if e.ScheduleID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFixedScheduleRepo) GetByClientSlot(_ context.Context, clientID string, weekday int, t string) (*model.FixedSchedule, error) {
	for _, e := range m.entries {
		if e.ClientID == clientID && e.Weekday == weekday && e.Time == t {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFixedScheduleRepo) ListByClient(_ context.Context, clientID string) ([]model.FixedSchedule, error) {
	var result []model.FixedSchedule
	for _, e := range m.entries {
		if e.ClientID == clientID && e.IsActive {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockFixedScheduleRepo) ListAll(_ context.Context) ([]model.FixedSchedule, error) {
	var result []model.FixedSchedule
	for _, e := range m.entries {
		if e.IsActive {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockFixedScheduleRepo) ListBySlot(_ context.Context, weekday int, t string) ([]model.FixedSchedule, error) {
	var result []model.FixedSchedule
	for _, e := range m.entries {
		if e.IsActive && e.Weekday == weekday && e.Time == t {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockFixedScheduleRepo) CountActiveByClient(_ context.Context, clientID string) (int64, error) {
	var count int64
	for _, e := range m.entries {
		if e.ClientID == clientID && e.IsActive {
			count++
		}
	}
	return count, nil
}

func (m *mockFixedScheduleRepo) Update(_ context.Context, entry *model.FixedSchedule) error {
	for i := range m.entries {
		if m.entries[i].ScheduleID == entry.ScheduleID {
			m.entries[i] = entry
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockFixedScheduleRepo) SetEquipment(_ context.Context, scheduleID string, equipmentID string) error {
	for _, e := range m.entries {
		if e.ScheduleID == scheduleID {
			id := equipmentID
			e.EquipmentID = &id
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockFixedScheduleRepo) DeactivateByClient(_ context.Context, clientID string) error {
	for _, e := range m.entries {
		if e.ClientID == clientID {
			e.IsActive = false
		}
	}
	return nil
}

// ── Mock AppointmentRepository ──

type mockAppointmentRepo struct {
	appts  []*model.Appointment
	nextID int
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{}
}

func (m *mockAppointmentRepo) Create(_ context.Context, appt *model.Appointment) error {
	if appt.AppointmentID == "" {
		m.nextID++
		appt.AppointmentID = fmt.Sprintf("appt-%d", m.nextID)
	}
	m.appts = append(m.appts, appt)
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id string) (*model.Appointment, error) {
	for _, a := range m.appts {
		if a.AppointmentID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAppointmentRepo) List(_ context.Context, clientID, date string) ([]model.Appointment, error) {
	var result []model.Appointment
	for _, a := range m.appts {
		if clientID != "" && a.ClientID != clientID {
			continue
		}
		if date != "" && a.Date != date {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAppointmentRepo) ListBySlot(_ context.Context, date, t string) ([]model.Appointment, error) {
	var result []model.Appointment
	for _, a := range m.appts {
		if a.Date == date && a.Time == t && a.Status != model.StatusCancelled {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAppointmentRepo) ListClientIDsOnDate(_ context.Context, date string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for _, a := range m.appts {
		if a.Date == date && a.Status != model.StatusCancelled && !seen[a.ClientID] {
			seen[a.ClientID] = true
			result = append(result, a.ClientID)
		}
	}
	return result, nil
}

func (m *mockAppointmentRepo) ExistsClientOnDate(_ context.Context, clientID, date string) (bool, error) {
	for _, a := range m.appts {
		if a.ClientID == clientID && a.Date == date && a.Status != model.StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAppointmentRepo) Update(_ context.Context, appt *model.Appointment) error {
	for i := range m.appts {
		if m.appts[i].AppointmentID == appt.AppointmentID {
			m.appts[i] = appt
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAppointmentRepo) DeleteFutureUnmarked(_ context.Context, clientID, fromDate string) (int64, error) {
	var kept []*model.Appointment
	var removed int64
	for _, a := range m.appts {
		if a.ClientID == clientID && a.Date >= fromDate &&
			a.Attended == nil && a.Status != model.StatusCancelled {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	m.appts = kept
	return removed, nil
}

func (m *mockAppointmentRepo) ListByClientFromDate(_ context.Context, clientID, fromDate string) ([]model.Appointment, error) {
	var result []model.Appointment
	for _, a := range m.appts {
		if a.ClientID == clientID && a.Date >= fromDate && a.Status != model.StatusCancelled {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAppointmentRepo) ListByDateRange(_ context.Context, startDate, endDate string) ([]model.Appointment, error) {
	var result []model.Appointment
	for _, a := range m.appts {
		if a.Date >= startDate && a.Date <= endDate && a.Status != model.StatusCancelled {
			result = append(result, *a)
		}
	}
	return result, nil
}

// ── Mock EquipmentSequenceRepository ──

type mockSequenceRepo struct {
	seqs map[string]*model.EquipmentSequence
}

func newMockSequenceRepo() *mockSequenceRepo {
	return &mockSequenceRepo{seqs: make(map[string]*model.EquipmentSequence)}
}

func (m *mockSequenceRepo) Create(_ context.Context, seq *model.EquipmentSequence) error {
	if seq.SequenceID == "" {
		seq.SequenceID = "seq-" + seq.Name
	}
	m.seqs[seq.SequenceID] = seq
	return nil
}

func (m *mockSequenceRepo) GetByID(_ context.Context, id string) (*model.EquipmentSequence, error) {
	if s, ok := m.seqs[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSequenceRepo) GetByClientWeekday(_ context.Context, clientID string, weekday int) (*model.EquipmentSequence, error) {
	for _, s := range m.seqs {
		if s.ClientID == clientID && s.Weekday == weekday && s.IsActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSequenceRepo) ListByClient(_ context.Context, clientID string) ([]model.EquipmentSequence, error) {
	var result []model.EquipmentSequence
	for _, s := range m.seqs {
		if s.ClientID == clientID && s.IsActive {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSequenceRepo) Update(_ context.Context, seq *model.EquipmentSequence) error {
	m.seqs[seq.SequenceID] = seq
	return nil
}

func (m *mockSequenceRepo) SetPosition(_ context.Context, sequenceID string, position int) error {
	s, ok := m.seqs[sequenceID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.CurrentPosition = position
	return nil
}

func (m *mockSequenceRepo) Deactivate(_ context.Context, id string) error {
	s, ok := m.seqs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.IsActive = false
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	items  []*model.Notification
	nextID int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.NotificationID == "" {
		m.nextID++
		n.NotificationID = fmt.Sprintf("notif-%d", m.nextID)
	}
	m.items = append(m.items, n)
	return nil
}

func (m *mockNotificationRepo) List(_ context.Context, onlyUnread bool, offset, limit int) ([]model.Notification, int64, error) {
	var filtered []model.Notification
	for _, n := range m.items {
		if onlyUnread && n.IsRead {
			continue
		}
		filtered = append(filtered, *n)
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	for _, n := range m.items {
		if n.NotificationID == id {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) CountUnread(_ context.Context) (int64, error) {
	var count int64
	for _, n := range m.items {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// ── Mock ReceivableRepository ──

type mockReceivableRepo struct {
	items  []*model.Receivable
	nextID int
}

func newMockReceivableRepo() *mockReceivableRepo {
	return &mockReceivableRepo{}
}

func (m *mockReceivableRepo) Create(_ context.Context, rec *model.Receivable) error {
	if rec.ReceivableID == "" {
		m.nextID++
		rec.ReceivableID = fmt.Sprintf("rec-%d", m.nextID)
	}
	m.items = append(m.items, rec)
	return nil
}

func (m *mockReceivableRepo) GetByID(_ context.Context, id string) (*model.Receivable, error) {
	for _, r := range m.items {
		if r.ReceivableID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReceivableRepo) List(_ context.Context, clientID, status string, offset, limit int) ([]model.Receivable, int64, error) {
	var filtered []model.Receivable
	for _, r := range m.items {
		if clientID != "" && r.ClientID != clientID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		filtered = append(filtered, *r)
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockReceivableRepo) ListByDueRange(_ context.Context, startDate, endDate string) ([]model.Receivable, error) {
	var result []model.Receivable
	for _, r := range m.items {
		if r.DueDate >= startDate && r.DueDate <= endDate {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReceivableRepo) Update(_ context.Context, rec *model.Receivable) error {
	for i := range m.items {
		if m.items[i].ReceivableID == rec.ReceivableID {
			m.items[i] = rec
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockReceivableRepo) Settle(_ context.Context, id string, paymentDate string) error {
	for _, r := range m.items {
		if r.ReceivableID == id {
			r.Status = model.FinanceStatusPaid
			r.PaymentDate = &paymentDate
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockReceivableRepo) Delete(_ context.Context, id string) error {
	for i := range m.items {
		if m.items[i].ReceivableID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock PayableRepository ──

type mockPayableRepo struct {
	payables []*model.Payable
	nextID   int
}

func newMockPayableRepo() *mockPayableRepo {
	return &mockPayableRepo{}
}

func (m *mockPayableRepo) CreateWithInstallments(_ context.Context, p *model.Payable, installments []model.PayableInstallment) error {
	if p.PayableID == "" {
		m.nextID++
		p.PayableID = fmt.Sprintf("pay-%d", m.nextID)
	}
	for i := range installments {
		installments[i].PayableID = p.PayableID
		if installments[i].InstallmentID == "" {
			installments[i].InstallmentID = fmt.Sprintf("%s-inst-%d", p.PayableID, i+1)
		}
	}
	p.Installments = installments
	m.payables = append(m.payables, p)
	return nil
}

func (m *mockPayableRepo) GetByID(_ context.Context, id string) (*model.Payable, error) {
	for _, p := range m.payables {
		if p.PayableID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPayableRepo) List(_ context.Context, status string, offset, limit int) ([]model.Payable, int64, error) {
	var filtered []model.Payable
	for _, p := range m.payables {
		if status != "" && p.Status != status {
			continue
		}
		filtered = append(filtered, *p)
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockPayableRepo) ListInstallmentsByDueRange(_ context.Context, startDate, endDate string) ([]model.PayableInstallment, error) {
	var result []model.PayableInstallment
	for _, p := range m.payables {
		for _, inst := range p.Installments {
			if inst.DueDate >= startDate && inst.DueDate <= endDate {
				result = append(result, inst)
			}
		}
	}
	return result, nil
}

func (m *mockPayableRepo) SettleInstallment(_ context.Context, installmentID string, paymentDate string) error {
	for _, p := range m.payables {
		allPaid := true
		found := false
		for i := range p.Installments {
			if p.Installments[i].InstallmentID == installmentID {
				p.Installments[i].Status = model.FinanceStatusPaid
				p.Installments[i].PaymentDate = &paymentDate
				found = true
			}
			if p.Installments[i].Status != model.FinanceStatusPaid {
				allPaid = false
			}
		}
		if found {
			if allPaid {
				p.Status = model.FinanceStatusPaid
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPayableRepo) Delete(_ context.Context, id string) error {
	for i := range m.payables {
		if m.payables[i].PayableID == id {
			m.payables = append(m.payables[:i], m.payables[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// [自证通过] internal/service/mock_repos_test.go
