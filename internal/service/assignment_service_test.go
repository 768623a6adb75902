package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/luiginoIori/Pilates/internal/model"
	"github.com/luiginoIori/Pilates/internal/repository"
)

// ── 测试辅助 ──

func setupTestAssignmentService(t *testing.T) (AssignmentService, *repository.Repository) {
	t.Helper()
	repo := newTestRepository()
	svc := NewAssignmentService(repo, &sync.Mutex{}, zap.NewNop())
	return svc, repo
}

func seedFixedSlot(repo *repository.Repository, clientID string, weekday int, hhmm, equipmentID string) *model.FixedSchedule {
	entry := &model.FixedSchedule{
		ClientID: clientID, Weekday: weekday, Time: hhmm,
		ScheduleType: "fixed", IsActive: true,
	}
	if equipmentID != "" {
		entry.EquipmentID = &equipmentID
	}
	_ = repo.FixedSchedule.Create(context.Background(), entry)
	return entry
}

// ── Assign 测试 ──

func TestAssignmentService_Assign_SkipsUsedEquipment(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a", "eq-b", "eq-c")
	seedFixedSlot(repo, "client-1", 1, "09:00", "eq-a")

	// 新客户偏好序从 eq-a 开始，但 eq-a 已被同时段其他客户占用
	picked, err := svc.Assign(context.Background(), "client-2", 1, "09:00")
	if err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if picked == nil || *picked != "eq-b" {
		t.Errorf("期望跳过占用设备指派 eq-b，实际 %v", picked)
	}
}

func TestAssignmentService_Assign_RotatesByClientSlotCount(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a", "eq-b", "eq-c")
	seedFixedSlot(repo, "client-1", 1, "08:00", "eq-a")

	// 客户已有 1 个活跃时段：偏好序偏移 1，从 eq-b 排起
	picked, err := svc.Assign(context.Background(), "client-1", 3, "08:00")
	if err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if picked == nil || *picked != "eq-b" {
		t.Errorf("期望轮换偏移指派 eq-b，实际 %v", picked)
	}
}

func TestAssignmentService_Assign_FallsBackOnExhaustion(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a")
	seedFixedSlot(repo, "client-1", 1, "09:00", "eq-a")

	// 全部设备被占用：退回偏好序首位而非报错（冲突留给审计消解）
	picked, err := svc.Assign(context.Background(), "client-2", 1, "09:00")
	if err != nil {
		t.Fatalf("耗尽时 Assign 不应报错: %v", err)
	}
	if picked == nil || *picked != "eq-a" {
		t.Errorf("期望退回 eq-a，实际 %v", picked)
	}
}

func TestAssignmentService_Assign_NoEquipment(t *testing.T) {
	svc, _ := setupTestAssignmentService(t)

	picked, err := svc.Assign(context.Background(), "client-1", 1, "09:00")
	if err != nil {
		t.Fatalf("Assign 应成功: %v", err)
	}
	if picked != nil {
		t.Errorf("无设备登记时应返回 nil，实际 %v", *picked)
	}
}

// ── AuditConflicts 测试 ──

func TestAssignmentService_AuditConflicts_NoEquipment(t *testing.T) {
	svc, _ := setupTestAssignmentService(t)

	_, err := svc.AuditConflicts(context.Background())
	if !errors.Is(err, ErrNoEquipment) {
		t.Errorf("期望 ErrNoEquipment，实际: %v", err)
	}
}

func TestAssignmentService_AuditConflicts_NoConflicts(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a", "eq-b")
	seedFixedSlot(repo, "client-1", 1, "08:00", "eq-a")
	seedFixedSlot(repo, "client-2", 1, "08:00", "eq-b")

	resp, err := svc.AuditConflicts(context.Background())
	if err != nil {
		t.Fatalf("AuditConflicts 应成功: %v", err)
	}
	if resp.ConflictGroups != 0 {
		t.Errorf("期望 0 个冲突组，实际 %d", resp.ConflictGroups)
	}
	if resp.Reassigned != 0 {
		t.Errorf("期望 0 次重新指派，实际 %d", resp.Reassigned)
	}
}

func TestAssignmentService_AuditConflicts_ReassignsKeepingFirst(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a", "eq-b")
	first := seedFixedSlot(repo, "client-1", 1, "08:00", "eq-a")
	second := seedFixedSlot(repo, "client-2", 1, "08:00", "eq-a")

	resp, err := svc.AuditConflicts(context.Background())
	if err != nil {
		t.Fatalf("AuditConflicts 应成功: %v", err)
	}
	if resp.ConflictGroups != 1 {
		t.Errorf("期望 1 个冲突组，实际 %d", resp.ConflictGroups)
	}
	if resp.Reassigned != 1 {
		t.Errorf("期望 1 次重新指派，实际 %d", resp.Reassigned)
	}

	// 先到先得：第一条保留原设备，第二条经指派解析改派空闲设备
	kept, _ := repo.FixedSchedule.GetByID(context.Background(), first.ScheduleID)
	moved, _ := repo.FixedSchedule.GetByID(context.Background(), second.ScheduleID)
	if kept.EquipmentID == nil || *kept.EquipmentID != "eq-a" {
		t.Errorf("最早占用者应保留 eq-a")
	}
	if moved.EquipmentID == nil || *moved.EquipmentID != "eq-b" {
		t.Errorf("冲突者应改派 eq-b，实际 %v", moved.EquipmentID)
	}
}

func TestAssignmentService_AuditConflicts_AssignsMissing(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a")
	entry := seedFixedSlot(repo, "client-1", 2, "10:00", "")

	resp, err := svc.AuditConflicts(context.Background())
	if err != nil {
		t.Fatalf("AuditConflicts 应成功: %v", err)
	}
	if resp.Reassigned != 1 {
		t.Errorf("缺失指派应补齐，期望 1 次，实际 %d", resp.Reassigned)
	}
	fixed, _ := repo.FixedSchedule.GetByID(context.Background(), entry.ScheduleID)
	if fixed.EquipmentID == nil || *fixed.EquipmentID != "eq-a" {
		t.Error("未指派的时段应获得设备")
	}
}

func TestAssignmentService_AuditConflicts_Converges(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a", "eq-b", "eq-c")
	seedFixedSlot(repo, "client-1", 1, "08:00", "eq-a")
	seedFixedSlot(repo, "client-2", 1, "08:00", "eq-a")
	seedFixedSlot(repo, "client-3", 1, "08:00", "eq-a")

	resp, err := svc.AuditConflicts(context.Background())
	if err != nil {
		t.Fatalf("AuditConflicts 应成功: %v", err)
	}
	if resp.Passes >= maxAuditPasses {
		t.Errorf("审计应在上限内收敛，实际轮数 %d", resp.Passes)
	}

	// 收敛后组内设备互不相同
	entries, _ := repo.FixedSchedule.ListBySlot(context.Background(), 1, "08:00")
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.EquipmentID == nil {
			t.Fatal("收敛后不应有未指派时段")
		}
		if seen[*e.EquipmentID] {
			t.Fatalf("收敛后设备 %s 仍有冲突", *e.EquipmentID)
		}
		seen[*e.EquipmentID] = true
	}
}

func TestAssignmentService_AuditConflicts_Unresolvable(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a")
	seedFixedSlot(repo, "client-1", 1, "08:00", "eq-a")
	seedFixedSlot(repo, "client-2", 1, "08:00", "eq-a")

	// 组内人数超过设备数：保留现状而非死循环
	resp, err := svc.AuditConflicts(context.Background())
	if err != nil {
		t.Fatalf("AuditConflicts 应成功: %v", err)
	}
	if resp.Passes >= maxAuditPasses {
		t.Errorf("无法消解的组不应导致循环到上限，实际轮数 %d", resp.Passes)
	}
}

// ── RotateDaily 测试 ──

func TestAssignmentService_RotateDaily_NoEquipment(t *testing.T) {
	svc, _ := setupTestAssignmentService(t)

	_, err := svc.RotateDaily(context.Background())
	if !errors.Is(err, ErrNoEquipment) {
		t.Errorf("期望 ErrNoEquipment，实际: %v", err)
	}
}

func TestAssignmentService_RotateDaily_AllWeekdaysPositional(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a", "eq-b", "eq-c")
	// 周一组：偏移 0
	mon1 := seedFixedSlot(repo, "client-1", 1, "08:00", "eq-c")
	mon2 := seedFixedSlot(repo, "client-2", 1, "08:00", "eq-c")
	// 周二组：偏移 1
	tue1 := seedFixedSlot(repo, "client-3", 2, "09:00", "eq-a")
	tue2 := seedFixedSlot(repo, "client-4", 2, "09:00", "eq-a")

	resp, err := svc.RotateDaily(context.Background())
	if err != nil {
		t.Fatalf("RotateDaily 应成功: %v", err)
	}
	if resp.Rotated != 4 {
		t.Errorf("期望 4 次改派，实际 %d", resp.Rotated)
	}

	// 组内顺次指派：第 i 位拿 equipment[(i+offset) mod n]，一次调用覆盖全部工作日
	m1, _ := repo.FixedSchedule.GetByID(context.Background(), mon1.ScheduleID)
	m2, _ := repo.FixedSchedule.GetByID(context.Background(), mon2.ScheduleID)
	if *m1.EquipmentID != "eq-a" || *m2.EquipmentID != "eq-b" {
		t.Errorf("周一组期望 (eq-a, eq-b)，实际 (%s, %s)", *m1.EquipmentID, *m2.EquipmentID)
	}
	t1, _ := repo.FixedSchedule.GetByID(context.Background(), tue1.ScheduleID)
	t2, _ := repo.FixedSchedule.GetByID(context.Background(), tue2.ScheduleID)
	if *t1.EquipmentID != "eq-b" || *t2.EquipmentID != "eq-c" {
		t.Errorf("周二组期望 (eq-b, eq-c)，实际 (%s, %s)", *t1.EquipmentID, *t2.EquipmentID)
	}
}

func TestAssignmentService_RotateDaily_SkipsSingleClientGroups(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a", "eq-b", "eq-c")
	entry := seedFixedSlot(repo, "client-1", 1, "08:00", "eq-c")

	resp, err := svc.RotateDaily(context.Background())
	if err != nil {
		t.Fatalf("RotateDaily 应成功: %v", err)
	}
	if resp.Rotated != 0 {
		t.Errorf("单人组无轮换意义，期望 0 次改派，实际 %d", resp.Rotated)
	}
	kept, _ := repo.FixedSchedule.GetByID(context.Background(), entry.ScheduleID)
	if *kept.EquipmentID != "eq-c" {
		t.Errorf("单人组设备不应改动，实际 %s", *kept.EquipmentID)
	}
}

func TestAssignmentService_RotateDaily_SkipsGroupsLargerThanEquipment(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a", "eq-b")
	e1 := seedFixedSlot(repo, "client-1", 2, "09:00", "eq-a")
	e2 := seedFixedSlot(repo, "client-2", 2, "09:00", "eq-b")
	e3 := seedFixedSlot(repo, "client-3", 2, "09:00", "eq-a")

	// 3 人 2 台设备：顺次指派必然当日重复，整组跳过
	resp, err := svc.RotateDaily(context.Background())
	if err != nil {
		t.Fatalf("RotateDaily 应成功: %v", err)
	}
	if resp.Rotated != 0 {
		t.Errorf("设备不足的组不应被轮换，实际改派 %d 次", resp.Rotated)
	}
	if resp.SkippedGroups != 1 {
		t.Errorf("期望跳过 1 个组，实际 %d", resp.SkippedGroups)
	}

	for _, seeded := range []struct {
		id   string
		want string
	}{{e1.ScheduleID, "eq-a"}, {e2.ScheduleID, "eq-b"}, {e3.ScheduleID, "eq-a"}} {
		got, _ := repo.FixedSchedule.GetByID(context.Background(), seeded.id)
		if *got.EquipmentID != seeded.want {
			t.Errorf("跳过的组指派不应改动：期望 %s，实际 %s", seeded.want, *got.EquipmentID)
		}
	}
}

func TestAssignmentService_RotateDaily_CountsOnlyChanges(t *testing.T) {
	svc, repo := setupTestAssignmentService(t)
	seedEquipment(repo, "eq-a", "eq-b")
	seedFixedSlot(repo, "client-1", 1, "08:00", "eq-a") // 已在目标位置
	seedFixedSlot(repo, "client-2", 1, "08:00", "eq-b")

	resp, err := svc.RotateDaily(context.Background())
	if err != nil {
		t.Fatalf("RotateDaily 应成功: %v", err)
	}
	if resp.Rotated != 0 {
		t.Errorf("已就位的指派不应计入轮换数，实际 %d", resp.Rotated)
	}
}

// [自证通过] internal/service/assignment_service_test.go
