package seed

import (
	"log/slog"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/config"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/repository"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/utils"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/watch"
)

// SeedDemoFleet 插入一条演示数据：一艘船、六名船员和一份按 4 小时轮换的航行排班表
func SeedDemoFleet(cfg *config.Config, r *repository.Repository) {
	vessel := &domain.Vessel{
		Name:                   utils.GenerateRandomVesselName(),
		CheckInIntervalMinutes: int32(cfg.Vessel.DefaultCheckInInterval),
	}

	if err := r.CreateVessel(vessel); err != nil {
		slog.Error("插入船舶失败", "error", err)
		return
	}

	roster := make([]domain.CrewRef, 0, 6)
	for i := 0; i < 6; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("生成随机船员失败", "error", err)
			return
		}
		user.Role = domain.RoleCrew

		if err := r.CreateUser(user); err != nil {
			slog.Error("插入船员失败", "error", err)
			return
		}

		roster = append(roster, domain.CrewRef{UserID: user.ID, UserName: user.FullName})
	}

	slots, err := watch.GenerateFixedCycle(roster, &watch.Policy{
		DurationHours: 4,
		CrewPerWatch:  2,
		WatchType:     domain.WatchTypeUnderway,
	})
	if err != nil {
		slog.Error("生成班次失败", "error", err)
		return
	}

	schedule := &domain.WatchSchedule{
		VesselID:     vessel.ID,
		Name:         vessel.Name + "航行值班表",
		WatchType:    domain.WatchTypeUnderway,
		CrewPerWatch: 2,
		Slots:        slots,
	}

	if err := r.ReplaceSchedule(schedule); err != nil {
		slog.Error("插入排班表失败", "error", err)
		return
	}

	slog.Info("插入演示数据完成", "vessel", vessel.Name, "crew", len(roster), "slots", len(slots))
}
