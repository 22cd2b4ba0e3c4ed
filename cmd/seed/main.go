package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/config"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/repository"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/seed"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/utils"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/watch"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var vesselID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机船员, 2: 插入随机船舶, 3: 为指定船舶生成排班表, 4: 插入演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&vesselID, "vessel-id", 0, "生成排班表的船舶 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的船员数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机船员", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入船员", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入船员成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的船舶数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				vessel := &domain.Vessel{
					Name:                   utils.GenerateRandomVesselName(),
					CheckInIntervalMinutes: int32(cfg.Vessel.DefaultCheckInInterval),
				}

				if err := repo.CreateVessel(vessel); err != nil {
					slog.Error("无法插入船舶", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入船舶成功", slog.Int("count", n-cnt))
		}
	case 3:
		if vesselID <= 0 {
			slog.Error("请输入合法的船舶 ID")
			return
		}

		// 获取对应的船舶
		vessel, err := repo.GetVesselByID(vesselID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的船舶不存在", slog.Int64("vessel_id", vesselID))
			default:
				slog.Error("无法获取船舶", slog.String("error", err.Error()))
			}
			return
		}

		// 获取所有船员作为轮换序列
		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取所有船员", slog.String("error", err.Error()))
			return
		}

		roster := make([]domain.CrewRef, 0, len(users))
		for _, user := range users {
			if !user.IsActive {
				continue
			}
			roster = append(roster, domain.CrewRef{UserID: user.ID, UserName: user.FullName})
		}

		slots, err := watch.GenerateFixedCycle(roster, &watch.Policy{
			DurationHours: 4,
			CrewPerWatch:  2,
			WatchType:     domain.WatchTypeUnderway,
		})
		if err != nil {
			slog.Error("无法生成班次", slog.String("error", err.Error()))
			return
		}

		schedule := &domain.WatchSchedule{
			VesselID:     vessel.ID,
			Name:         vessel.Name + "航行值班表",
			WatchType:    domain.WatchTypeUnderway,
			CrewPerWatch: 2,
			Slots:        slots,
		}

		if err := repo.ReplaceSchedule(schedule); err != nil {
			slog.Error("无法插入排班表", slog.String("error", err.Error()))
			return
		}

		slog.Info("生成排班表成功", slog.Int("slots", len(slots)))
	case 4:
		seed.SeedDemoFleet(cfg, repo)
	default:
		slog.Error("指定的操作非法")
	}
}
