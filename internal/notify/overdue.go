package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/watch"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ScheduleSource: 巡检需要的只读数据面，生产环境由 repository 实现
type ScheduleSource interface {
	GetAllVessels() ([]*domain.Vessel, error)
	GetScheduleByVesselID(vesselID int64) (*domain.WatchSchedule, error)
	GetUserByID(id int64) (*domain.User, error)
}

// OverdueWatcher 周期性巡检所有船舶当前班次的值班状态，
// 发现红色状态时把逾期告警发布到消息队列。
// 同一船员的告警在 resendAfter 窗口内只发一次，避免每个巡检周期都发邮件。
type OverdueWatcher struct {
	source         ScheduleSource
	channel        *amqp.Channel
	interval       time.Duration
	publishTimeout time.Duration
	resendAfter    time.Duration

	lastAlerted map[string]time.Time
}

func NewOverdueWatcher(source ScheduleSource, ch *amqp.Channel, interval, publishTimeout, resendAfter time.Duration) *OverdueWatcher {
	return &OverdueWatcher{
		source:         source,
		channel:        ch,
		interval:       interval,
		publishTimeout: publishTimeout,
		resendAfter:    resendAfter,
		lastAlerted:    make(map[string]time.Time),
	}
}

func (w *OverdueWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			alerts, err := w.collectDue(time.Now())
			if err != nil {
				slog.Error("巡检值班状态失败", "error", err)
				continue
			}

			for i := range alerts {
				if err := w.publish(ctx, &alerts[i]); err != nil {
					slog.Error("发布逾期告警失败", "error", err)
				}
			}
		}
	}
}

type overdueAlert struct {
	vesselID int64
	userID   int64
	email    string
	data     domain.OverdueAlertMailData
}

// collectDue 扫出当前所有应该发出的逾期告警，并登记发送时刻用于窗口去重
func (w *OverdueWatcher) collectDue(now time.Time) ([]overdueAlert, error) {
	vessels, err := w.source.GetAllVessels()
	if err != nil {
		return nil, err
	}

	alerts := make([]overdueAlert, 0)
	for _, vessel := range vessels {
		schedule, err := w.source.GetScheduleByVesselID(vessel.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// 该船舶还没有排班表，跳过
				continue
			}
			return nil, err
		}

		slot, err := watch.FindActiveSlot(schedule.Slots, now)
		if err != nil {
			slog.Error("解析班次时间失败，跳过该船舶", "vessel", vessel.Name, "error", err)
			continue
		}
		if slot == nil {
			continue
		}

		for i := range slot.Crew {
			state, err := watch.EvaluateLiveness(&slot.Crew[i], vessel.CheckInIntervalMinutes, now, true)
			if err != nil {
				slog.Error("评估值班状态失败，跳过该船员", "user", slot.Crew[i].UserName, "error", err)
				continue
			}
			if state != domain.LivenessRed {
				continue
			}

			key := fmt.Sprintf("v%d:u%d", vessel.ID, slot.Crew[i].UserID)
			if last, ok := w.lastAlerted[key]; ok && now.Sub(last) < w.resendAfter {
				continue
			}

			overdueMinutes, err := watch.EvaluateOverdue(&slot.Crew[i], vessel.CheckInIntervalMinutes, now)
			if err != nil {
				slog.Error("计算逾期时长失败，跳过该船员", "user", slot.Crew[i].UserName, "error", err)
				continue
			}

			user, err := w.source.GetUserByID(slot.Crew[i].UserID)
			if err != nil {
				slog.Error("获取船员信息失败，跳过该船员", "user", slot.Crew[i].UserName, "error", err)
				continue
			}

			alerts = append(alerts, overdueAlert{
				vesselID: vessel.ID,
				userID:   user.ID,
				email:    user.Email,
				data: domain.OverdueAlertMailData{
					FullName:       user.FullName,
					VesselName:     vessel.Name,
					OverdueMinutes: overdueMinutes,
				},
			})
			w.lastAlerted[key] = now
		}
	}

	return alerts, nil
}

func (w *OverdueWatcher) publish(ctx context.Context, alert *overdueAlert) error {
	message := domain.NotificationMessage{
		Type: "overdue_alert",
		To:   alert.email,
		Data: alert.data,
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, w.publishTimeout)
	defer cancel()

	return w.channel.PublishWithContext(
		publishCtx,
		"",
		"notification_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
