package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
	"github.com/harborwatch-dev/watch-keeper/backend/internal/watch"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// Dispatcher 周期性地把 redis 中到期的提醒事件取出来，转成通知消息发布到消息队列。
// 投递失败的事件留在集合中，下一个周期重试；调度核心不感知这里的任何重试策略。
type Dispatcher struct {
	rdb            *redis.Client
	channel        *amqp.Channel
	interval       time.Duration
	publishTimeout time.Duration
}

func NewDispatcher(rdb *redis.Client, ch *amqp.Channel, interval time.Duration, publishTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		rdb:            rdb,
		channel:        ch,
		interval:       interval,
		publishTimeout: publishTimeout,
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.dispatchDue(ctx, time.Now()); err != nil {
				slog.Error("投递到期提醒失败", "error", err)
			}
		}
	}
}

func (d *Dispatcher) dispatchDue(ctx context.Context, now time.Time) error {
	ids, err := d.rdb.ZRangeByScore(ctx, reminderZSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return err
	}

	for _, id := range ids {
		payload, err := d.rdb.HGet(ctx, reminderPayloadKey, id).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// payload 已经不在了，清掉孤立的 member
				_ = d.rdb.ZRem(ctx, reminderZSetKey, id).Err()
				continue
			}
			return err
		}

		event := watch.ReminderEvent{}
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			slog.Error("提醒事件反序列化失败，丢弃", "member", id, "error", err)
			d.remove(ctx, id)
			continue
		}

		message := domain.NotificationMessage{
			Type: "watch_reminder",
			To:   event.Email,
			Data: domain.WatchReminderMailData{
				FullName:    event.FullName,
				VesselName:  event.VesselName,
				SlotStart:   event.SlotStart.Format(time.RFC3339),
				LeadMinutes: event.LeadMinutes,
			},
		}

		body, err := json.Marshal(message)
		if err != nil {
			return err
		}

		publishCtx, cancel := context.WithTimeout(ctx, d.publishTimeout)
		err = d.channel.PublishWithContext(
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
		cancel()
		if err != nil {
			// 发布失败时不移除，等下一个周期重试
			return err
		}

		d.remove(ctx, id)
		slog.Info("已投递值班提醒", "member", id, "notifyAt", event.NotifyAt)
	}

	return nil
}

func (d *Dispatcher) remove(ctx context.Context, id string) {
	pipe := d.rdb.TxPipeline()
	pipe.ZRem(ctx, reminderZSetKey, id)
	pipe.HDel(ctx, reminderPayloadKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Error("移除提醒事件失败", "member", id, "error", err)
	}
}
