package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/watch"
	"github.com/redis/go-redis/v9"
)

const (
	reminderZSetKey    = "watch_keeper:armed_reminders"
	reminderPayloadKey = "watch_keeper:reminder_payloads"
)

// RedisSink 用 redis 有序集合实现 watch.NotificationSink。
// member 是事件的确定性标识（幂等），score 是触发时刻的 unix 秒，
// 完整的事件内容另存一份哈希，Dispatcher 定期取出到期的事件投递到消息队列。
type RedisSink struct {
	rdb *redis.Client
}

func NewRedisSink(rdb *redis.Client) *RedisSink {
	return &RedisSink{rdb: rdb}
}

func (s *RedisSink) ArmOneShot(ctx context.Context, event *watch.ReminderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	id := event.Identity()

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, reminderZSetKey, redis.Z{
		Score:  float64(event.NotifyAt.Unix()),
		Member: id,
	})
	pipe.HSet(ctx, reminderPayloadKey, id, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	return nil
}

func (s *RedisSink) CancelAll(ctx context.Context, vesselID int64, userID int64) error {
	pattern := fmt.Sprintf("v%d:u%d:*", vesselID, userID)

	var cursor uint64
	for {
		// ZScan 的结果中 member 和 score 交替出现
		fields, next, err := s.rdb.ZScan(ctx, reminderZSetKey, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}

		for i := 0; i < len(fields); i += 2 {
			pipe := s.rdb.TxPipeline()
			pipe.ZRem(ctx, reminderZSetKey, fields[i])
			pipe.HDel(ctx, reminderPayloadKey, fields[i])
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
		}

		if next == 0 {
			break
		}
		cursor = next
	}

	return nil
}
