package watch

import (
	"testing"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func minutesAgo(now time.Time, minutes float64) *time.Time {
	t := now.Add(-time.Duration(minutes * float64(time.Minute)))
	return &t
}

func TestEvaluateLiveness(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.Local)

	tests := []struct {
		name       string
		assignment domain.CrewAssignment
		onWatch    bool
		want       domain.LivenessState
	}{
		{"不在值班中不参与评估", domain.CrewAssignment{}, false, domain.LivenessNormal},
		{"刚好在间隔内", domain.CrewAssignment{LastActiveAt: minutesAgo(now, 15)}, true, domain.LivenessGreen},
		{"刚刚打过卡", domain.CrewAssignment{LastActiveAt: minutesAgo(now, 0.5)}, true, domain.LivenessGreen},
		{"超出间隔进入一分钟宽限", domain.CrewAssignment{LastActiveAt: minutesAgo(now, 16)}, true, domain.LivenessAmber},
		{"超出宽限", domain.CrewAssignment{LastActiveAt: minutesAgo(now, 16.5)}, true, domain.LivenessRed},
		{"严重超时", domain.CrewAssignment{LastActiveAt: minutesAgo(now, 40)}, true, domain.LivenessRed},
		{"值班中从未确认活动直接红色", domain.CrewAssignment{}, true, domain.LivenessRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := EvaluateLiveness(&tt.assignment, 15, now, tt.onWatch)
			require.NoError(t, err)
			require.Equal(t, tt.want, state)
		})
	}
}

func TestEvaluateLivenessPrefersLastActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.Local)

	// CheckedInAt 是很久以前，但 LastActiveAt 是刚才，以 LastActiveAt 为准
	a := domain.CrewAssignment{
		CheckedInAt:  "08:00",
		LastActiveAt: minutesAgo(now, 5),
	}

	state, err := EvaluateLiveness(&a, 15, now, true)
	require.NoError(t, err)
	require.Equal(t, domain.LivenessGreen, state)
}

func TestEvaluateLivenessReconstructsFromCheckedInAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.Local)

	// 只有 CheckedInAt 时按今天的钟点重建
	a := domain.CrewAssignment{CheckedInAt: "21:50"}
	state, err := EvaluateLiveness(&a, 15, now, true)
	require.NoError(t, err)
	require.Equal(t, domain.LivenessGreen, state)

	a = domain.CrewAssignment{CheckedInAt: "21:30"}
	state, err = EvaluateLiveness(&a, 15, now, true)
	require.NoError(t, err)
	require.Equal(t, domain.LivenessRed, state)
}

func TestEvaluateLivenessRollsBackYesterdayCheckIn(t *testing.T) {
	// 凌晨 00:10 看到 23:55 的打卡，应视作昨天临近午夜的打卡（15 分钟前）
	now := time.Date(2026, 3, 10, 0, 10, 0, 0, time.Local)

	a := domain.CrewAssignment{CheckedInAt: "23:55"}
	state, err := EvaluateLiveness(&a, 15, now, true)
	require.NoError(t, err)
	require.Equal(t, domain.LivenessGreen, state)
}

func TestEvaluateLivenessMalformedCheckIn(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.Local)

	a := domain.CrewAssignment{CheckedInAt: "later"}
	_, err := EvaluateLiveness(&a, 15, now, true)
	require.ErrorIs(t, err, ErrInvalidTime)
}

func TestEvaluateOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.Local)

	// 40 分钟未活动，超出 15 分钟间隔 25 分钟
	a := domain.CrewAssignment{LastActiveAt: minutesAgo(now, 40)}
	overdue, err := EvaluateOverdue(&a, 15, now)
	require.NoError(t, err)
	require.Equal(t, int32(25), overdue)

	// 刚进入红色状态时至少算 1 分钟
	a = domain.CrewAssignment{LastActiveAt: minutesAgo(now, 16.5)}
	overdue, err = EvaluateOverdue(&a, 15, now)
	require.NoError(t, err)
	require.Equal(t, int32(1), overdue)

	// 从未确认过活动，按整个间隔计
	a = domain.CrewAssignment{}
	overdue, err = EvaluateOverdue(&a, 15, now)
	require.NoError(t, err)
	require.Equal(t, int32(15), overdue)
}

func TestEvaluateEscalation(t *testing.T) {
	base := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	// 对齐到 15 的整数倍秒，便于同时验证两种周期
	for base.Unix()%15 != 0 {
		base = base.Add(time.Second)
	}

	// amber: 每 15 秒一次低强度提示
	level, fire := EvaluateEscalation(domain.LivenessAmber, base)
	require.True(t, fire)
	require.Equal(t, domain.AlertLevelLow, level)

	_, fire = EvaluateEscalation(domain.LivenessAmber, base.Add(7*time.Second))
	require.False(t, fire)

	// red: 每 5 秒一次高强度警报
	level, fire = EvaluateEscalation(domain.LivenessRed, base.Add(5*time.Second))
	require.True(t, fire)
	require.Equal(t, domain.AlertLevelHigh, level)

	_, fire = EvaluateEscalation(domain.LivenessRed, base.Add(3*time.Second))
	require.False(t, fire)

	// green/normal 不触发
	_, fire = EvaluateEscalation(domain.LivenessGreen, base)
	require.False(t, fire)
	_, fire = EvaluateEscalation(domain.LivenessNormal, base)
	require.False(t, fire)
}
