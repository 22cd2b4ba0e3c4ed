package notify

import (
	"database/sql"
	"testing"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeScheduleSource struct {
	vessels   []*domain.Vessel
	schedules map[int64]*domain.WatchSchedule
	users     map[int64]*domain.User
}

func (s *fakeScheduleSource) GetAllVessels() ([]*domain.Vessel, error) {
	return s.vessels, nil
}

func (s *fakeScheduleSource) GetScheduleByVesselID(vesselID int64) (*domain.WatchSchedule, error) {
	schedule, ok := s.schedules[vesselID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return schedule, nil
}

func (s *fakeScheduleSource) GetUserByID(id int64) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func overdueTestSource(now time.Time, lastActive time.Duration) *fakeScheduleSource {
	last := now.Add(-lastActive)
	return &fakeScheduleSource{
		vessels: []*domain.Vessel{
			{ID: 1, Name: "远洋一号", CheckInIntervalMinutes: 15},
		},
		schedules: map[int64]*domain.WatchSchedule{
			1: {
				ID:       1,
				VesselID: 1,
				Slots: []domain.WatchSlot{
					{
						ID:        1,
						StartTime: now.Add(-2 * time.Hour).Format(time.RFC3339),
						EndTime:   now.Add(2 * time.Hour).Format(time.RFC3339),
						Crew: []domain.CrewAssignment{
							{UserID: 42, UserName: "王伟", LastActiveAt: &last},
						},
					},
				},
			},
		},
		users: map[int64]*domain.User{
			42: {ID: 42, FullName: "王伟", Email: "wangwei@example.com"},
		},
	}
}

func newTestWatcher(source ScheduleSource) *OverdueWatcher {
	return NewOverdueWatcher(source, nil, time.Minute, 10*time.Second, 10*time.Minute)
}

func TestCollectDueRedCrew(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	w := newTestWatcher(overdueTestSource(now, 40*time.Minute))

	alerts, err := w.collectDue(now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	require.Equal(t, int64(1), alerts[0].vesselID)
	require.Equal(t, int64(42), alerts[0].userID)
	require.Equal(t, "wangwei@example.com", alerts[0].email)
	require.Equal(t, "王伟", alerts[0].data.FullName)
	require.Equal(t, "远洋一号", alerts[0].data.VesselName)
	require.Equal(t, int32(25), alerts[0].data.OverdueMinutes) // 40 分钟未活动，超出 15 分钟间隔 25 分钟
}

func TestCollectDueGreenCrewNoAlert(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	w := newTestWatcher(overdueTestSource(now, 5*time.Minute))

	alerts, err := w.collectDue(now)
	require.NoError(t, err)
	require.Empty(t, alerts)
}

func TestCollectDueResendWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	w := newTestWatcher(overdueTestSource(now, 40*time.Minute))

	alerts, err := w.collectDue(now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	// 窗口内的下一次巡检不重复告警
	alerts, err = w.collectDue(now.Add(time.Minute))
	require.NoError(t, err)
	require.Empty(t, alerts)

	// 窗口过后重新告警
	alerts, err = w.collectDue(now.Add(11 * time.Minute))
	require.NoError(t, err)
	require.Len(t, alerts, 1)
}

func TestCollectDueSkipsVesselWithoutSchedule(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	source := overdueTestSource(now, 40*time.Minute)
	source.vessels = append(source.vessels, &domain.Vessel{ID: 2, Name: "长风号", CheckInIntervalMinutes: 15})

	w := newTestWatcher(source)

	alerts, err := w.collectDue(now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, int64(1), alerts[0].vesselID)
}

func TestCollectDueOffWatchNoAlert(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	source := overdueTestSource(now, 40*time.Minute)
	// 把班次挪到过去，当前没有任何值班时段
	source.schedules[1].Slots[0].StartTime = now.Add(-4 * time.Hour).Format(time.RFC3339)
	source.schedules[1].Slots[0].EndTime = now.Add(-2 * time.Hour).Format(time.RFC3339)

	w := newTestWatcher(source)

	alerts, err := w.collectDue(now)
	require.NoError(t, err)
	require.Empty(t, alerts)
}
