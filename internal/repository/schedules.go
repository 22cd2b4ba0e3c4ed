package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
)

// ReplaceSchedule 全量替换某艘船的排班表：先删除旧表再整体插入新表，
// 绝不做增量合并，避免残留旧班次。
func (r *Repository) ReplaceSchedule(schedule *domain.WatchSchedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先将之前的排班表删除（级联删除班次和船员分配）
	query := `DELETE FROM watch_schedules WHERE vessel_id = $1`
	if _, err := tx.ExecContext(ctx, query, schedule.VesselID); err != nil {
		return err
	}

	query = `
		INSERT INTO watch_schedules (vessel_id, name, watch_type, crew_per_watch, is_staggered)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	args := []any{schedule.VesselID, schedule.Name, schedule.WatchType, schedule.CrewPerWatch, schedule.IsStaggered}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.Version); err != nil {
		return err
	}

	for i := range schedule.Slots {
		query = `
			INSERT INTO watch_slots (schedule_id, position, start_time, end_time, condition)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`

		var condition sql.NullString
		if schedule.Slots[i].Condition != "" {
			condition = sql.NullString{String: string(schedule.Slots[i].Condition), Valid: true}
		}

		params := []any{schedule.ID, i, schedule.Slots[i].StartTime, schedule.Slots[i].EndTime, condition}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&schedule.Slots[i].ID); err != nil {
			return err
		}

		for j, crew := range schedule.Slots[i].Crew {
			query = `
				INSERT INTO watch_slot_crew (slot_id, position, user_id, user_name)
				VALUES ($1, $2, $3, $4)
			`
			if _, err := tx.ExecContext(ctx, query, schedule.Slots[i].ID, j, crew.UserID, crew.UserName); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleByVesselID(vesselID int64) (*domain.WatchSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			ws.id,
			ws.name,
			ws.watch_type,
			ws.crew_per_watch,
			ws.is_staggered,
			ws.created_at,
			ws.version,
			sl.id,
			sl.start_time,
			sl.end_time,
			sl.condition,
			sc.user_id,
			sc.user_name,
			sc.checked_in_at,
			sc.last_active_at
		FROM watch_schedules ws
		LEFT JOIN watch_slots sl ON ws.id = sl.schedule_id
		LEFT JOIN watch_slot_crew sc ON sl.id = sc.slot_id
		WHERE ws.vessel_id = $1
		ORDER BY sl.position, sc.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, vesselID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedule := &domain.WatchSchedule{
		VesselID: vesselID,
		Slots:    make([]domain.WatchSlot, 0),
	}
	slotsMap := make(map[int64]*domain.WatchSlot)
	slotOrder := make([]int64, 0)

	found := false
	for rows.Next() {
		var row struct {
			ID           int64
			Name         string
			WatchType    string
			CrewPerWatch int32
			IsStaggered  bool
			CreatedAt    time.Time
			Version      int32

			SlotID       sql.NullInt64
			StartTime    sql.NullString
			EndTime      sql.NullString
			Condition    sql.NullString
			UserID       sql.NullInt64
			UserName     sql.NullString
			CheckedInAt  sql.NullString
			LastActiveAt sql.NullTime
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.WatchType,
			&row.CrewPerWatch,
			&row.IsStaggered,
			&row.CreatedAt,
			&row.Version,
			&row.SlotID,
			&row.StartTime,
			&row.EndTime,
			&row.Condition,
			&row.UserID,
			&row.UserName,
			&row.CheckedInAt,
			&row.LastActiveAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			// 说明此时是第一次查到这个排班表，需要初始化
			schedule.ID = row.ID
			schedule.Name = row.Name
			schedule.WatchType = domain.WatchType(row.WatchType)
			schedule.CrewPerWatch = row.CrewPerWatch
			schedule.IsStaggered = row.IsStaggered
			schedule.CreatedAt = row.CreatedAt
			schedule.Version = row.Version
			found = true
		}

		// 如果 slotID 为空，则表示这个排班表没有任何班次，跳过班次解析
		if !row.SlotID.Valid {
			continue
		}

		slot, exists := slotsMap[row.SlotID.Int64]
		if !exists {
			// 说明此时是第一次查到这个班次，需要初始化
			slot = &domain.WatchSlot{
				ID:        row.SlotID.Int64,
				StartTime: row.StartTime.String,
				EndTime:   row.EndTime.String,
				Crew:      make([]domain.CrewAssignment, 0),
				Condition: domain.SlotCondition(row.Condition.String),
			}
			slotsMap[row.SlotID.Int64] = slot
			slotOrder = append(slotOrder, row.SlotID.Int64)
		}

		// 如果 userID 为空，则表示这个班次没有任何船员分配，跳过船员解析
		if !row.UserID.Valid {
			continue
		}

		assignment := domain.CrewAssignment{
			UserID:      row.UserID.Int64,
			UserName:    row.UserName.String,
			CheckedInAt: row.CheckedInAt.String,
		}
		if row.LastActiveAt.Valid {
			t := row.LastActiveAt.Time
			assignment.LastActiveAt = &t
		}
		slot.Crew = append(slot.Crew, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	// 按班次原始顺序组装，顺序决定轮换序列
	for _, slotID := range slotOrder {
		schedule.Slots = append(schedule.Slots, *slotsMap[slotID])
	}

	return schedule, nil
}

func (r *Repository) DeleteScheduleByVesselID(vesselID int64) error {
	query := `
		DELETE FROM watch_schedules WHERE vessel_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, vesselID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// UpdateCrewCheckIn 记录一次打卡：lastActiveAt 单调不回退，
// 同一船员并发打卡时以时间上最新的一次为准。
func (r *Repository) UpdateCrewCheckIn(slotID int64, userID int64, instant time.Time) error {
	query := `
		UPDATE watch_slot_crew
		SET
			checked_in_at = $1,
			last_active_at = $2
		WHERE slot_id = $3 AND user_id = $4 AND (last_active_at IS NULL OR last_active_at <= $2)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	checkedInAt := instant.Format("15:04")

	var id int64
	if err := r.dbpool.QueryRowContext(ctx, query, checkedInAt, instant, slotID, userID).Scan(&id); err != nil {
		return err
	}

	return nil
}

// UpdateSlotCrew 替换单个班次的船员分配（打卡记录随之清空）
func (r *Repository) UpdateSlotCrew(slotID int64, crew []domain.CrewAssignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM watch_slot_crew WHERE slot_id = $1`
	if _, err := tx.ExecContext(ctx, query, slotID); err != nil {
		return err
	}

	for i, assignment := range crew {
		query = `
			INSERT INTO watch_slot_crew (slot_id, position, user_id, user_name)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, query, slotID, i, assignment.UserID, assignment.UserName); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateScheduleSettings 只更新排班表的名称和类型，不动班次
func (r *Repository) UpdateScheduleSettings(schedule *domain.WatchSchedule) error {
	query := `
		UPDATE watch_schedules
		SET
			name = $1,
			watch_type = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{schedule.Name, schedule.WatchType, schedule.ID, schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&schedule.CreatedAt, &schedule.Version); err != nil {
		return err
	}

	return nil
}
