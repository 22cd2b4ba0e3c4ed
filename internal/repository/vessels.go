package repository

import (
	"context"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
)

func (r *Repository) CreateVessel(vessel *domain.Vessel) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO vessels (name, check_in_interval_minutes)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, vessel.Name, vessel.CheckInIntervalMinutes).Scan(&vessel.ID, &vessel.CreatedAt, &vessel.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetVesselByID(id int64) (*domain.Vessel, error) {
	query := `
		SELECT name, check_in_interval_minutes, created_at, version
		FROM vessels WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	vessel := &domain.Vessel{
		ID: id,
	}

	dst := []any{&vessel.Name, &vessel.CheckInIntervalMinutes, &vessel.CreatedAt, &vessel.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return vessel, nil
}

func (r *Repository) GetAllVessels() ([]*domain.Vessel, error) {
	query := `
		SELECT id, name, check_in_interval_minutes, created_at, version FROM vessels
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vessels := make([]*domain.Vessel, 0)
	for rows.Next() {
		vessel := &domain.Vessel{}
		dst := []any{&vessel.ID, &vessel.Name, &vessel.CheckInIntervalMinutes, &vessel.CreatedAt, &vessel.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		vessels = append(vessels, vessel)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vessels, nil
}

func (r *Repository) UpdateVessel(vessel *domain.Vessel) error {
	query := `
		UPDATE vessels
		SET
			name = $1,
			check_in_interval_minutes = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{vessel.Name, vessel.CheckInIntervalMinutes, vessel.ID, vessel.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&vessel.CreatedAt, &vessel.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteVessel(id int64) error {
	query := `
		DELETE FROM vessels WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
