package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tandem/internal/domain"
)

type PreferenceRepo struct {
	db *pgxpool.Pool
}

func NewPreferenceRepository(db *pgxpool.Pool) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

func (r *PreferenceRepo) Create(ctx context.Context, userID int64, dto domain.CreatePreferenceDTO) (*domain.MeetingPreference, error) {
	windows, err := marshalWindows(dto.AvailabilityWindows)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO meeting_preferences (user_id, timezone, visible, availability_windows, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, user_id, timezone, visible, availability_windows, created_at, updated_at
	`

	return r.scanPreference(r.db.QueryRow(ctx, query, userID, dto.Timezone, dto.Visible, windows, time.Now()))
}

func (r *PreferenceRepo) GetByUserID(ctx context.Context, userID int64) (*domain.MeetingPreference, error) {
	query := `
		SELECT id, user_id, timezone, visible, availability_windows, created_at, updated_at
		FROM meeting_preferences
		WHERE user_id = $1
	`

	pref, err := r.scanPreference(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return pref, nil
}

func (r *PreferenceRepo) Update(ctx context.Context, userID, id int64, dto domain.UpdatePreferenceDTO) (*domain.MeetingPreference, error) {
	setValues := []string{}
	args := []interface{}{id, userID}
	argID := 3

	if dto.Timezone != nil {
		setValues = append(setValues, fmt.Sprintf("timezone = $%d", argID))
		args = append(args, *dto.Timezone)
		argID++
	}

	if dto.Visible != nil {
		setValues = append(setValues, fmt.Sprintf("visible = $%d", argID))
		args = append(args, *dto.Visible)
		argID++
	}

	if dto.AvailabilityWindows != nil {
		windows, err := marshalWindows(*dto.AvailabilityWindows)
		if err != nil {
			return nil, err
		}
		setValues = append(setValues, fmt.Sprintf("availability_windows = $%d", argID))
		args = append(args, windows)
		argID++
	}

	setValues = append(setValues, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())

	query := "UPDATE meeting_preferences SET " + strings.Join(setValues, ", ") +
		" WHERE id = $1 AND user_id = $2" +
		" RETURNING id, user_id, timezone, visible, availability_windows, created_at, updated_at"

	pref, err := r.scanPreference(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("запись о встречах не найдена")
		}
		return nil, err
	}

	return pref, nil
}

func (r *PreferenceRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM meeting_preferences WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления записи о встречах: %w", err)
	}

	return nil
}

func (r *PreferenceRepo) scanPreference(row pgx.Row) (*domain.MeetingPreference, error) {
	var pref domain.MeetingPreference
	var windows []byte

	err := row.Scan(
		&pref.ID,
		&pref.UserID,
		&pref.Timezone,
		&pref.Visible,
		&windows,
		&pref.CreatedAt,
		&pref.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("ошибка чтения записи о встречах: %w", err)
	}

	if len(windows) > 0 {
		if err := json.Unmarshal(windows, &pref.AvailabilityWindows); err != nil {
			return nil, fmt.Errorf("ошибка разбора окон доступности: %w", err)
		}
	}
	if pref.AvailabilityWindows == nil {
		pref.AvailabilityWindows = []domain.AvailabilityWindow{}
	}

	return &pref, nil
}

func marshalWindows(windows []domain.AvailabilityWindow) ([]byte, error) {
	if windows == nil {
		windows = []domain.AvailabilityWindow{}
	}

	data, err := json.Marshal(windows)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации окон доступности: %w", err)
	}

	return data, nil
}
