package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apromaxeng/meetings-api/internal/domain"
)

type MeetingRepo interface {
	Create(ctx context.Context, m *domain.Meeting) (*domain.Meeting, error)
	GetByID(ctx context.Context, id string) (*domain.Meeting, error)
	List(ctx context.Context, limit, offset int, status *domain.MeetingStatus) ([]domain.Meeting, error)
}

type MeetingRepoImpl struct{ pool *pgxpool.Pool }

func NewMeetingRepo(pool *pgxpool.Pool) *MeetingRepoImpl { return &MeetingRepoImpl{pool: pool} }

const meetingCols = `id, status,
name, email, company, phone, message,
meeting_date, meeting_time, starts_at, duration_minutes, meeting_type,
meet_link, calendar_event_id, calendar_event_url, created_at`

func (r *MeetingRepoImpl) Create(ctx context.Context, m *domain.Meeting) (*domain.Meeting, error) {
	const q = `INSERT INTO meetings (
    id, status,
    name, email, company, phone, message,
    meeting_date, meeting_time, starts_at, duration_minutes, meeting_type,
    meet_link, calendar_event_id, calendar_event_url
  ) VALUES ($1,'pending',$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NULL,NULL,NULL)
  RETURNING ` + meetingCols

	id := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var out domain.Meeting
	err := r.pool.QueryRow(ctx, q, id,
		m.Name, m.Email, m.Company, m.Phone, m.Message,
		m.DisplayDate, m.DisplayTime, m.StartsAt, m.Duration, m.MeetingType,
	).Scan(
		&out.ID, &out.Status,
		&out.Name, &out.Email, &out.Company, &out.Phone, &out.Message,
		&out.DisplayDate, &out.DisplayTime, &out.StartsAt, &out.Duration, &out.MeetingType,
		&out.MeetLink, &out.CalendarEventID, &out.CalendarEventURL, &out.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return &out, nil
}

func (r *MeetingRepoImpl) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	const q = `SELECT ` + meetingCols + ` FROM meetings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m domain.Meeting
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.Status,
		&m.Name, &m.Email, &m.Company, &m.Phone, &m.Message,
		&m.DisplayDate, &m.DisplayTime, &m.StartsAt, &m.Duration, &m.MeetingType,
		&m.MeetLink, &m.CalendarEventID, &m.CalendarEventURL, &m.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MeetingRepoImpl) List(ctx context.Context, limit, offset int, status *domain.MeetingStatus) ([]domain.Meeting, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + meetingCols + ` FROM meetings`
	args := []any{}
	if status != nil {
		q += ` WHERE status = $1`
		args = append(args, *status)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ms := make([]domain.Meeting, 0, limit)
	for rows.Next() {
		var m domain.Meeting
		if err := rows.Scan(
			&m.ID, &m.Status,
			&m.Name, &m.Email, &m.Company, &m.Phone, &m.Message,
			&m.DisplayDate, &m.DisplayTime, &m.StartsAt, &m.Duration, &m.MeetingType,
			&m.MeetLink, &m.CalendarEventID, &m.CalendarEventURL, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

var _ MeetingRepo = (*MeetingRepoImpl)(nil)
