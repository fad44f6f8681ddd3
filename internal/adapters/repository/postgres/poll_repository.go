package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, question, created_by, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, queryPoll, poll.ID, poll.Question, poll.CreatedBy, poll.CreatedAt, poll.ExpiresAt)
	if err != nil {
		if _, ok := constraintViolation(err, codeForeignKeyViolation); ok {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryChoice := `
		INSERT INTO choices (id, poll_id, text, position)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, queryChoice)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for i, c := range poll.Choices {
		if _, err := stmt.ExecContext(ctx, c.ID, poll.ID, c.Text, i); err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := `
		SELECT id, question, created_by, created_at, expires_at
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&poll.ID, &poll.Question, &poll.CreatedBy, &poll.CreatedAt, &poll.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := r.attachChoices(ctx, []*domain.Poll{&poll}); err != nil {
		return nil, err
	}

	return &poll, nil
}

func (r *pollRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Poll, error) {
	if len(ids) == 0 {
		return []*domain.Poll{}, nil
	}

	query := `
		SELECT id, question, created_by, created_at, expires_at
		FROM polls
		WHERE id = ANY($1::uuid[])
		ORDER BY created_at DESC, id
	`
	return r.queryPolls(ctx, query, uuidArray(ids))
}

func (r *pollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM polls`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count polls: %w", err)
	}

	query := `
		SELECT id, question, created_by, created_at, expires_at
		FROM polls
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`
	polls, err := r.queryPolls(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return polls, total, nil
}

func (r *pollRepository) ListAfter(ctx context.Context, after *domain.PollCursor, limit int) ([]*domain.Poll, error) {
	if after == nil {
		query := `
			SELECT id, question, created_by, created_at, expires_at
			FROM polls
			ORDER BY created_at DESC, id
			LIMIT $1
		`
		return r.queryPolls(ctx, query, limit)
	}

	query := `
		SELECT id, question, created_by, created_at, expires_at
		FROM polls
		WHERE created_at < $1 OR (created_at = $1 AND id > $2)
		ORDER BY created_at DESC, id
		LIMIT $3
	`
	return r.queryPolls(ctx, query, after.CreatedAt, after.ID, limit)
}

func (r *pollRepository) ListByCreator(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Poll, int64, error) {
	total, err := r.CountByCreator(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, question, created_by, created_at, expires_at
		FROM polls
		WHERE created_by = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	polls, err := r.queryPolls(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return polls, total, nil
}

func (r *pollRepository) CountByCreator(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM polls WHERE created_by = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count polls by creator: %w", err)
	}
	return total, nil
}

func (r *pollRepository) queryPolls(ctx context.Context, query string, args ...any) ([]*domain.Poll, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	polls := []*domain.Poll{}
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(&poll.ID, &poll.Question, &poll.CreatedBy, &poll.CreatedAt, &poll.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}

	if err := r.attachChoices(ctx, polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// attachChoices loads the choices of all polls with a single query.
func (r *pollRepository) attachChoices(ctx context.Context, polls []*domain.Poll) error {
	if len(polls) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Poll, len(polls))
	ids := make([]uuid.UUID, 0, len(polls))
	for _, p := range polls {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	query := `
		SELECT id, poll_id, text
		FROM choices
		WHERE poll_id = ANY($1::uuid[])
		ORDER BY poll_id, position
	`
	rows, err := r.db.QueryContext(ctx, query, uuidArray(ids))
	if err != nil {
		return fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Choice
		if err := rows.Scan(&c.ID, &c.PollID, &c.Text); err != nil {
			return fmt.Errorf("failed to scan choice: %w", err)
		}
		if p, ok := byID[c.PollID]; ok {
			p.Choices = append(p.Choices, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating choices: %w", err)
	}
	return nil
}
