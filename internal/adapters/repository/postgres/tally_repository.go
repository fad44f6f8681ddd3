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

// tallyRepository counts votes straight from the votes table with GROUP BY.
type tallyRepository struct {
	db *sql.DB
}

func NewTallyRepository(db *sql.DB) ports.TallyRepository {
	return &tallyRepository{
		db: db,
	}
}

func (r *tallyRepository) CountByPollGroupByChoice(ctx context.Context, pollID uuid.UUID) (domain.Tally, error) {
	query := `
		SELECT choice_id, COUNT(*)
		FROM votes
		WHERE poll_id = $1
		GROUP BY choice_id
	`
	return r.queryTally(ctx, query, pollID)
}

func (r *tallyRepository) CountByPollsGroupByChoice(ctx context.Context, pollIDs []uuid.UUID) (domain.Tally, error) {
	if len(pollIDs) == 0 {
		return domain.Tally{}, nil
	}

	query := `
		SELECT choice_id, COUNT(*)
		FROM votes
		WHERE poll_id = ANY($1::uuid[])
		GROUP BY choice_id
	`
	return r.queryTally(ctx, query, uuidArray(pollIDs))
}

func (r *tallyRepository) UserChoice(ctx context.Context, userID, pollID uuid.UUID) (*uuid.UUID, error) {
	query := `SELECT choice_id FROM votes WHERE user_id = $1 AND poll_id = $2`

	var choiceID uuid.UUID
	err := r.db.QueryRowContext(ctx, query, userID, pollID).Scan(&choiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user choice: %w", err)
	}
	return &choiceID, nil
}

func (r *tallyRepository) UserChoices(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	choices := make(map[uuid.UUID]uuid.UUID)
	if len(pollIDs) == 0 {
		return choices, nil
	}

	query := `
		SELECT poll_id, choice_id
		FROM votes
		WHERE user_id = $1 AND poll_id = ANY($2::uuid[])
	`
	rows, err := r.db.QueryContext(ctx, query, userID, uuidArray(pollIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get user choices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pollID, choiceID uuid.UUID
		if err := rows.Scan(&pollID, &choiceID); err != nil {
			return nil, fmt.Errorf("failed to scan user choice: %w", err)
		}
		choices[pollID] = choiceID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user choices: %w", err)
	}
	return choices, nil
}

func (r *tallyRepository) queryTally(ctx context.Context, query string, args ...any) (domain.Tally, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	tally := domain.Tally{}
	for rows.Next() {
		var choiceID uuid.UUID
		var count int64
		if err := rows.Scan(&choiceID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		tally[choiceID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}
	return tally, nil
}
