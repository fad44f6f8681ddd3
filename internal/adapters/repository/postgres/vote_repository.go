package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

const votesPollUserConstraint = "votes_poll_id_user_id_key"

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// SaveVote is a plain insert. When two casts for the same (poll, user) race,
// the unique constraint rejects all but one of them.
func (r *voteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, poll_id, choice_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, vote.ID, vote.PollID, vote.ChoiceID, vote.UserID, vote.CreatedAt)
	if err == nil {
		return nil
	}

	if constraint, ok := constraintViolation(err, codeUniqueViolation); ok && constraint == votesPollUserConstraint {
		return domain.ErrAlreadyVoted
	}
	if constraint, ok := constraintViolation(err, codeForeignKeyViolation); ok {
		switch constraint {
		case "votes_choice_fkey":
			return domain.ErrChoiceNotFound
		case "votes_poll_id_fkey":
			return domain.ErrPollNotFound
		case "votes_user_id_fkey":
			return domain.ErrUserNotFound
		}
	}
	return fmt.Errorf("failed to save vote: %w", err)
}

func (r *voteRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return total, nil
}

func (r *voteRepository) VotedPollIDs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]uuid.UUID, int64, error) {
	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT poll_id
		FROM votes
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list voted polls: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("failed to scan poll id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating voted polls: %w", err)
	}
	return ids, total, nil
}
