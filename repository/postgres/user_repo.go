package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/repository"
)

const userColumns = `id, points_earned, points_used, time_earned, time_used, tasks_completed, created_at, updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation of UserRepository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetOrCreate(ctx context.Context, id string) (*domain.User, error) {
	// DO UPDATE instead of DO NOTHING so RETURNING yields the existing row.
	const query = `
	INSERT INTO users (id)
	VALUES ($1)
	ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
	RETURNING ` + userColumns

	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) Credit(ctx context.Context, id string, points, minutes int64) (*domain.User, error) {
	const query = `
	INSERT INTO users (id, points_earned, time_earned, tasks_completed)
	VALUES ($1, GREATEST($2, 0), GREATEST($3, 0), 1)
	ON CONFLICT (id) DO UPDATE
	SET points_earned = users.points_earned + GREATEST($2, 0),
		time_earned = users.time_earned + GREATEST($3, 0),
		tasks_completed = users.tasks_completed + 1,
		updated_at = NOW()
	RETURNING ` + userColumns

	return scanUser(r.pool.QueryRow(ctx, query, id, points, minutes))
}

func (r *userRepository) SpendPoints(ctx context.Context, id string, amount int64) (*domain.User, error) {
	const query = `
	UPDATE users
	SET points_used = points_used + $2, updated_at = NOW()
	WHERE id = $1 AND points_earned - points_used >= $2
	RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInsufficientBalance
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) SpendTime(ctx context.Context, id string, minutes int64) (*domain.User, error) {
	const query = `
	UPDATE users
	SET time_used = time_used + $2, updated_at = NOW()
	WHERE id = $1 AND time_earned - time_used >= $2
	RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, minutes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInsufficientBalance
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanUser(row scanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.PointsEarned,
		&user.PointsUsed,
		&user.TimeEarned,
		&user.TimeUsed,
		&user.TasksCompleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
