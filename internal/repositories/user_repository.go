package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"marketplace-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository abstracts account persistence.
type UserRepository interface {
	GetOrCreate(ctx context.Context, username, role string) (models.User, error)
	GetByID(ctx context.Context, userID int) (models.User, error)
	UsernamesByID(ctx context.Context, ids []int) (map[int]string, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetOrCreate returns the account for the username, creating it with the
// given role on first sight.
func (r *UserRepo) GetOrCreate(ctx context.Context, username, role string) (models.User, error) {
	if role != models.RoleSeller {
		role = models.RoleUser
	}

	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, username, role, created_at FROM users WHERE username=$1`, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO users (username, role) VALUES ($1, $2)
         RETURNING id, username, role, created_at`, username, role).StructScan(&user)
	return user, err
}

// GetByID fetches a single account.
func (r *UserRepo) GetByID(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, username, role, created_at FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UsernamesByID resolves display names for a set of account ids.
func (r *UserRepo) UsernamesByID(ctx context.Context, ids []int) (map[int]string, error) {
	result := map[int]string{}
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT id, username, role, created_at FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u.Username
	}
	return result, nil
}
