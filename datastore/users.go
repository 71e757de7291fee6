package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coreybb/roster/models"
)

type UserRepository struct {
	db *sql.DB // The actual database connection pool
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// InsertUser persists a new user and returns the complete record with the
// identifier assigned by the database.
func (r *UserRepository) InsertUser(ctx context.Context, email, firstName string) (*models.User, error) {
	query := `
		INSERT INTO users (email, firstname)
		VALUES ($1, $2)
		RETURNING id
	`
	user := &models.User{
		Email:     email,
		FirstName: firstName,
	}
	if err := r.db.QueryRowContext(ctx, query, email, firstName).Scan(&user.ID); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// GetUsers returns every user in storage, materialized in full. No ordering
// is guaranteed beyond whatever the database returns.
func (r *UserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, email, firstname
		FROM users
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.FirstName); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// GetUserByID retrieves a single user by their storage-assigned identifier.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, email, firstname
		FROM users
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.FirstName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}
