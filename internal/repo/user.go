package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/packlist/internal/domain"
)

// UserRepo defines the persistence operations for Users.
type UserRepo interface {
	// FindOrCreate returns the user with the profile's external ID, creating
	// it if needed. Display fields are refreshed from the profile either way.
	FindOrCreate(ctx context.Context, p domain.Profile) (domain.User, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

// FindOrCreate is a single upsert on the unique external_id, so concurrent
// first messages from one account still yield exactly one row.
func (r *pgUserRepo) FindOrCreate(ctx context.Context, p domain.Profile) (domain.User, error) {
	const q = `
		INSERT INTO users (external_id, username, first_name, last_name)
		VALUES (@external_id, @username, @first_name, @last_name)
		ON CONFLICT (external_id) DO UPDATE
		SET username   = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name  = EXCLUDED.last_name
		RETURNING id, external_id, username, first_name, last_name, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"external_id": p.ExternalID,
		"username":    p.Username,
		"first_name":  p.FirstName,
		"last_name":   p.LastName,
	})
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.FindOrCreate: %w", err)
	}
	return u, nil
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)

	err := s.Scan(&id, &u.ExternalID, &u.Username, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	return u, nil
}
