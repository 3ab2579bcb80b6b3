package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.UsersStorage = (*UsersRepository)(nil)

type UsersRepository struct {
	sqldb sqldb
}

func NewUsersRepository(sqldb sqldb) UsersRepository {
	return UsersRepository{sqldb}
}

func (r UsersRepository) CreateUser(
	ctx context.Context, u domain.User,
) (domain.User, error) {
	const op = "UsersRepository.CreateUser"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO users (username, age, gender)
		VALUES ($1, $2, $3)
		RETURNING id;`

	err := r.sqldb.QueryRowContext(
		ctx, query, u.Username, u.Age, u.Gender,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrExists)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (r UsersRepository) UserByID(
	ctx context.Context, id int64,
) (domain.User, error) {
	const op = "UsersRepository.UserByID"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, username, age, gender FROM users WHERE id = $1;`

	var u domain.User
	err := r.sqldb.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Age, &u.Gender,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SaveSession upserts the one-per-user JSON session blob.
func (r UsersRepository) SaveSession(
	ctx context.Context, s domain.Session,
) error {
	const op = "UsersRepository.SaveSession"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	blob, err := json.Marshal(struct {
		Client   string    `json:"client"`
		LastSeen time.Time `json:"last_seen"`
	}{s.Client, s.LastSeen})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO sessions (user_id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = now();`

	if _, err := r.sqldb.ExecContext(ctx, query, s.UserID, string(blob)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SessionByUserID reads the session blob back; a user that never had an
// authenticated request has no row and maps to ErrNotFound.
func (r UsersRepository) SessionByUserID(
	ctx context.Context, userID int64,
) (domain.Session, error) {
	const op = "UsersRepository.SessionByUserID"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT data FROM sessions WHERE user_id = $1;`

	var blob []byte
	err := r.sqldb.QueryRowContext(ctx, query, userID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var data struct {
		Client   string    `json:"client"`
		LastSeen time.Time `json:"last_seen"`
	}
	if err := json.Unmarshal(blob, &data); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.Session{
		UserID:   userID,
		Client:   data.Client,
		LastSeen: data.LastSeen,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
