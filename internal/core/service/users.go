package service

import (
	"context"
	"fmt"
	"time"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.Users = (*Users)(nil)

// A Users registers storefront users and refreshes their session blob.
type Users struct {
	storage port.UsersStorage
}

func NewUsers(storage port.UsersStorage) Users {
	return Users{storage}
}

func (u Users) Register(
	ctx context.Context, username string, age int, gender string,
) (domain.User, error) {
	const op = "Users.Register"

	created, err := u.storage.CreateUser(ctx, domain.User{
		Username: username,
		Age:      age,
		Gender:   gender,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (u Users) User(ctx context.Context, id int64) (domain.User, error) {
	const op = "Users.User"

	user, err := u.storage.UserByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (u Users) Session(
	ctx context.Context, userID int64,
) (domain.Session, error) {
	const op = "Users.Session"

	s, err := u.storage.SessionByUserID(ctx, userID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (u Users) TouchSession(
	ctx context.Context, userID int64, client string,
) error {
	const op = "Users.TouchSession"

	err := u.storage.SaveSession(ctx, domain.Session{
		UserID:   userID,
		Client:   client,
		LastSeen: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
