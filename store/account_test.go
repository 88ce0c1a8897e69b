package store

import (
	"context"
	"errors"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

var accountColumns = []string{"id", "email", "password_hash", "created_at", "updated_at"}

func (s *HelpStoreTestSuite) TestGetAccountByEmail() {
	id := uuid.New()
	ts := time.Date(2020, 4, 1, 8, 0, 0, 0, time.UTC)
	s.mock.ExpectQuery(`SELECT \* FROM "accounts"\s+WHERE \(email = \$1\)`).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(id.String(), "ann@example.com", "hash", ts, ts))

	a, err := s.store.GetAccountByEmail(context.Background(), " Ann@Example.com ")
	s.NoError(err)
	s.Equal(id, a.ID)
	s.Equal("hash", a.PasswordHash)
}

func (s *HelpStoreTestSuite) TestGetAccountNotFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "accounts"\s+WHERE \(id = \$1\)`).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := s.store.GetAccount(context.Background(), uuid.New().String())
	s.Equal(ErrAccountNotFound, err)

	_, err = s.store.GetAccount(context.Background(), "not-a-uuid")
	s.Equal(ErrAccountNotFound, err)
}

func (s *HelpStoreTestSuite) TestGetAccountFailure() {
	s.mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WillReturnError(errors.New("connection reset"))

	_, err := s.store.GetAccountByEmail(context.Background(), "ann@example.com")
	var pe *PersistenceError
	s.True(errors.As(err, &pe))
	s.Equal("get account", pe.Op)
}

func (s *HelpStoreTestSuite) TestDeleteAccount() {
	id := uuid.New()
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM "accounts"\s+WHERE \(id = \$1\)`).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.store.DeleteAccount(context.Background(), id.String()))

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM "accounts"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	s.Equal(ErrAccountNotFound, s.store.DeleteAccount(context.Background(), uuid.New().String()))
	s.Equal(ErrAccountNotFound, s.store.DeleteAccount(context.Background(), "not-a-uuid"))
}

func (s *HelpStoreTestSuite) TestDeleteAccountFailure() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM "accounts"`).
		WillReturnError(errors.New("connection reset"))
	s.mock.ExpectRollback()

	err := s.store.DeleteAccount(context.Background(), uuid.New().String())
	var pe *PersistenceError
	s.True(errors.As(err, &pe))
	s.Equal("delete account", pe.Op)
}
