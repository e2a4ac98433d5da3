package repos_test

import (
	"context"
	"errors"
	"testing"

	"campgo/internal/domain"
	"campgo/internal/repos"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memStore(t *testing.T) (*repos.Store, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewStore(db), db
}

func mockStore(t *testing.T) (*repos.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestInTx_RollsBackWhenOrderInsertFails(t *testing.T) {
	st, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO orders`).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := st.InTx(context.Background(), func(tx *repos.Store) error {
		ok, err := tx.Products.ReserveStock(context.Background(), "tent-2p", 2)
		if err != nil || !ok {
			return errors.New("reserve failed")
		}
		return tx.Orders.Create(context.Background(), &domain.Order{ID: "o-1"})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	st, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := st.InTx(context.Background(), func(tx *repos.Store) error {
		_, err := tx.Products.ReserveStock(context.Background(), "tent-2p", 1)
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_NestedCallReusesTransaction(t *testing.T) {
	st, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM orders`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := st.InTx(context.Background(), func(tx *repos.Store) error {
		return tx.InTx(context.Background(), func(inner *repos.Store) error {
			return inner.Orders.Delete(context.Background(), "o-1")
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRowIsNotFound(t *testing.T) {
	st, _ := memStore(t)
	err := st.Orders.Delete(context.Background(), "nope")
	assert.True(t, repos.IsNotFound(err))
}
