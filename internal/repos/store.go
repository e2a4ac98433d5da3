package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Store bundles every repo over one handle, either the pool or a transaction.
type Store struct {
	db *sqlx.DB // nil when the store is bound to a transaction

	Users      *UserRepo
	Categories *CategoryRepo
	Products   *ProductRepo
	Carts      *CartRepo
	Addresses  *AddressRepo
	Cards      *CardRepo
	Orders     *OrderRepo
	Wishlists  *WishlistRepo
	Reviews    *ReviewRepo
	Campsites  *CampsiteRepo
	Dashboard  *DashboardRepo
}

func NewStore(db *sqlx.DB) *Store {
	s := bind(db)
	s.db = db
	return s
}

func bind(q sqlx.ExtContext) *Store {
	return &Store{
		Users:      &UserRepo{q: q},
		Categories: &CategoryRepo{q: q},
		Products:   &ProductRepo{q: q},
		Carts:      &CartRepo{q: q},
		Addresses:  &AddressRepo{q: q},
		Cards:      &CardRepo{q: q},
		Orders:     &OrderRepo{q: q},
		Wishlists:  &WishlistRepo{q: q},
		Reviews:    &ReviewRepo{q: q},
		Campsites:  &CampsiteRepo{q: q},
		Dashboard:  &DashboardRepo{q: q},
	}
}

// InTx runs fn against a Store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise. Calling InTx on a store
// that is already transactional runs fn in the enclosing transaction.
//
// The pool holds one connection, so fn must only use the store it is given.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(bind(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func IsNotFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }

// mustAffect turns a zero-row write into sql.ErrNoRows.
func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
