package services_test

import (
	"context"
	"errors"
	"testing"

	"campgo/internal/apperr"
	"campgo/internal/repos"
	"campgo/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ts = "2025-06-01T08:00:00.000000Z"

// expectCheckoutReads queues the read phase of a cash-on-delivery checkout of
// two units of tent-4p, with the pre-check seeing stock 5.
func expectCheckoutReads(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`FROM users`).WillReturnRows(sqlmock.NewRows(
		[]string{"id", "user_name", "email", "password_hash", "first_name", "last_name", "phone_number", "role", "created_at"}).
		AddRow(camper, "camper", "camper@campgo.test", "x", "", "", "", "USER", ts))
	mock.ExpectQuery(`FROM addresses`).WillReturnRows(sqlmock.NewRows(
		[]string{"id", "user_id", "full_name", "phone_number", "street", "ward", "district", "city", "country", "zip_code", "is_default", "created_at"}).
		AddRow("a-1", camper, "Camper One", "0901234567", "1 Pine Rd", "", "", "Da Lat", "Vietnam", "", true, ts))
	mock.ExpectQuery(`FROM carts`).WillReturnRows(sqlmock.NewRows(
		[]string{"id", "user_id", "cart_total", "updated_at"}).
		AddRow("c-1", camper, 498.0, ts))
	mock.ExpectQuery(`FROM cart_items`).WillReturnRows(sqlmock.NewRows(
		[]string{"product_id", "quantity", "price", "total", "added_at"}).
		AddRow("tent-4p", 2, 249.0, 498.0, ts))
	mock.ExpectQuery(`FROM products`).WillReturnRows(sqlmock.NewRows(
		[]string{"id", "category_id", "name", "description", "brand", "price", "discount", "stock_quantity", "sold", "images_json", "active", "created_at", "updated_at"}).
		AddRow("tent-4p", "tents", "Basecamp 4P", "", "", 249.0, 0.0, 5, 0, "[]", true, ts, ""))
}

func mockOrders(t *testing.T) (*services.OrderService, sqlmock.Sqlmock, *fakePublisher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	pub := &fakePublisher{}
	svc := services.NewOrderService(repos.NewStore(sqlx.NewDb(db, "sqlmock")), pub, nil, nil, services.DefaultShippingFee, zap.NewNop())
	return svc, mock, pub
}

// Stock sold out between the pre-check and the write: the guarded decrement
// matches no row and nothing else is written.
func TestCreateOrder_GuardedDecrementCatchesConcurrentSale(t *testing.T) {
	svc, mock, pub := mockOrders(t)
	expectCheckoutReads(mock)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.CreateOrder(context.Background(), camper, cod())
	require.True(t, apperr.Is(err, apperr.KindInsufficientStock))
	assert.Contains(t, apperr.Message(err), "Basecamp 4P")
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, pub.types())
}

func TestCreateOrder_OrderInsertFailureRollsBackStockAndCart(t *testing.T) {
	svc, mock, pub := mockOrders(t)
	expectCheckoutReads(mock)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM carts`).WillReturnRows(sqlmock.NewRows(
		[]string{"id", "user_id", "cart_total", "updated_at"}).
		AddRow("c-1", camper, 498.0, ts))
	mock.ExpectQuery(`FROM cart_items`).WillReturnRows(sqlmock.NewRows(
		[]string{"product_id", "quantity", "price", "total", "added_at"}).
		AddRow("tent-4p", 2, 249.0, 498.0, ts))
	mock.ExpectExec(`UPDATE carts`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM cart_items`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO orders`).WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	_, err := svc.CreateOrder(context.Background(), camper, cod())
	require.True(t, apperr.Is(err, apperr.KindInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, pub.types())
}
