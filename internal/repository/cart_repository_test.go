package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesOnDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The merge happens in SQL, so the statement itself is the contract.
	mock.ExpectExec("ON DUPLICATE KEY UPDATE quantity = quantity \\+ VALUES\\(quantity\\)").
		WithArgs(uint64(1), uint64(4), uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = NewCartRepo(db).AddItem(context.Background(), 1, 4, 2)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuantityForeignRowIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Another user's row: the scoped update touches nothing and the probe
	// finds nothing either.
	mock.ExpectExec("UPDATE cart_items SET quantity=").
		WithArgs(uint32(3), uint64(55), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM cart_items WHERE id=").
		WithArgs(uint64(55), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err = NewCartRepo(db).UpdateQuantity(context.Background(), 1, 55, 3)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuantitySameValueIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE cart_items SET quantity=").
		WithArgs(uint32(3), uint64(55), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM cart_items WHERE id=").
		WithArgs(uint64(55), uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err = NewCartRepo(db).UpdateQuantity(context.Background(), 1, 55, 3)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItemMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM cart_items WHERE id=").
		WithArgs(uint64(9), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewCartRepo(db).RemoveItem(context.Background(), 1, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}
