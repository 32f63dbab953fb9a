package memstore

import (
	"testing"

	"github.com/matryer/is"
)

type row struct {
	ID      string
	Email   string
	OwnerID string
}

func TestNew(t *testing.T) {
	is := is.New(t)

	db, err := New()
	is.NoErr(err)

	txn := db.Txn(true)
	is.NoErr(txn.Insert(TableUsers, &row{ID: "u1", Email: "Reader@Example.com"}))
	txn.Commit()

	read := db.Txn(false)
	defer read.Abort()
	raw, err := read.First(TableUsers, IndexEmail, "reader@example.com")
	is.NoErr(err)
	is.True(raw != nil) // email index is case-insensitive
}
