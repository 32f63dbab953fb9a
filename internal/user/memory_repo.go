package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"booklibrary/internal/platform/memstore"
)

// MemoryRepo keeps users in a go-memdb table. It backs STORAGE_DRIVER=memory and tests.
type MemoryRepo struct {
	db  *memdb.MemDB
	now func() time.Time
}

func NewMemoryRepo(db *memdb.MemDB) *MemoryRepo {
	return &MemoryRepo{db: db, now: time.Now}
}

func (r *MemoryRepo) Create(_ context.Context, u *User) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(memstore.TableUsers, memstore.IndexEmail, strings.ToLower(u.Email))
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if existing != nil {
		return ErrAlreadyExists
	}

	now := r.now().UTC()
	stored := *u
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if err := txn.Insert(memstore.TableUsers, &stored); err != nil {
		return errors.Join(ErrStorage, err)
	}
	txn.Commit()

	*u = stored
	return nil
}

func (r *MemoryRepo) GetByEmail(_ context.Context, email string) (User, error) {
	return r.first(memstore.IndexEmail, strings.ToLower(email))
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (User, error) {
	return r.first(memstore.IndexID, id)
}

func (r *MemoryRepo) first(index, value string) (User, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(memstore.TableUsers, index, value)
	if err != nil {
		return User{}, errors.Join(ErrStorage, err)
	}
	if raw == nil {
		return User{}, ErrNotFound
	}
	return *raw.(*User), nil
}
