package auth

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-memdb"

	"booklibrary/internal/platform/memstore"
)

type revokedToken struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
}

type MemoryRevocations struct {
	db  *memdb.MemDB
	now func() time.Time
}

func NewMemoryRevocations(db *memdb.MemDB) *MemoryRevocations {
	return &MemoryRevocations{db: db, now: time.Now}
}

func (r *MemoryRevocations) Revoke(_ context.Context, jti, userID string, expiresAt time.Time) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(memstore.TableRevokedTokens, memstore.IndexID, jti)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if existing != nil {
		return nil
	}
	if err := txn.Insert(memstore.TableRevokedTokens, &revokedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}); err != nil {
		return errors.Join(ErrStorage, err)
	}
	txn.Commit()
	return nil
}

func (r *MemoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(memstore.TableRevokedTokens, memstore.IndexID, jti)
	if err != nil {
		return false, errors.Join(ErrStorage, err)
	}
	if raw == nil {
		return false, nil
	}
	return raw.(*revokedToken).ExpiresAt.After(r.now()), nil
}

func (r *MemoryRevocations) CleanupExpired(_ context.Context) (int, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	it, err := txn.Get(memstore.TableRevokedTokens, memstore.IndexID)
	if err != nil {
		return 0, errors.Join(ErrStorage, err)
	}
	now := r.now()
	var expired []*revokedToken
	for raw := it.Next(); raw != nil; raw = it.Next() {
		if t := raw.(*revokedToken); !t.ExpiresAt.After(now) {
			expired = append(expired, t)
		}
	}
	for _, t := range expired {
		if err := txn.Delete(memstore.TableRevokedTokens, t); err != nil {
			return 0, errors.Join(ErrStorage, err)
		}
	}
	txn.Commit()
	return len(expired), nil
}
