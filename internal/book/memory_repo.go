package book

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"booklibrary/internal/platform/memstore"
)

// MemoryRepo keeps books in go-memdb. Write transactions are serialized by
// memdb, so Transition checks and applies the guard on one snapshot.
type MemoryRepo struct {
	db  *memdb.MemDB
	now func() time.Time
}

func NewMemoryRepo(db *memdb.MemDB) *MemoryRepo {
	return &MemoryRepo{db: db, now: time.Now}
}

func (r *MemoryRepo) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func (r *MemoryRepo) owned(txn *memdb.Txn, ownerID string) ([]Book, error) {
	it, err := txn.Get(memstore.TableBooks, memstore.IndexOwner, ownerID)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	var out []Book
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, *obj.(*Book))
	}
	return out, nil
}

// lookup returns the stored record only if ownerID owns it.
func (r *MemoryRepo) lookup(txn *memdb.Txn, ownerID, id string) (*Book, error) {
	raw, err := txn.First(memstore.TableBooks, memstore.IndexID, id)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	b := raw.(*Book)
	if b.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepo) Find(_ context.Context, ownerID string, f Filter, offset, limit int) ([]Book, int, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	all, err := r.owned(txn, ownerID)
	if err != nil {
		return nil, 0, err
	}
	matched := make([]Book, 0, len(all))
	for _, b := range all {
		if f.Matches(b) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if offset < 0 || offset >= total {
		return []Book{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]Book, 0, end-offset)
	for _, b := range matched[offset:end] {
		page = append(page, b.clone())
	}
	return page, total, nil
}

func (r *MemoryRepo) FindByID(_ context.Context, ownerID, id string) (Book, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	b, err := r.lookup(txn, ownerID, id)
	if err != nil {
		return Book{}, err
	}
	return b.clone(), nil
}

func (r *MemoryRepo) Create(_ context.Context, ownerID string, b *Book) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	now := r.timestamp()
	stored := b.clone()
	stored.ID = uuid.NewString()
	stored.OwnerID = ownerID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if err := txn.Insert(memstore.TableBooks, &stored); err != nil {
		return errors.Join(ErrStorage, err)
	}
	txn.Commit()

	*b = stored.clone()
	return nil
}

func (r *MemoryRepo) Update(_ context.Context, ownerID, id string, mutate func(*Book) error) (Book, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	current, err := r.lookup(txn, ownerID, id)
	if err != nil {
		return Book{}, err
	}
	next := current.clone()
	if err := mutate(&next); err != nil {
		return Book{}, err
	}
	next.ID = current.ID
	next.OwnerID = current.OwnerID
	next.CreatedAt = current.CreatedAt
	next.Lending = current.Lending
	next.UpdatedAt = r.timestamp()

	if err := txn.Insert(memstore.TableBooks, &next); err != nil {
		return Book{}, errors.Join(ErrStorage, err)
	}
	txn.Commit()
	return next.clone(), nil
}

func (r *MemoryRepo) Delete(_ context.Context, ownerID, id string) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	current, err := r.lookup(txn, ownerID, id)
	if err != nil {
		return err
	}
	if err := txn.Delete(memstore.TableBooks, current); err != nil {
		return errors.Join(ErrStorage, err)
	}
	txn.Commit()
	return nil
}

func (r *MemoryRepo) Transition(_ context.Context, ownerID, id string, next Lending) (Book, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	current, err := r.lookup(txn, ownerID, id)
	if err != nil {
		return Book{}, err
	}
	if err := checkTransition(current.Lending, next); err != nil {
		return Book{}, err
	}

	updated := current.clone()
	updated.Lending = next
	updated.UpdatedAt = r.timestamp()
	if err := txn.Insert(memstore.TableBooks, &updated); err != nil {
		return Book{}, errors.Join(ErrStorage, err)
	}
	txn.Commit()
	return updated.clone(), nil
}

// checkTransition allows only Available->Borrowed and Borrowed->Available.
func checkTransition(current, next Lending) error {
	switch {
	case next.IsBorrowed() && current.IsBorrowed():
		return ErrAlreadyBorrowed
	case !next.IsBorrowed() && !current.IsBorrowed():
		return ErrNotBorrowed
	}
	return nil
}

// Summarize reads every count inside one read transaction.
func (r *MemoryRepo) Summarize(_ context.Context, ownerID string) (Summary, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	all, err := r.owned(txn, ownerID)
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	counts := make(map[Genre]int)
	for _, b := range all {
		s.Total++
		if b.IsRead {
			s.Read++
		}
		if b.Lending.IsBorrowed() {
			s.Borrowed++
		}
		counts[b.Genre]++
	}
	s.Genres = make([]GenreCount, 0, len(counts))
	for g, n := range counts {
		s.Genres = append(s.Genres, GenreCount{Genre: g, Count: n})
	}
	sortGenreCounts(s.Genres)
	return s, nil
}
