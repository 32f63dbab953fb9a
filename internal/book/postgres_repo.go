package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dialectPostgres = "postgres"
	tableBooks      = "books"

	colID          = "id"
	colOwnerID     = "owner_id"
	colTitle       = "title"
	colAuthor      = "author"
	colDescription = "description"
	colGenre       = "genre"
	colIsRead      = "is_read"
	colBorrowedBy  = "borrowed_by"
	colCreatedAt   = "created_at"
	aliasCount     = "count"
	aliasRead      = "read"
	aliasBorrowed  = "borrowed"
)

var bookColumns = []string{
	"id", "owner_id", "title", "author", "genre", "publication_year", "is_read",
	"cover_image_url", "isbn", "description", "notes", "rating", "tags",
	"borrowed_by", "borrowed_date", "created_at", "updated_at",
}

var bookColumnList = strings.Join(bookColumns, ", ")

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// validID rejects ids that cannot name a row, so they read as not found
// instead of failing the uuid cast.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func storageErr(err error) error {
	return errors.Join(ErrStorage, err)
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func filterExpressions(ownerID string, f Filter) []goqu.Expression {
	exps := []goqu.Expression{goqu.C(colOwnerID).Eq(ownerID)}

	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		exps = append(exps, goqu.Or(
			goqu.C(colTitle).ILike(pattern),
			goqu.C(colAuthor).ILike(pattern),
			goqu.C(colDescription).ILike(pattern),
		))
	}
	if f.Genre.Valid() {
		exps = append(exps, goqu.C(colGenre).Eq(f.Genre.String()))
	}
	if f.IsRead != nil {
		exps = append(exps, goqu.C(colIsRead).Eq(*f.IsRead))
	}
	if f.IsBorrowed != nil {
		if *f.IsBorrowed {
			exps = append(exps, goqu.C(colBorrowedBy).IsNotNull())
		} else {
			exps = append(exps, goqu.C(colBorrowedBy).IsNull())
		}
	}
	return exps
}

func filteredBooks(ownerID string, f Filter) *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Prepared(true).
		Where(filterExpressions(ownerID, f)...)
}

func pageQuery(ownerID string, f Filter, offset, limit int) (string, []interface{}, error) {
	cols := make([]interface{}, len(bookColumns))
	for i, c := range bookColumns {
		cols[i] = c
	}
	return filteredBooks(ownerID, f).
		Select(cols...).
		Order(goqu.I(colCreatedAt).Desc(), goqu.I(colID).Desc()).
		Offset(uint(offset)).
		Limit(uint(limit)).
		ToSQL()
}

func countQuery(ownerID string, f Filter) (string, []interface{}, error) {
	return filteredBooks(ownerID, f).Select(goqu.COUNT(goqu.Star())).ToSQL()
}

// summaryQuery returns one row per genre with its total, read and borrowed
// counts, so every figure of a summary comes from the same statement.
func summaryQuery(ownerID string) (string, []interface{}, error) {
	return filteredBooks(ownerID, Filter{}).
		Select(
			goqu.C(colGenre),
			goqu.COUNT(goqu.Star()).As(aliasCount),
			goqu.L(`COUNT(*) FILTER (WHERE "is_read")`).As(aliasRead),
			goqu.L(`COUNT(*) FILTER (WHERE "borrowed_by" IS NOT NULL)`).As(aliasBorrowed),
		).
		GroupBy(goqu.C(colGenre)).
		Order(goqu.I(aliasCount).Desc()).
		ToSQL()
}

func scanBook(row pgx.Row) (Book, error) {
	var (
		b            Book
		genre        string
		rating       *int16
		tags         []string
		borrowedBy   *string
		borrowedDate *time.Time
	)
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Title, &b.Author, &genre, &b.PublicationYear, &b.IsRead,
		&b.CoverImageURL, &b.ISBN, &b.Description, &b.Notes, &rating, &tags,
		&borrowedBy, &borrowedDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return Book{}, err
	}

	g, err := ParseGenre(genre)
	if err != nil {
		return Book{}, err
	}
	b.Genre = g
	if rating != nil {
		v := int(*rating)
		b.Rating = &v
	}
	b.Tags = tags
	b.Lending = OnShelf()
	if borrowedBy != nil && borrowedDate != nil {
		b.Lending = LentTo(*borrowedBy, borrowedDate.UTC())
	}
	return b, nil
}

func lendingArgs(l Lending) (*string, *time.Time) {
	if !l.IsBorrowed() {
		return nil, nil
	}
	borrower, since := l.Borrower, l.Since
	return &borrower, &since
}

func tagsArg(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (r *PostgresRepo) Find(ctx context.Context, ownerID string, f Filter, offset, limit int) ([]Book, int, error) {
	countSQL, countArgs, err := countQuery(ownerID, f)
	if err != nil {
		return nil, 0, storageErr(err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, storageErr(err)
	}
	if offset < 0 || offset >= total {
		return []Book{}, total, nil
	}

	dataSQL, dataArgs, err := pageQuery(ownerID, f, offset, limit)
	if err != nil {
		return nil, 0, storageErr(err)
	}

	rows, err := r.db.Query(timeoutCtx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, storageErr(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr(err)
	}
	return out, total, nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, ownerID, id string) (Book, error) {
	if !validID(id) {
		return Book{}, ErrNotFound
	}
	query := `SELECT ` + bookColumnList + ` FROM books WHERE id = $1 AND owner_id = $2`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, storageErr(err)
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, ownerID string, b *Book) error {
	const query = `
	INSERT INTO books (owner_id, title, author, genre, publication_year, is_read,
	                   cover_image_url, isbn, description, notes, rating, tags,
	                   borrowed_by, borrowed_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id, created_at, updated_at
	`
	borrowedBy, borrowedDate := lendingArgs(b.Lending)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, query,
		ownerID, b.Title, b.Author, b.Genre.String(), b.PublicationYear, b.IsRead,
		b.CoverImageURL, b.ISBN, b.Description, b.Notes, b.Rating, tagsArg(b.Tags),
		borrowedBy, borrowedDate,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return storageErr(err)
	}
	b.OwnerID = ownerID
	return nil
}

// Update locks the row for the duration of mutate so concurrent updates and
// transitions apply one after another.
func (r *PostgresRepo) Update(ctx context.Context, ownerID, id string, mutate func(*Book) error) (Book, error) {
	if !validID(id) {
		return Book{}, ErrNotFound
	}
	selectQuery := `SELECT ` + bookColumnList + ` FROM books WHERE id = $1 AND owner_id = $2 FOR UPDATE`
	const updateQuery = `
	UPDATE books
	SET title = $3, author = $4, genre = $5, publication_year = $6, is_read = $7,
	    cover_image_url = $8, isbn = $9, description = $10, notes = $11, rating = $12,
	    tags = $13, updated_at = now()
	WHERE id = $1 AND owner_id = $2
	RETURNING updated_at
	`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		result    Book
		rejection error
	)
	err := pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		current, err := scanBook(tx.QueryRow(timeoutCtx, selectQuery, id, ownerID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return storageErr(err)
		}

		next := current.clone()
		if rejection = mutate(&next); rejection != nil {
			return rejection
		}
		next.ID, next.OwnerID, next.CreatedAt, next.Lending = current.ID, current.OwnerID, current.CreatedAt, current.Lending

		err = tx.QueryRow(timeoutCtx, updateQuery,
			id, ownerID, next.Title, next.Author, next.Genre.String(), next.PublicationYear, next.IsRead,
			next.CoverImageURL, next.ISBN, next.Description, next.Notes, next.Rating, tagsArg(next.Tags),
		).Scan(&next.UpdatedAt)
		if err != nil {
			return storageErr(err)
		}
		result = next
		return nil
	})
	switch {
	case err == nil:
	case rejection != nil, errors.Is(err, ErrNotFound), errors.Is(err, ErrStorage):
		return Book{}, err
	default:
		return Book{}, storageErr(err)
	}
	return result, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	const query = `DELETE FROM books WHERE id = $1 AND owner_id = $2`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, id, ownerID)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Transition is a single conditional UPDATE: the guard on borrowed_by is
// evaluated by the same statement that writes the new state.
func (r *PostgresRepo) Transition(ctx context.Context, ownerID, id string, next Lending) (Book, error) {
	if !validID(id) {
		return Book{}, ErrNotFound
	}

	var (
		query    string
		args     []any
		guardErr error
	)
	if next.IsBorrowed() {
		query = `
		UPDATE books SET borrowed_by = $3, borrowed_date = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND borrowed_by IS NULL
		RETURNING ` + bookColumnList
		args = []any{id, ownerID, next.Borrower, next.Since}
		guardErr = ErrAlreadyBorrowed
	} else {
		query = `
		UPDATE books SET borrowed_by = NULL, borrowed_date = NULL, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND borrowed_by IS NOT NULL
		RETURNING ` + bookColumnList
		args = []any{id, ownerID}
		guardErr = ErrNotBorrowed
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Book{}, storageErr(err)
	}

	const existsQuery = `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1 AND owner_id = $2)`
	var exists bool
	if err := r.db.QueryRow(timeoutCtx, existsQuery, id, ownerID).Scan(&exists); err != nil {
		return Book{}, storageErr(err)
	}
	if !exists {
		return Book{}, ErrNotFound
	}
	return Book{}, guardErr
}

func (r *PostgresRepo) Summarize(ctx context.Context, ownerID string) (Summary, error) {
	query, args, err := summaryQuery(ownerID)
	if err != nil {
		return Summary{}, storageErr(err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return Summary{}, storageErr(err)
	}
	defer rows.Close()

	s := Summary{Genres: []GenreCount{}}
	for rows.Next() {
		var (
			name                  string
			count, read, borrowed int
		)
		if err := rows.Scan(&name, &count, &read, &borrowed); err != nil {
			return Summary{}, storageErr(err)
		}
		g, err := ParseGenre(name)
		if err != nil {
			return Summary{}, storageErr(err)
		}
		s.Total += count
		s.Read += read
		s.Borrowed += borrowed
		s.Genres = append(s.Genres, GenreCount{Genre: g, Count: count})
	}
	if err := rows.Err(); err != nil {
		return Summary{}, storageErr(err)
	}
	sortGenreCounts(s.Genres)
	return s, nil
}
