// Package memstore holds the go-memdb schema backing the in-memory repositories.
package memstore

import (
	"fmt"

	"github.com/hashicorp/go-memdb"
)

const (
	TableUsers         = "users"
	TableBooks         = "books"
	TableRevokedTokens = "revoked_tokens"

	IndexID    = "id"
	IndexEmail = "email"
	IndexOwner = "owner"
)

// Schema describes the users, books and revoked token tables.
func Schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			TableUsers: {
				Name: TableUsers,
				Indexes: map[string]*memdb.IndexSchema{
					IndexID: {
						Name:    IndexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					IndexEmail: {
						Name:    IndexEmail,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Email", Lowercase: true},
					},
				},
			},
			TableBooks: {
				Name: TableBooks,
				Indexes: map[string]*memdb.IndexSchema{
					IndexID: {
						Name:    IndexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					IndexOwner: {
						Name:    IndexOwner,
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "OwnerID"},
					},
				},
			},
			TableRevokedTokens: {
				Name: TableRevokedTokens,
				Indexes: map[string]*memdb.IndexSchema{
					IndexID: {
						Name:    IndexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "JTI"},
					},
				},
			},
		},
	}
}

// New creates an empty database with Schema.
func New() (*memdb.MemDB, error) {
	schema := Schema()
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("validating in-memory schema: %w", err)
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}
	return db, nil
}
