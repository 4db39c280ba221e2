// Package sqlitestore keeps the same document-store contract as the
// JSON file driver but inside an embedded sqlite database, one row per
// document. It exists to prove callers never need to know which driver
// is underneath.
package sqlitestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/hifood/hifood-server/internal/store"
)

type document struct {
	Seq        uint   `gorm:"primaryKey;autoIncrement"`
	Collection string `gorm:"index:idx_doc,unique,priority:1;not null"`
	DocID      string `gorm:"index:idx_doc,unique,priority:2;not null"`
	Payload    []byte `gorm:"not null"`
}

type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("sqlitestore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]store.Record, error) {
	var docs []document
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("seq ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list %s: %w", collection, err)
	}
	recs := make([]store.Record, len(docs))
	for i, d := range docs {
		recs[i] = store.Record{ID: d.DocID, Data: d.Payload}
	}
	return recs, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	var doc document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.Record{}, store.ErrNotFound
	}
	if err != nil {
		return store.Record{}, fmt.Errorf("sqlitestore: get %s/%s: %w", collection, id, err)
	}
	return store.Record{ID: doc.DocID, Data: doc.Payload}, nil
}

func (s *Store) Upsert(ctx context.Context, collection string, rec store.Record) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc document
		err := tx.Where("collection = ? AND doc_id = ?", collection, rec.ID).First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&document{Collection: collection, DocID: rec.ID, Payload: rec.Data}).Error
		}
		if err != nil {
			return err
		}
		doc.Payload = rec.Data
		return tx.Save(&doc).Error
	})
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&document{})
	if res.Error != nil {
		return fmt.Errorf("sqlitestore: delete %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Replace(ctx context.Context, collection string, recs []store.Record) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", collection).Delete(&document{}).Error; err != nil {
			return err
		}
		for _, r := range recs {
			if err := tx.Create(&document{Collection: collection, DocID: r.ID, Payload: r.Data}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
