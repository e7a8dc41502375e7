package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// createUnique inserts exactly one relationship row. The insert and the
// duplicate check are a single statement: the row's composite unique
// index turns a second identical insert into a no-op, which surfaces
// here as zero affected rows. A separate existence check followed by an
// insert would race under concurrent identical requests.
func createUnique[T any](ctx context.Context, db *gorm.DB, row *T, duplicateMsg string) error {
	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateRelationship, duplicateMsg)
	}
	return nil
}

// deleteRelation removes a relationship row matched by the query.
// Removing a row that does not exist reports ErrNotFound.
func deleteRelation[T any](ctx context.Context, db *gorm.DB, query string, args ...any) error {
	var row T
	res := db.WithContext(ctx).Where(query, args...).Delete(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
