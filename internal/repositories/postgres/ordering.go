package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

// "order" is a reserved word and must stay quoted in raw SQL fragments.
const (
	orderColumn = `"order"`
	orderAsc    = `"order" ASC`
)

// orderedScope implements repositories.OrderedRepository for any model with an
// order column and a parent foreign key.
type orderedScope[T any] struct {
	store       *Store[T]
	scopeColumn string
}

func newOrderedScope[T any](store *Store[T], scopeColumn string) orderedScope[T] {
	return orderedScope[T]{store: store, scopeColumn: scopeColumn}
}

func (o orderedScope[T]) inScope(scopeID uint) Scope {
	return whereEq(o.scopeColumn, scopeID)
}

// MaxOrder returns the highest order in the scope, 0 when empty.
func (o orderedScope[T]) MaxOrder(ctx context.Context, tx *gorm.DB, scopeID uint) (int, error) {
	var maxOrder int
	err := o.store.getDB(tx).WithContext(ctx).
		Model(new(T)).
		Where(o.scopeColumn+" = ?", scopeID).
		Select("COALESCE(MAX(" + orderColumn + "), 0)").
		Scan(&maxOrder).Error

	if err != nil {
		return 0, fmt.Errorf("failed to get max order: %w", err)
	}

	return maxOrder, nil
}

func (o orderedScope[T]) NextOrder(ctx context.Context, tx *gorm.DB, scopeID uint) (int, error) {
	maxOrder, err := o.MaxOrder(ctx, tx, scopeID)
	if err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func (o orderedScope[T]) UpdateOrder(ctx context.Context, tx *gorm.DB, id uint, order int) error {
	result := o.store.getDB(tx).WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Update("order", order)

	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (o orderedScope[T]) ReorderAfterDeletion(ctx context.Context, tx *gorm.DB, scopeID uint, deletedOrder int) error {
	err := o.store.getDB(tx).WithContext(ctx).
		Model(new(T)).
		Where(o.scopeColumn+" = ? AND "+orderColumn+" > ?", scopeID, deletedOrder).
		UpdateColumn("order", gorm.Expr(orderColumn+" - 1")).Error

	if err != nil {
		return fmt.Errorf("failed to reorder after deletion: %w", err)
	}
	return nil
}

func (o orderedScope[T]) Resequence(ctx context.Context, tx *gorm.DB, scopeID uint, orderedIDs []uint) error {
	db := o.store.getDB(tx).WithContext(ctx)

	var existing []uint
	if err := db.Model(new(T)).Where(o.scopeColumn+" = ?", scopeID).Pluck("id", &existing).Error; err != nil {
		return fmt.Errorf("failed to load scope ids: %w", err)
	}

	if !isPermutation(existing, orderedIDs) {
		return repositories.ErrInvalidReorder
	}

	for i, id := range orderedIDs {
		if err := o.UpdateOrder(ctx, tx, id, i+1); err != nil {
			return err
		}
	}
	return nil
}

func isPermutation(existing, proposed []uint) bool {
	if len(existing) != len(proposed) {
		return false
	}
	seen := make(map[uint]bool, len(existing))
	for _, id := range existing {
		seen[id] = false
	}
	for _, id := range proposed {
		used, ok := seen[id]
		if !ok || used {
			return false
		}
		seen[id] = true
	}
	return true
}
