package repository

import (
	"github.com/riadice/riadice-backend/pkg/logger"
	"gorm.io/gorm"
)

// ListQuery is a table-scoped select: equality filters plus an ORDER BY clause.
type ListQuery struct {
	Where map[string]interface{}
	Order string
	Limit int
}

// ResourceRepository is the row-CRUD gateway shared by menu items, specials, gallery images and reservations.
type ResourceRepository[T any] interface {
	List(q ListQuery) ([]T, error)
	FindByID(id string) (*T, error)
	Create(item *T) error
	// BulkCreate inserts items in one transaction, batchSize rows per statement.
	BulkCreate(items []T, batchSize int) error
	// Update writes only columns (plus updated_at) from item, matched by its primary key.
	Update(item *T, columns []string) error
	UpdateColumn(id, column string, value interface{}) error
	Delete(id string) error
	Count(where map[string]interface{}) (int64, error)
}

type resourceRepository[T any] struct {
	db       *gorm.DB
	resource string
}

func NewResourceRepository[T any](db *gorm.DB, resource string) ResourceRepository[T] {
	return &resourceRepository[T]{db: db, resource: resource}
}

func (r *resourceRepository[T]) List(q ListQuery) ([]T, error) {
	logger.Debug("Listing resources from database", map[string]interface{}{
		"resource": r.resource,
		"where":    q.Where,
		"order":    q.Order,
		"limit":    q.Limit,
	})

	query := r.db.Model(new(T))
	if len(q.Where) > 0 {
		query = query.Where(q.Where)
	}
	if q.Order != "" {
		query = query.Order(q.Order)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	items := []T{}
	if err := query.Find(&items).Error; err != nil {
		logger.Error("Failed to list resources from database", err, map[string]interface{}{
			"resource": r.resource,
		})
		return nil, err
	}

	logger.Debug("Resources listed from database", map[string]interface{}{
		"resource": r.resource,
		"count":    len(items),
	})
	return items, nil
}

func (r *resourceRepository[T]) FindByID(id string) (*T, error) {
	logger.Debug("Finding resource by ID in database", map[string]interface{}{
		"resource": r.resource,
		"id":       id,
	})

	item := new(T)
	if err := r.db.Where("id = ?", id).First(item).Error; err != nil {
		logFindError("Failed to find resource by ID in database", err, map[string]interface{}{
			"resource": r.resource,
			"id":       id,
		})
		return nil, err
	}
	return item, nil
}

func (r *resourceRepository[T]) Create(item *T) error {
	logger.Debug("Creating resource in database", map[string]interface{}{
		"resource": r.resource,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create resource in database", err, map[string]interface{}{
			"resource": r.resource,
		})
		return err
	}
	return nil
}

func (r *resourceRepository[T]) BulkCreate(items []T, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	logger.Debug("Bulk creating resources in database", map[string]interface{}{
		"resource":   r.resource,
		"count":      len(items),
		"batch_size": batchSize,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(items, batchSize).Error
	})
	if err != nil {
		logger.Error("Failed to bulk create resources in database", err, map[string]interface{}{
			"resource": r.resource,
			"count":    len(items),
		})
		return err
	}
	return nil
}

func (r *resourceRepository[T]) Update(item *T, columns []string) error {
	logger.Debug("Updating resource in database", map[string]interface{}{
		"resource": r.resource,
		"columns":  columns,
	})

	selected := append(append([]string{}, columns...), "updated_at")
	result := r.db.Model(item).Select(selected).Updates(item)
	if result.Error != nil {
		logger.Error("Failed to update resource in database", result.Error, map[string]interface{}{
			"resource": r.resource,
			"columns":  columns,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *resourceRepository[T]) UpdateColumn(id, column string, value interface{}) error {
	logger.Debug("Updating resource column in database", map[string]interface{}{
		"resource": r.resource,
		"id":       id,
		"column":   column,
		"value":    value,
	})

	result := r.db.Model(new(T)).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		logger.Error("Failed to update resource column in database", result.Error, map[string]interface{}{
			"resource": r.resource,
			"id":       id,
			"column":   column,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *resourceRepository[T]) Delete(id string) error {
	logger.Debug("Deleting resource from database", map[string]interface{}{
		"resource": r.resource,
		"id":       id,
	})

	result := r.db.Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		logger.Error("Failed to delete resource from database", result.Error, map[string]interface{}{
			"resource": r.resource,
			"id":       id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Resource deleted from database", map[string]interface{}{
		"resource": r.resource,
		"id":       id,
	})
	return nil
}

func (r *resourceRepository[T]) Count(where map[string]interface{}) (int64, error) {
	var count int64
	query := r.db.Model(new(T))
	if len(where) > 0 {
		query = query.Where(where)
	}
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to count resources", err, map[string]interface{}{
			"resource": r.resource,
		})
		return 0, err
	}
	return count, nil
}
