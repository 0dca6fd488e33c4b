package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/pkg/logger"
	"gorm.io/gorm"
)

// Descriptor configures one row-CRUD resource. JSON keys are column names.
type Descriptor[T any] struct {
	Resource     string
	DefaultOrder string
	// Orders maps a named list view to an ORDER BY clause.
	Orders       map[string]string
	Editable     []string
	// Required keys must be present on create and are never accepted as null.
	Required     []string
	Toggles      []string
	PublicFilter map[string]interface{}

	New          func() *T
	Validate     func(*T) error
	BeforeCreate func(item *T, actor access.Session)
	// Present decorates rows on the way out (computed fields).
	Present func(*T)
}

func (d *Descriptor[T]) isEditable(key string) bool {
	return contains(d.Editable, key)
}

func (d *Descriptor[T]) isToggle(key string) bool {
	return contains(d.Toggles, key)
}

func (d *Descriptor[T]) order(view string) string {
	if o, ok := d.Orders[view]; ok && view != "" {
		return o
	}
	return d.DefaultOrder
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type ListOptions struct {
	View string
}

// ResourceService is the shared manager behind menu items, specials, gallery images and reservations.
type ResourceService[T any] interface {
	Resource() string
	List(opts ListOptions) ([]T, error)
	ListPublic() ([]T, error)
	Get(id string) (*T, error)
	Create(actor access.Session, draft map[string]json.RawMessage) (*T, error)
	// Update applies a partial patch. Nothing is written unless the merged row validates.
	Update(actor access.Session, id string, patch map[string]json.RawMessage) (*T, error)
	Toggle(actor access.Session, id, field string, value bool) (*T, error)
	Delete(actor access.Session, id string) error
}

type resourceService[T any] struct {
	repo repository.ResourceRepository[T]
	desc *Descriptor[T]
}

func NewResourceService[T any](repo repository.ResourceRepository[T], desc *Descriptor[T]) ResourceService[T] {
	return &resourceService[T]{repo: repo, desc: desc}
}

func (s *resourceService[T]) Resource() string {
	return s.desc.Resource
}

func (s *resourceService[T]) present(items []T) []T {
	if s.desc.Present != nil {
		for i := range items {
			s.desc.Present(&items[i])
		}
	}
	return items
}

func (s *resourceService[T]) presentOne(item *T) *T {
	if s.desc.Present != nil {
		s.desc.Present(item)
	}
	return item
}

func (s *resourceService[T]) List(opts ListOptions) ([]T, error) {
	items, err := s.repo.List(repository.ListQuery{Order: s.desc.order(opts.View)})
	if err != nil {
		logger.Error("Failed to list resources", err, map[string]interface{}{
			"resource": s.desc.Resource,
			"view":     opts.View,
		})
		return nil, fmt.Errorf("list %s: %w", s.desc.Resource, err)
	}
	return s.present(items), nil
}

func (s *resourceService[T]) ListPublic() ([]T, error) {
	if s.desc.PublicFilter == nil {
		return nil, ErrNotPublic
	}
	items, err := s.repo.List(repository.ListQuery{
		Where: s.desc.PublicFilter,
		Order: s.desc.DefaultOrder,
	})
	if err != nil {
		logger.Error("Failed to list public resources", err, map[string]interface{}{
			"resource": s.desc.Resource,
		})
		return nil, fmt.Errorf("list public %s: %w", s.desc.Resource, err)
	}
	return s.present(items), nil
}

func (s *resourceService[T]) Get(id string) (*T, error) {
	item, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("get %s: %w", s.desc.Resource, err)
	}
	return s.presentOne(item), nil
}

// apply decodes each key separately so a type error is reported against its own field.
// With creating set, required keys missing from payload are reported too.
func (s *resourceService[T]) apply(item *T, payload map[string]json.RawMessage, creating bool) error {
	fields := fieldErrors{}
	if creating {
		for _, key := range s.desc.Required {
			if _, ok := payload[key]; !ok {
				fields.add(key, "is required")
			}
		}
	}
	for _, key := range sortedKeys(payload) {
		if !s.desc.isEditable(key) {
			fields.add(key, "is not an editable field")
			continue
		}
		if contains(s.desc.Required, key) && isJSONNull(payload[key]) {
			fields.add(key, "is required")
			continue
		}
		single, err := json.Marshal(map[string]json.RawMessage{key: payload[key]})
		if err != nil {
			fields.add(key, "has an invalid value")
			continue
		}
		if err := json.Unmarshal(single, item); err != nil {
			fields.add(key, "has an invalid value")
		}
	}
	return fields.err()
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *resourceService[T]) validate(item *T) error {
	if s.desc.Validate == nil {
		return nil
	}
	return s.desc.Validate(item)
}

func (s *resourceService[T]) Create(actor access.Session, draft map[string]json.RawMessage) (*T, error) {
	logger.Info("Creating resource", map[string]interface{}{
		"resource": s.desc.Resource,
		"actor_id": actor.UserID,
	})

	item := s.desc.New()
	if err := s.apply(item, draft, true); err != nil {
		return nil, err
	}
	if err := s.validate(item); err != nil {
		logger.Warn("Resource draft rejected", map[string]interface{}{
			"resource": s.desc.Resource,
			"error":    err.Error(),
		})
		return nil, err
	}
	if s.desc.BeforeCreate != nil {
		s.desc.BeforeCreate(item, actor)
	}

	if err := s.repo.Create(item); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.desc.Resource, err)
	}

	logger.Info("Resource created", map[string]interface{}{
		"resource": s.desc.Resource,
		"actor_id": actor.UserID,
	})
	return s.presentOne(item), nil
}

func (s *resourceService[T]) Update(actor access.Session, id string, patch map[string]json.RawMessage) (*T, error) {
	logger.Info("Updating resource", map[string]interface{}{
		"resource": s.desc.Resource,
		"id":       id,
		"actor_id": actor.UserID,
	})

	if len(patch) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"body": "no fields to update"}}
	}

	current, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("load %s: %w", s.desc.Resource, err)
	}

	merged := *current
	if err := s.apply(&merged, patch, false); err != nil {
		return nil, err
	}
	if err := s.validate(&merged); err != nil {
		logger.Warn("Resource patch rejected", map[string]interface{}{
			"resource": s.desc.Resource,
			"id":       id,
			"error":    err.Error(),
		})
		return nil, err
	}

	if err := s.repo.Update(&merged, sortedKeys(patch)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("update %s: %w", s.desc.Resource, err)
	}

	logger.Info("Resource updated", map[string]interface{}{
		"resource": s.desc.Resource,
		"id":       id,
		"columns":  sortedKeys(patch),
	})
	return s.Get(id)
}

func (s *resourceService[T]) Toggle(actor access.Session, id, field string, value bool) (*T, error) {
	if !s.desc.isToggle(field) {
		return nil, &ValidationError{Fields: map[string]string{"field": fmt.Sprintf("%q cannot be toggled", field)}}
	}

	if err := s.repo.UpdateColumn(id, field, value); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("toggle %s.%s: %w", s.desc.Resource, field, err)
	}

	logger.Info("Resource toggled", map[string]interface{}{
		"resource": s.desc.Resource,
		"id":       id,
		"field":    field,
		"value":    value,
		"actor_id": actor.UserID,
	})
	return s.Get(id)
}

func (s *resourceService[T]) Delete(actor access.Session, id string) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("delete %s: %w", s.desc.Resource, err)
	}

	logger.Info("Resource deleted", map[string]interface{}{
		"resource": s.desc.Resource,
		"id":       id,
		"actor_id": actor.UserID,
	})
	return nil
}
