package board

import (
	"context"

	"projectboard/internal/store"
)

// RecordService is the board's view of the record store: list, fetch by key,
// insert, partial update by key, delete by key. The local store satisfies it
// directly; a remote client could too.
type RecordService interface {
	List(ctx context.Context) ([]store.ProjectRecord, error)
	GetByName(ctx context.Context, name string) (*store.ProjectRecord, error)
	Insert(ctx context.Context, fields map[string]any) error
	Update(ctx context.Context, name string, fields map[string]any) error
	Delete(ctx context.Context, name string) error
}

// StoreService adapts *store.Store to RecordService (and so to
// form.Submitter).
type StoreService struct {
	Store *store.Store
}

func (s StoreService) List(ctx context.Context) ([]store.ProjectRecord, error) {
	return s.Store.List(ctx)
}

func (s StoreService) GetByName(ctx context.Context, name string) (*store.ProjectRecord, error) {
	return s.Store.GetByName(ctx, name)
}

func (s StoreService) Insert(ctx context.Context, fields map[string]any) error {
	rec, err := store.FromFields(fields)
	if err != nil {
		return err
	}
	return s.Store.Create(ctx, rec)
}

func (s StoreService) Update(ctx context.Context, name string, fields map[string]any) error {
	return s.Store.UpdateByName(ctx, name, fields)
}

func (s StoreService) Delete(ctx context.Context, name string) error {
	return s.Store.DeleteByName(ctx, name)
}
