package repos

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/refdata-io/valueset-backend/internal/types"
	"github.com/refdata-io/valueset-backend/internal/vserr"
)

// memoryValueSetRepo implements ValueSetRepo over a process-local map. It
// honors the same version discipline and duplicate-key backstop as the
// gorm implementation, so services can be exercised without a database.
type memoryValueSetRepo struct {
	mu    sync.RWMutex
	byKey map[string]*types.ValueSet
}

func NewMemoryValueSetRepo() ValueSetRepo {
	return &memoryValueSetRepo{byKey: make(map[string]*types.ValueSet)}
}

func (mr *memoryValueSetRepo) Create(ctx context.Context, vs *types.ValueSet) (*types.ValueSet, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	if _, ok := mr.byKey[vs.Key]; ok {
		return nil, vserr.New(vserr.KindDuplicateKey, "value set with key '%s' already exists", vs.Key)
	}
	if vs.ID == uuid.Nil {
		vs.ID = uuid.New()
	}
	if vs.Version == 0 {
		vs.Version = 1
	}
	mr.byKey[vs.Key] = vs.Clone()
	return vs, nil
}

func (mr *memoryValueSetRepo) GetByKey(ctx context.Context, key string) (*types.ValueSet, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	stored, ok := mr.byKey[key]
	if !ok {
		return nil, nil
	}
	return stored.Clone(), nil
}

func (mr *memoryValueSetRepo) KeyExists(ctx context.Context, key string) (bool, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	_, ok := mr.byKey[key]
	return ok, nil
}

func (mr *memoryValueSetRepo) Replace(ctx context.Context, vs *types.ValueSet) (*types.ValueSet, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	stored, ok := mr.byKey[vs.Key]
	if !ok {
		return nil, vserr.New(vserr.KindNotFound, "value set with key '%s' not found", vs.Key)
	}
	if stored.Version != vs.Version {
		return nil, vserr.New(vserr.KindConcurrentModification, "value set '%s' was modified concurrently", vs.Key)
	}
	vs.Version++
	mr.byKey[vs.Key] = vs.Clone()
	return vs, nil
}

func (mr *memoryValueSetRepo) List(ctx context.Context, filter ValueSetFilter, skip, limit int) ([]*types.ValueSet, int64, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	matched := mr.matching(filter)
	total := int64(len(matched))

	if skip >= len(matched) {
		return []*types.ValueSet{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]*types.ValueSet, 0, end-skip)
	for _, vs := range matched[skip:end] {
		page = append(page, vs.Clone())
	}
	return page, total, nil
}

func (mr *memoryValueSetRepo) All(ctx context.Context, filter ValueSetFilter) ([]*types.ValueSet, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	matched := mr.matching(filter)
	out := make([]*types.ValueSet, 0, len(matched))
	for _, vs := range matched {
		out = append(out, vs.Clone())
	}
	return out, nil
}

func (mr *memoryValueSetRepo) Count(ctx context.Context, filter ValueSetFilter) (int64, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	return int64(len(mr.matching(filter))), nil
}

// matching returns store-owned aggregates in key order; callers must not
// hand them out without cloning.
func (mr *memoryValueSetRepo) matching(filter ValueSetFilter) []*types.ValueSet {
	keys := make([]string, 0, len(mr.byKey))
	for key := range mr.byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var matched []*types.ValueSet
	for _, key := range keys {
		vs := mr.byKey[key]
		if filter.Status != nil && vs.Status != *filter.Status {
			continue
		}
		if filter.Module != nil && vs.Module != *filter.Module {
			continue
		}
		if filter.Key != nil && vs.Key != *filter.Key {
			continue
		}
		matched = append(matched, vs)
	}
	return matched
}
