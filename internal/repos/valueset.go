package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/types"
	"github.com/refdata-io/valueset-backend/internal/vserr"
)

// ValueSetFilter is a conjunction of optional equality predicates.
type ValueSetFilter struct {
	Status *types.Status
	Module *string
	Key    *string
}

// ValueSetRepo is the store boundary for the value set collection. The
// store owns durable state between operations; Replace is conditional on
// the version read so concurrent read-modify-write cycles surface
// KindConcurrentModification instead of losing updates.
type ValueSetRepo interface {
	// Create persists a new aggregate. A key collision at the store level
	// surfaces KindDuplicateKey; the store's unique constraint is the
	// authoritative backstop behind the service-level existence check.
	Create(ctx context.Context, vs *types.ValueSet) (*types.ValueSet, error)
	// GetByKey returns (nil, nil) when the key is absent.
	GetByKey(ctx context.Context, key string) (*types.ValueSet, error)
	KeyExists(ctx context.Context, key string) (bool, error)
	// Replace commits a mutated aggregate if and only if the stored version
	// still matches vs.Version, then bumps the version.
	Replace(ctx context.Context, vs *types.ValueSet) (*types.ValueSet, error)
	// List returns one page plus the total matching count, computed
	// independently of the page.
	List(ctx context.Context, filter ValueSetFilter, skip, limit int) ([]*types.ValueSet, int64, error)
	// All returns every matching aggregate, for search and statistics scans.
	All(ctx context.Context, filter ValueSetFilter) ([]*types.ValueSet, error)
	Count(ctx context.Context, filter ValueSetFilter) (int64, error)
}

type valueSetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewValueSetRepo(db *gorm.DB, baseLog *logger.Logger) ValueSetRepo {
	repoLog := baseLog.With("repo", "ValueSetRepo")
	return &valueSetRepo{db: db, log: repoLog}
}

func (vr *valueSetRepo) Create(ctx context.Context, vs *types.ValueSet) (*types.ValueSet, error) {
	if vs.ID == uuid.Nil {
		vs.ID = uuid.New()
	}
	if vs.Version == 0 {
		vs.Version = 1
	}
	if err := vr.db.WithContext(ctx).Create(vs).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, vserr.New(vserr.KindDuplicateKey, "value set with key '%s' already exists", vs.Key)
		}
		return nil, err
	}
	return vs, nil
}

func (vr *valueSetRepo) GetByKey(ctx context.Context, key string) (*types.ValueSet, error) {
	var result types.ValueSet
	err := vr.db.WithContext(ctx).
		Where("key = ?", key).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (vr *valueSetRepo) KeyExists(ctx context.Context, key string) (bool, error) {
	var count int64
	if err := vr.db.WithContext(ctx).
		Model(&types.ValueSet{}).
		Where("key = ?", key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (vr *valueSetRepo) Replace(ctx context.Context, vs *types.ValueSet) (*types.ValueSet, error) {
	expected := vs.Version
	res := vr.db.WithContext(ctx).
		Model(&types.ValueSet{}).
		Where("key = ? AND version = ?", vs.Key, expected).
		Updates(map[string]interface{}{
			"status":        vs.Status,
			"module":        vs.Module,
			"description":   vs.Description,
			"items":         vs.Items,
			"status_reason": vs.StatusReason,
			"updated_at":    vs.UpdatedAt,
			"updated_by":    vs.UpdatedBy,
			"version":       expected + 1,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		exists, err := vr.KeyExists(ctx, vs.Key)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, vserr.New(vserr.KindNotFound, "value set with key '%s' not found", vs.Key)
		}
		return nil, vserr.New(vserr.KindConcurrentModification, "value set '%s' was modified concurrently", vs.Key)
	}
	vs.Version = expected + 1
	return vs, nil
}

func (vr *valueSetRepo) List(ctx context.Context, filter ValueSetFilter, skip, limit int) ([]*types.ValueSet, int64, error) {
	total, err := vr.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	var results []*types.ValueSet
	if err := vr.applyFilter(vr.db.WithContext(ctx).Model(&types.ValueSet{}), filter).
		Order("key asc").
		Offset(skip).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (vr *valueSetRepo) All(ctx context.Context, filter ValueSetFilter) ([]*types.ValueSet, error) {
	var results []*types.ValueSet
	if err := vr.applyFilter(vr.db.WithContext(ctx).Model(&types.ValueSet{}), filter).
		Order("key asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *valueSetRepo) Count(ctx context.Context, filter ValueSetFilter) (int64, error) {
	var count int64
	if err := vr.applyFilter(vr.db.WithContext(ctx).Model(&types.ValueSet{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (vr *valueSetRepo) applyFilter(tx *gorm.DB, filter ValueSetFilter) *gorm.DB {
	if filter.Status != nil {
		tx = tx.Where("status = ?", *filter.Status)
	}
	if filter.Module != nil {
		tx = tx.Where("module = ?", *filter.Module)
	}
	if filter.Key != nil {
		tx = tx.Where("key = ?", *filter.Key)
	}
	return tx
}
