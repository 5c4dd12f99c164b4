package services

import (
	"context"
	"fmt"
	"time"

	"github.com/refdata-io/valueset-backend/internal/observability"
	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/repos"
	"github.com/refdata-io/valueset-backend/internal/types"
	"github.com/refdata-io/valueset-backend/internal/validation"
	"github.com/refdata-io/valueset-backend/internal/vserr"
)

// ValueSetService applies single logical mutations to one aggregate at a
// time. Every mutation loads current state, transforms it in memory,
// re-validates the full result and commits through one conditional store
// write, so intermediate states are never observable.
type ValueSetService interface {
	Create(ctx context.Context, req *types.CreateValueSetRequest) (*types.ValueSet, error)
	GetByKey(ctx context.Context, key string) (*types.ValueSet, error)
	UpdateMetadata(ctx context.Context, key string, req *types.UpdateValueSetRequest) (*types.ValueSet, error)
	AddItem(ctx context.Context, key string, req *types.AddItemRequest) (*types.ValueSet, error)
	UpdateItem(ctx context.Context, key, itemCode string, req *types.UpdateItemRequest) (*types.ValueSet, error)
	ReplaceItemCode(ctx context.Context, key string, req *types.ReplaceItemCodeRequest) (*types.ValueSet, error)
	Archive(ctx context.Context, key string, req *types.ArchiveRestoreRequest) (*types.ArchiveRestoreResult, error)
	Restore(ctx context.Context, key string, req *types.ArchiveRestoreRequest) (*types.ArchiveRestoreResult, error)
	Validate(ctx context.Context, req *types.ValidateValueSetRequest) (*types.ValidationResult, error)
}

type valueSetService struct {
	repo    repos.ValueSetRepo
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewValueSetService(repo repos.ValueSetRepo, log *logger.Logger, metrics *observability.Metrics) ValueSetService {
	serviceLog := log.With("service", "ValueSetService")
	return &valueSetService{repo: repo, log: serviceLog, metrics: metrics}
}

func (vs *valueSetService) Create(ctx context.Context, req *types.CreateValueSetRequest) (*types.ValueSet, error) {
	result, err := vs.create(ctx, req)
	vs.metrics.ObserveMutation("create", err)
	return result, err
}

func (vs *valueSetService) create(ctx context.Context, req *types.CreateValueSetRequest) (*types.ValueSet, error) {
	exists, err := vs.repo.KeyExists(ctx, req.Key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, vserr.New(vserr.KindDuplicateKey, "value set with key '%s' already exists", req.Key)
	}

	candidate := &types.ValueSet{
		Key:         req.Key,
		Status:      req.Status,
		Module:      req.Module,
		Description: req.Description,
		Items:       itemsFromPayloads(req.Items),
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   req.CreatedBy,
	}
	if candidate.Status == "" {
		candidate.Status = types.StatusActive
	}
	if candidate.Module == "" {
		candidate.Module = types.DefaultModule
	}
	if req.CreatedAt != nil {
		candidate.CreatedAt = req.CreatedAt.UTC()
	}

	if violations := validation.ValueSet(candidate); len(violations) > 0 {
		return nil, vserr.Invalid(violations)
	}

	created, err := vs.repo.Create(ctx, candidate)
	if err != nil {
		return nil, err
	}
	vs.log.Info("value set created", "key", created.Key, "item_count", len(created.Items), "created_by", created.CreatedBy)
	return created, nil
}

// GetByKey returns (nil, nil) when the key is absent: a missing aggregate
// is not an exceptional condition on read paths.
func (vs *valueSetService) GetByKey(ctx context.Context, key string) (*types.ValueSet, error) {
	return vs.repo.GetByKey(ctx, key)
}

func (vs *valueSetService) UpdateMetadata(ctx context.Context, key string, req *types.UpdateValueSetRequest) (*types.ValueSet, error) {
	result, err := vs.updateMetadata(ctx, key, req)
	vs.metrics.ObserveMutation("update_metadata", err)
	return result, err
}

func (vs *valueSetService) updateMetadata(ctx context.Context, key string, req *types.UpdateValueSetRequest) (*types.ValueSet, error) {
	current, err := vs.load(ctx, key)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if req.Status != nil {
		next.Status = *req.Status
	}
	if req.Module != nil {
		next.Module = *req.Module
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.Items != nil {
		next.Items = itemsFromPayloads(req.Items)
	}

	if violations := validation.ValueSet(next); len(violations) > 0 {
		return nil, vserr.Invalid(violations)
	}

	stampUpdate(next, req.UpdatedBy, req.UpdatedAt)
	updated, err := vs.repo.Replace(ctx, next)
	if err != nil {
		return nil, err
	}
	vs.log.Info("value set updated", "key", key, "updated_by", req.UpdatedBy)
	return updated, nil
}

func (vs *valueSetService) AddItem(ctx context.Context, key string, req *types.AddItemRequest) (*types.ValueSet, error) {
	result, err := vs.addItem(ctx, key, req)
	vs.metrics.ObserveMutation("add_item", err)
	return result, err
}

func (vs *valueSetService) addItem(ctx context.Context, key string, req *types.AddItemRequest) (*types.ValueSet, error) {
	current, err := vs.load(ctx, key)
	if err != nil {
		return nil, err
	}

	if current.FindItem(req.Item.Code) >= 0 {
		return nil, vserr.New(vserr.KindDuplicateItemCode, "item with code '%s' already exists", req.Item.Code)
	}
	if len(current.Items)+1 > types.MaxItemsPerValueSet {
		return nil, vserr.New(vserr.KindCapacityExceeded, "maximum number of items (%d) reached", types.MaxItemsPerValueSet)
	}

	next := current.Clone()
	next.Items = append(next.Items, req.Item.ToItem())

	if violations := validation.ValueSet(next); len(violations) > 0 {
		return nil, vserr.Invalid(violations)
	}

	stampUpdate(next, req.UpdatedBy, nil)
	updated, err := vs.repo.Replace(ctx, next)
	if err != nil {
		return nil, err
	}
	vs.log.Info("item added", "key", key, "code", req.Item.Code, "item_count", len(updated.Items))
	return updated, nil
}

func (vs *valueSetService) UpdateItem(ctx context.Context, key, itemCode string, req *types.UpdateItemRequest) (*types.ValueSet, error) {
	result, err := vs.updateItem(ctx, key, itemCode, req)
	vs.metrics.ObserveMutation("update_item", err)
	return result, err
}

func (vs *valueSetService) updateItem(ctx context.Context, key, itemCode string, req *types.UpdateItemRequest) (*types.ValueSet, error) {
	current, err := vs.load(ctx, key)
	if err != nil {
		return nil, err
	}

	idx := current.FindItem(itemCode)
	if idx < 0 {
		return nil, vserr.New(vserr.KindNotFound, "item with code '%s' not found", itemCode)
	}

	next := current.Clone()
	item := &next.Items[idx]

	if req.Updates.Code != nil && *req.Updates.Code != itemCode {
		if current.FindItem(*req.Updates.Code) >= 0 {
			return nil, vserr.New(vserr.KindDuplicateItemCode, "item with code '%s' already exists", *req.Updates.Code)
		}
		item.Code = *req.Updates.Code
	}
	if len(req.Updates.Labels) > 0 {
		if item.Labels == nil {
			item.Labels = make(types.Labels, len(req.Updates.Labels))
		}
		for lang, label := range req.Updates.Labels {
			item.Labels[lang] = label
		}
	}

	if violations := validation.ValueSet(next); len(violations) > 0 {
		return nil, vserr.Invalid(violations)
	}

	stampUpdate(next, req.UpdatedBy, nil)
	updated, err := vs.repo.Replace(ctx, next)
	if err != nil {
		return nil, err
	}
	vs.log.Info("item updated", "key", key, "code", itemCode)
	return updated, nil
}

func (vs *valueSetService) ReplaceItemCode(ctx context.Context, key string, req *types.ReplaceItemCodeRequest) (*types.ValueSet, error) {
	result, err := vs.replaceItemCode(ctx, key, req)
	vs.metrics.ObserveMutation("replace_item_code", err)
	return result, err
}

// replaceItemCode is semantically remove-then-add performed as one
// aggregate mutation: the item keeps its position, labels carry over when
// newLabels is omitted, and a single audit stamp covers the change.
func (vs *valueSetService) replaceItemCode(ctx context.Context, key string, req *types.ReplaceItemCodeRequest) (*types.ValueSet, error) {
	current, err := vs.load(ctx, key)
	if err != nil {
		return nil, err
	}

	idx := current.FindItem(req.OldCode)
	if idx < 0 {
		return nil, vserr.New(vserr.KindNotFound, "item with code '%s' not found", req.OldCode)
	}
	if req.NewCode != req.OldCode {
		if other := current.FindItem(req.NewCode); other >= 0 && other != idx {
			return nil, vserr.New(vserr.KindDuplicateItemCode, "item with code '%s' already exists", req.NewCode)
		}
	}

	next := current.Clone()
	next.Items[idx].Code = req.NewCode
	if req.NewLabels != nil {
		labels := make(types.Labels, len(req.NewLabels))
		for lang, label := range req.NewLabels {
			labels[lang] = label
		}
		next.Items[idx].Labels = labels
	}

	if violations := validation.ValueSet(next); len(violations) > 0 {
		return nil, vserr.Invalid(violations)
	}

	stampUpdate(next, req.UpdatedBy, nil)
	updated, err := vs.repo.Replace(ctx, next)
	if err != nil {
		return nil, err
	}
	vs.log.Info("item code replaced", "key", key, "old_code", req.OldCode, "new_code", req.NewCode)
	return updated, nil
}

func (vs *valueSetService) Archive(ctx context.Context, key string, req *types.ArchiveRestoreRequest) (*types.ArchiveRestoreResult, error) {
	result, err := vs.transitionStatus(ctx, key, req, types.StatusArchived)
	vs.metrics.ObserveMutation("archive", err)
	return result, err
}

func (vs *valueSetService) Restore(ctx context.Context, key string, req *types.ArchiveRestoreRequest) (*types.ArchiveRestoreResult, error) {
	result, err := vs.transitionStatus(ctx, key, req, types.StatusActive)
	vs.metrics.ObserveMutation("restore", err)
	return result, err
}

func (vs *valueSetService) transitionStatus(ctx context.Context, key string, req *types.ArchiveRestoreRequest, target types.Status) (*types.ArchiveRestoreResult, error) {
	current, err := vs.load(ctx, key)
	if err != nil {
		return nil, err
	}

	previous := current.Status
	if previous == target {
		if target == types.StatusArchived {
			return nil, vserr.New(vserr.KindAlreadyArchived, "value set '%s' is already archived", key)
		}
		return nil, vserr.New(vserr.KindNotArchived, "value set '%s' is already active", key)
	}

	next := current.Clone()
	next.Status = target
	next.StatusReason = req.Reason
	stampUpdate(next, req.UpdatedBy, nil)

	if _, err := vs.repo.Replace(ctx, next); err != nil {
		return nil, err
	}

	verb := "archived"
	if target == types.StatusActive {
		verb = "restored"
	}
	message := fmt.Sprintf("value set %s successfully", verb)
	if req.Reason != nil && *req.Reason != "" {
		message = fmt.Sprintf("%s: %s", message, *req.Reason)
	}
	vs.log.Info("value set status changed", "key", key, "from", previous, "to", target, "updated_by", req.UpdatedBy)
	return &types.ArchiveRestoreResult{
		Key:            key,
		PreviousStatus: previous,
		CurrentStatus:  target,
		Message:        message,
	}, nil
}

// Validate is a dry run: it reports what Create would reject, plus
// non-blocking warnings, without touching stored state.
func (vs *valueSetService) Validate(ctx context.Context, req *types.ValidateValueSetRequest) (*types.ValidationResult, error) {
	candidate := &types.ValueSet{
		Key:         req.Key,
		Status:      req.Status,
		Module:      req.Module,
		Description: req.Description,
		Items:       itemsFromPayloads(req.Items),
	}
	if candidate.Status == "" {
		candidate.Status = types.StatusActive
	}

	violations := validation.ValueSet(candidate)
	if candidate.Status != types.StatusActive && candidate.Status != types.StatusArchived {
		violations = append(violations, fmt.Sprintf("invalid status: %s", candidate.Status))
	}

	warnings := []string{}
	if len(req.Items) > 100 {
		warnings = append(warnings, fmt.Sprintf("large number of items (%d) may impact performance", len(req.Items)))
	}
	exists, err := vs.repo.KeyExists(ctx, req.Key)
	if err != nil {
		return nil, err
	}
	if exists {
		warnings = append(warnings, fmt.Sprintf("value set with key '%s' already exists", req.Key))
	}

	if violations == nil {
		violations = []string{}
	}
	return &types.ValidationResult{
		Key:      req.Key,
		IsValid:  len(violations) == 0,
		Errors:   violations,
		Warnings: warnings,
	}, nil
}

func (vs *valueSetService) load(ctx context.Context, key string) (*types.ValueSet, error) {
	current, err := vs.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, vserr.New(vserr.KindNotFound, "value set with key '%s' not found", key)
	}
	return current, nil
}

func itemsFromPayloads(payloads []types.ItemPayload) types.ItemList {
	items := make(types.ItemList, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, p.ToItem())
	}
	return items
}

func stampUpdate(vs *types.ValueSet, by string, at *time.Time) {
	stamp := time.Now().UTC()
	if at != nil {
		stamp = at.UTC()
	}
	vs.UpdatedAt = &stamp
	vs.UpdatedBy = &by
}
