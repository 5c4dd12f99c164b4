package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/refdata-io/valueset-backend/internal/observability"
	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/types"
	"github.com/refdata-io/valueset-backend/internal/vserr"
)

// BulkService drives batches of independent single-target mutations
// through the mutation engine with best-effort semantics: after the
// cross-target pre-flight passes, every target is attempted in input order
// and failures never abort the rest of the batch.
type BulkService interface {
	BulkCreate(ctx context.Context, req *types.BulkCreateRequest) (*types.BulkOperationResult, error)
	BulkAddItems(ctx context.Context, key string, req *types.BulkAddItemsRequest) (*types.BulkOperationResult, error)
	BulkUpdateItems(ctx context.Context, req *types.BulkUpdateItemsRequest) (*types.BulkOperationResult, error)
	BulkUpdateMetadata(ctx context.Context, req *types.BulkUpdateValueSetsRequest) (*types.BulkOperationResult, error)
}

type bulkService struct {
	valueSets ValueSetService
	log       *logger.Logger
	metrics   *observability.Metrics
}

func NewBulkService(valueSets ValueSetService, log *logger.Logger, metrics *observability.Metrics) BulkService {
	serviceLog := log.With("service", "BulkService")
	return &bulkService{valueSets: valueSets, log: serviceLog, metrics: metrics}
}

func (bs *bulkService) BulkCreate(ctx context.Context, req *types.BulkCreateRequest) (*types.BulkOperationResult, error) {
	if err := checkBatchSize(len(req.ValueSets)); err != nil {
		return nil, err
	}
	// Duplicate keys inside one batch are a caller mistake, not a store
	// condition: reject before touching the store.
	if dups := duplicateStrings(keysOf(req.ValueSets)); len(dups) > 0 {
		return nil, batchDuplicates("duplicate keys in batch", dups)
	}

	result := newBulkResult()
	for _, target := range req.ValueSets {
		if _, err := bs.valueSets.Create(ctx, &target); err != nil {
			result.fail(target.Key, err)
			continue
		}
		result.succeed(target.Key)
	}
	bs.observe("bulk_create", result)
	return result.done(), nil
}

func (bs *bulkService) BulkAddItems(ctx context.Context, key string, req *types.BulkAddItemsRequest) (*types.BulkOperationResult, error) {
	if err := checkBatchSize(len(req.Items)); err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		codes = append(codes, item.Code)
	}
	if dups := duplicateStrings(codes); len(dups) > 0 {
		return nil, batchDuplicates("duplicate item codes in batch", dups)
	}

	result := newBulkResult()
	for _, item := range req.Items {
		addReq := &types.AddItemRequest{Item: item, UpdatedBy: req.UpdatedBy}
		// targets are identified as key/code on both the success and the
		// failure side of the report
		target := fmt.Sprintf("%s/%s", key, item.Code)
		if _, err := bs.valueSets.AddItem(ctx, key, addReq); err != nil {
			result.fail(target, err)
			continue
		}
		result.succeed(target)
	}
	bs.observe("bulk_add_items", result)
	return result.done(), nil
}

func (bs *bulkService) BulkUpdateItems(ctx context.Context, req *types.BulkUpdateItemsRequest) (*types.BulkOperationResult, error) {
	if err := checkBatchSize(len(req.ItemUpdates)); err != nil {
		return nil, err
	}
	pairs := make([]string, 0, len(req.ItemUpdates))
	for _, update := range req.ItemUpdates {
		pairs = append(pairs, update.ValueSetKey+"/"+update.ItemCode)
	}
	if dups := duplicateStrings(pairs); len(dups) > 0 {
		return nil, batchDuplicates("duplicate (key, itemCode) pairs in batch", dups)
	}

	result := newBulkResult()
	for _, update := range req.ItemUpdates {
		updateReq := &types.UpdateItemRequest{Updates: update.Updates, UpdatedBy: update.UpdatedBy}
		target := update.ValueSetKey + "/" + update.ItemCode
		if _, err := bs.valueSets.UpdateItem(ctx, update.ValueSetKey, update.ItemCode, updateReq); err != nil {
			result.fail(target, err)
			continue
		}
		result.succeed(target)
	}
	bs.observe("bulk_update_items", result)
	return result.done(), nil
}

func (bs *bulkService) BulkUpdateMetadata(ctx context.Context, req *types.BulkUpdateValueSetsRequest) (*types.BulkOperationResult, error) {
	if err := checkBatchSize(len(req.Updates)); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(req.Updates))
	for _, update := range req.Updates {
		keys = append(keys, update.Key)
	}
	if dups := duplicateStrings(keys); len(dups) > 0 {
		return nil, batchDuplicates("duplicate keys in batch", dups)
	}

	result := newBulkResult()
	for _, update := range req.Updates {
		patch := &types.UpdateValueSetRequest{
			Status:      update.Status,
			Module:      update.Module,
			Description: update.Description,
			UpdatedBy:   req.UpdatedBy,
		}
		if _, err := bs.valueSets.UpdateMetadata(ctx, update.Key, patch); err != nil {
			result.fail(update.Key, err)
			continue
		}
		result.succeed(update.Key)
	}
	bs.observe("bulk_update_metadata", result)
	return result.done(), nil
}

func (bs *bulkService) observe(operation string, result *bulkResult) {
	bs.metrics.ObserveBulk(operation, result.successful, len(result.errors))
	if len(result.errors) > 0 {
		bs.log.Warn("bulk operation completed with failures",
			"operation", operation,
			"successful", result.successful,
			"failed", len(result.errors))
		return
	}
	bs.log.Info("bulk operation completed", "operation", operation, "successful", result.successful)
}

type bulkResult struct {
	successful    int
	errors        []types.BulkError
	processedKeys []string
}

func newBulkResult() *bulkResult {
	return &bulkResult{errors: []types.BulkError{}, processedKeys: []string{}}
}

func (br *bulkResult) succeed(key string) {
	br.successful++
	br.processedKeys = append(br.processedKeys, key)
}

func (br *bulkResult) fail(target string, err error) {
	br.errors = append(br.errors, types.BulkError{Target: target, Error: err.Error()})
}

func (br *bulkResult) done() *types.BulkOperationResult {
	return &types.BulkOperationResult{
		Successful:    br.successful,
		Failed:        len(br.errors),
		Errors:        br.errors,
		ProcessedKeys: br.processedKeys,
	}
}

func checkBatchSize(n int) error {
	if n < 1 || n > types.MaxBatchSize {
		return vserr.New(vserr.KindInvalidQuery, "batch size must be between 1 and %d (got %d)", types.MaxBatchSize, n)
	}
	return nil
}

func batchDuplicates(message string, dups []string) error {
	return &vserr.Error{
		Kind:       vserr.KindInvalidAggregate,
		Message:    message,
		Violations: []string{strings.Join(dups, ", ")},
	}
}

func keysOf(targets []types.CreateValueSetRequest) []string {
	keys := make([]string, 0, len(targets))
	for _, t := range targets {
		keys = append(keys, t.Key)
	}
	return keys
}

func duplicateStrings(values []string) []string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	var dups []string
	seen := make(map[string]bool)
	for _, v := range values {
		if counts[v] > 1 && !seen[v] {
			seen[v] = true
			dups = append(dups, v)
		}
	}
	return dups
}
