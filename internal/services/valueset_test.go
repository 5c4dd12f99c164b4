package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/repos"
	"github.com/refdata-io/valueset-backend/internal/types"
	"github.com/refdata-io/valueset-backend/internal/vserr"
)

func newTestValueSetService() ValueSetService {
	return NewValueSetService(repos.NewMemoryValueSetRepo(), logger.NewNop(), nil)
}

func payload(code, enLabel string) types.ItemPayload {
	return types.ItemPayload{Code: code, Labels: types.Labels{"en": enLabel}}
}

func createRequest(key string, codes ...string) *types.CreateValueSetRequest {
	items := make([]types.ItemPayload, 0, len(codes))
	for _, code := range codes {
		items = append(items, payload(code, "Label for "+code))
	}
	return &types.CreateValueSetRequest{Key: key, Items: items, CreatedBy: "tester"}
}

func mustCreate(t *testing.T, svc ValueSetService, key string, codes ...string) *types.ValueSet {
	t.Helper()
	created, err := svc.Create(context.Background(), createRequest(key, codes...))
	if err != nil {
		t.Fatalf("create %s: %v", key, err)
	}
	return created
}

func TestCreateDefaults(t *testing.T) {
	svc := newTestValueSetService()
	created := mustCreate(t, svc, "priority", "HIGH", "LOW")

	if created.Status != types.StatusActive {
		t.Fatalf("expected default status active, got %s", created.Status)
	}
	if created.Module != types.DefaultModule {
		t.Fatalf("expected default module %s, got %s", types.DefaultModule, created.Module)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be stamped")
	}
	if created.UpdatedAt != nil || created.UpdatedBy != nil {
		t.Fatalf("fresh aggregate must not carry update audit fields")
	}
}

func TestCreateDuplicateKey(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH")

	_, err := svc.Create(context.Background(), createRequest("priority", "LOW"))
	if !vserr.IsKind(err, vserr.KindDuplicateKey) {
		t.Fatalf("expected duplicate_key, got %v", err)
	}
}

func TestCreateRejectsDuplicateItemCodes(t *testing.T) {
	svc := newTestValueSetService()
	_, err := svc.Create(context.Background(), createRequest("priority", "HIGH", "HIGH"))
	if !vserr.IsKind(err, vserr.KindInvalidAggregate) {
		t.Fatalf("expected invalid_aggregate, got %v", err)
	}
	// the failed create must not leave anything behind
	stored, err := svc.GetByKey(context.Background(), "priority")
	if err != nil || stored != nil {
		t.Fatalf("rejected aggregate must not persist, got %v, %v", stored, err)
	}
}

func TestGetByKeyAbsent(t *testing.T) {
	svc := newTestValueSetService()
	vs, err := svc.GetByKey(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absent key must not error: %v", err)
	}
	if vs != nil {
		t.Fatalf("expected nil for absent key, got %v", vs)
	}
}

func TestUpdateMetadataPartialPatch(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH")

	desc := "Priority levels"
	updated, err := svc.UpdateMetadata(context.Background(), "priority", &types.UpdateValueSetRequest{
		Description: &desc,
		UpdatedBy:   "editor",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != desc {
		t.Fatalf("description not applied: %q", updated.Description)
	}
	if updated.Module != types.DefaultModule || updated.Status != types.StatusActive {
		t.Fatalf("untouched fields must survive the patch")
	}
	if updated.UpdatedBy == nil || *updated.UpdatedBy != "editor" {
		t.Fatalf("updatedBy not stamped: %v", updated.UpdatedBy)
	}
	if updated.UpdatedAt == nil {
		t.Fatalf("updatedAt not stamped")
	}
}

func TestUpdateMetadataEmptyPatch(t *testing.T) {
	svc := newTestValueSetService()
	created := mustCreate(t, svc, "priority", "HIGH")

	updated, err := svc.UpdateMetadata(context.Background(), "priority", &types.UpdateValueSetRequest{UpdatedBy: "editor"})
	if err != nil {
		t.Fatalf("empty patch must succeed: %v", err)
	}
	if updated.Status != created.Status || updated.Module != created.Module || len(updated.Items) != len(created.Items) {
		t.Fatalf("empty patch must not change content")
	}
}

func TestUpdateMetadataNotFound(t *testing.T) {
	svc := newTestValueSetService()
	_, err := svc.UpdateMetadata(context.Background(), "missing", &types.UpdateValueSetRequest{UpdatedBy: "editor"})
	if !vserr.IsKind(err, vserr.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestAddItem(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH")

	updated, err := svc.AddItem(context.Background(), "priority", &types.AddItemRequest{
		Item:      payload("LOW", "Low"),
		UpdatedBy: "editor",
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(updated.Items) != 2 || updated.Items[1].Code != "LOW" {
		t.Fatalf("item not appended: %v", updated.ItemCodes())
	}
}

func TestAddItemDuplicateCode(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH")

	_, err := svc.AddItem(context.Background(), "priority", &types.AddItemRequest{
		Item:      payload("HIGH", "High again"),
		UpdatedBy: "editor",
	})
	if !vserr.IsKind(err, vserr.KindDuplicateItemCode) {
		t.Fatalf("expected duplicate_item_code, got %v", err)
	}

	stored, _ := svc.GetByKey(context.Background(), "priority")
	if len(stored.Items) != 1 {
		t.Fatalf("failed add must leave item count unchanged, got %d", len(stored.Items))
	}
}

func TestAddItemCapacity(t *testing.T) {
	svc := newTestValueSetService()
	codes := make([]string, types.MaxItemsPerValueSet)
	for i := range codes {
		codes[i] = fmt.Sprintf("C%03d", i)
	}
	mustCreate(t, svc, "full", codes...)

	_, err := svc.AddItem(context.Background(), "full", &types.AddItemRequest{
		Item:      payload("ONE_MORE", "One more"),
		UpdatedBy: "editor",
	})
	if !vserr.IsKind(err, vserr.KindCapacityExceeded) {
		t.Fatalf("expected capacity_exceeded, got %v", err)
	}
}

func TestUpdateItemLabelMerge(t *testing.T) {
	svc := newTestValueSetService()
	_, err := svc.Create(context.Background(), &types.CreateValueSetRequest{
		Key: "priority",
		Items: []types.ItemPayload{{
			Code:   "HIGH",
			Labels: types.Labels{"en": "High", "de": "Hoch"},
		}},
		CreatedBy: "tester",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateItem(context.Background(), "priority", "HIGH", &types.UpdateItemRequest{
		Updates:   types.ItemPatch{Labels: types.Labels{"en": "Very high", "fr": "Haut"}},
		UpdatedBy: "editor",
	})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	labels := updated.Items[0].Labels
	if labels["en"] != "Very high" || labels["de"] != "Hoch" || labels["fr"] != "Haut" {
		t.Fatalf("labels must merge per language, got %v", labels)
	}
}

func TestUpdateItemCodeConflict(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH", "LOW")

	newCode := "LOW"
	_, err := svc.UpdateItem(context.Background(), "priority", "HIGH", &types.UpdateItemRequest{
		Updates:   types.ItemPatch{Code: &newCode},
		UpdatedBy: "editor",
	})
	if !vserr.IsKind(err, vserr.KindDuplicateItemCode) {
		t.Fatalf("expected duplicate_item_code, got %v", err)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH")

	_, err := svc.UpdateItem(context.Background(), "priority", "MISSING", &types.UpdateItemRequest{
		Updates:   types.ItemPatch{Labels: types.Labels{"en": "x"}},
		UpdatedBy: "editor",
	})
	if !vserr.IsKind(err, vserr.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestReplaceItemCodeKeepsPositionAndLabels(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH", "MEDIUM", "LOW")

	updated, err := svc.ReplaceItemCode(context.Background(), "priority", &types.ReplaceItemCodeRequest{
		OldCode:   "MEDIUM",
		NewCode:   "P2",
		UpdatedBy: "editor",
	})
	if err != nil {
		t.Fatalf("replace code: %v", err)
	}
	codes := updated.ItemCodes()
	if codes[0] != "HIGH" || codes[1] != "P2" || codes[2] != "LOW" {
		t.Fatalf("item must keep its position, got %v", codes)
	}
	if updated.Items[1].Labels["en"] != "Label for MEDIUM" {
		t.Fatalf("labels must carry over when newLabels omitted, got %v", updated.Items[1].Labels)
	}
}

func TestReplaceItemCodeWithNewLabels(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH")

	updated, err := svc.ReplaceItemCode(context.Background(), "priority", &types.ReplaceItemCodeRequest{
		OldCode:   "HIGH",
		NewCode:   "P1",
		NewLabels: types.Labels{"en": "Priority one"},
		UpdatedBy: "editor",
	})
	if err != nil {
		t.Fatalf("replace code: %v", err)
	}
	if updated.Items[0].Labels["en"] != "Priority one" {
		t.Fatalf("newLabels must replace labels, got %v", updated.Items[0].Labels)
	}
}

func TestReplaceItemCodeConflict(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH", "LOW")

	_, err := svc.ReplaceItemCode(context.Background(), "priority", &types.ReplaceItemCodeRequest{
		OldCode:   "HIGH",
		NewCode:   "LOW",
		UpdatedBy: "editor",
	})
	if !vserr.IsKind(err, vserr.KindDuplicateItemCode) {
		t.Fatalf("expected duplicate_item_code, got %v", err)
	}
}

func TestArchiveRestoreRoundTrip(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH")

	reason := "superseded by severity"
	archived, err := svc.Archive(context.Background(), "priority", &types.ArchiveRestoreRequest{
		UpdatedBy: "editor",
		Reason:    &reason,
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.PreviousStatus != types.StatusActive || archived.CurrentStatus != types.StatusArchived {
		t.Fatalf("unexpected transition: %+v", archived)
	}
	if archived.Message != "value set archived successfully: superseded by severity" {
		t.Fatalf("unexpected message: %q", archived.Message)
	}

	stored, _ := svc.GetByKey(context.Background(), "priority")
	if stored.Status != types.StatusArchived {
		t.Fatalf("status not persisted: %s", stored.Status)
	}
	if stored.StatusReason == nil || *stored.StatusReason != reason {
		t.Fatalf("status reason not persisted: %v", stored.StatusReason)
	}

	restored, err := svc.Restore(context.Background(), "priority", &types.ArchiveRestoreRequest{UpdatedBy: "editor"})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.CurrentStatus != types.StatusActive {
		t.Fatalf("unexpected restore transition: %+v", restored)
	}
}

func TestArchiveAlreadyArchived(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH")

	if _, err := svc.Archive(context.Background(), "priority", &types.ArchiveRestoreRequest{UpdatedBy: "editor"}); err != nil {
		t.Fatalf("first archive: %v", err)
	}
	_, err := svc.Archive(context.Background(), "priority", &types.ArchiveRestoreRequest{UpdatedBy: "editor"})
	if !vserr.IsKind(err, vserr.KindAlreadyArchived) {
		t.Fatalf("expected already_archived, got %v", err)
	}
}

func TestRestoreActive(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH")

	_, err := svc.Restore(context.Background(), "priority", &types.ArchiveRestoreRequest{UpdatedBy: "editor"})
	if !vserr.IsKind(err, vserr.KindNotArchived) {
		t.Fatalf("expected not_archived, got %v", err)
	}
}

func TestValidateDryRun(t *testing.T) {
	svc := newTestValueSetService()
	mustCreate(t, svc, "priority", "HIGH")

	result, err := svc.Validate(context.Background(), &types.ValidateValueSetRequest{
		Key:   "priority",
		Items: []types.ItemPayload{payload("HIGH", "High"), payload("HIGH", "High again")},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.IsValid {
		t.Fatalf("duplicate codes must invalidate: %+v", result)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("existing key must warn, got %v", result.Warnings)
	}
}

func TestValidateDoesNotPersist(t *testing.T) {
	svc := newTestValueSetService()
	result, err := svc.Validate(context.Background(), &types.ValidateValueSetRequest{
		Key:   "new-set",
		Items: []types.ItemPayload{payload("HIGH", "High")},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected valid, got %v", result.Errors)
	}
	stored, _ := svc.GetByKey(context.Background(), "new-set")
	if stored != nil {
		t.Fatalf("validate must not persist")
	}
}
