package repos

import (
	"context"
	"testing"

	"github.com/refdata-io/valueset-backend/internal/types"
	"github.com/refdata-io/valueset-backend/internal/vserr"
)

func seed(t *testing.T, repo ValueSetRepo, key string) *types.ValueSet {
	t.Helper()
	created, err := repo.Create(context.Background(), &types.ValueSet{
		Key:       key,
		Status:    types.StatusActive,
		Module:    types.DefaultModule,
		Items:     types.ItemList{{Code: "A", Labels: types.Labels{"en": "A"}}},
		CreatedBy: "tester",
	})
	if err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
	return created
}

func TestMemoryCreateDuplicate(t *testing.T) {
	repo := NewMemoryValueSetRepo()
	seed(t, repo, "priority")

	_, err := repo.Create(context.Background(), &types.ValueSet{Key: "priority"})
	if !vserr.IsKind(err, vserr.KindDuplicateKey) {
		t.Fatalf("expected duplicate_key, got %v", err)
	}
}

func TestMemoryGetByKeyAbsent(t *testing.T) {
	repo := NewMemoryValueSetRepo()
	vs, err := repo.GetByKey(context.Background(), "missing")
	if err != nil || vs != nil {
		t.Fatalf("absent key must yield (nil, nil), got %v, %v", vs, err)
	}
}

func TestMemoryReplaceVersionConflict(t *testing.T) {
	repo := NewMemoryValueSetRepo()
	seed(t, repo, "priority")

	first, err := repo.GetByKey(context.Background(), "priority")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	stale := first.Clone()

	first.Description = "first writer"
	if _, err := repo.Replace(context.Background(), first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	stale.Description = "second writer"
	_, err = repo.Replace(context.Background(), stale)
	if !vserr.IsKind(err, vserr.KindConcurrentModification) {
		t.Fatalf("expected concurrent_modification, got %v", err)
	}

	stored, _ := repo.GetByKey(context.Background(), "priority")
	if stored.Description != "first writer" {
		t.Fatalf("losing write must not apply, got %q", stored.Description)
	}
}

func TestMemoryReplaceBumpsVersion(t *testing.T) {
	repo := NewMemoryValueSetRepo()
	created := seed(t, repo, "priority")

	updated, err := repo.Replace(context.Background(), created.Clone())
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if updated.Version != created.Version+1 {
		t.Fatalf("expected version %d, got %d", created.Version+1, updated.Version)
	}
}

func TestMemoryReplaceNotFound(t *testing.T) {
	repo := NewMemoryValueSetRepo()
	_, err := repo.Replace(context.Background(), &types.ValueSet{Key: "missing", Version: 1})
	if !vserr.IsKind(err, vserr.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	repo := NewMemoryValueSetRepo()
	seed(t, repo, "priority")

	loaded, _ := repo.GetByKey(context.Background(), "priority")
	loaded.Items[0].Code = "MUTATED"

	fresh, _ := repo.GetByKey(context.Background(), "priority")
	if fresh.Items[0].Code != "A" {
		t.Fatalf("caller mutation must not leak into the store")
	}
}

func TestMemoryListOrderAndTotal(t *testing.T) {
	repo := NewMemoryValueSetRepo()
	seed(t, repo, "charlie")
	seed(t, repo, "alpha")
	seed(t, repo, "bravo")

	page, total, err := repo.List(context.Background(), ValueSetFilter{}, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(page) != 2 || page[0].Key != "bravo" || page[1].Key != "charlie" {
		t.Fatalf("expected key-ordered page [bravo charlie], got %v", []string{page[0].Key, page[1].Key})
	}
}

func TestMemoryCountWithFilter(t *testing.T) {
	repo := NewMemoryValueSetRepo()
	seed(t, repo, "one")
	other := seed(t, repo, "two")
	other.Status = types.StatusArchived
	if _, err := repo.Replace(context.Background(), other); err != nil {
		t.Fatalf("replace: %v", err)
	}

	archived := types.StatusArchived
	count, err := repo.Count(context.Background(), ValueSetFilter{Status: &archived})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 archived, got %d", count)
	}
}
