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

func newTestSearchService() (SearchService, ValueSetService) {
	repo := repos.NewMemoryValueSetRepo()
	valueSets := NewValueSetService(repo, logger.NewNop(), nil)
	return NewSearchService(repo, logger.NewNop()), valueSets
}

func TestListPagination(t *testing.T) {
	search, valueSets := newTestSearchService()
	for i := 0; i < 5; i++ {
		mustCreate(t, valueSets, fmt.Sprintf("set-%d", i), "A")
	}

	page, err := search.List(context.Background(), &types.ListQuery{Skip: 0, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 || len(page.Items) != 2 || !page.HasMore {
		t.Fatalf("unexpected first page: total=%d items=%d hasMore=%v", page.Total, len(page.Items), page.HasMore)
	}

	last, err := search.List(context.Background(), &types.ListQuery{Skip: 4, Limit: 2})
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if len(last.Items) != 1 || last.HasMore {
		t.Fatalf("unexpected last page: items=%d hasMore=%v", len(last.Items), last.HasMore)
	}
}

func TestListSkipBeyondEnd(t *testing.T) {
	search, valueSets := newTestSearchService()
	mustCreate(t, valueSets, "only", "A")

	page, err := search.List(context.Background(), &types.ListQuery{Skip: 10, Limit: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 0 || page.HasMore {
		t.Fatalf("skip beyond end must return an empty page with total intact: %+v", page)
	}
}

func TestListStatusFilter(t *testing.T) {
	search, valueSets := newTestSearchService()
	mustCreate(t, valueSets, "active-set", "A")
	mustCreate(t, valueSets, "archived-set", "A")
	if _, err := valueSets.Archive(context.Background(), "archived-set", &types.ArchiveRestoreRequest{UpdatedBy: "editor"}); err != nil {
		t.Fatalf("archive: %v", err)
	}

	archived := types.StatusArchived
	page, err := search.List(context.Background(), &types.ListQuery{Status: &archived})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Items[0].Key != "archived-set" {
		t.Fatalf("status filter broken: %+v", page.Items)
	}
}

func TestListInvalidBounds(t *testing.T) {
	search, _ := newTestSearchService()

	if _, err := search.List(context.Background(), &types.ListQuery{Skip: -1}); !vserr.IsKind(err, vserr.KindInvalidQuery) {
		t.Fatalf("negative skip: expected invalid_query, got %v", err)
	}
	if _, err := search.List(context.Background(), &types.ListQuery{Limit: types.MaxListLimit + 1}); !vserr.IsKind(err, vserr.KindInvalidQuery) {
		t.Fatalf("oversized limit: expected invalid_query, got %v", err)
	}
}

func TestSearchItemsCaseInsensitive(t *testing.T) {
	search, valueSets := newTestSearchService()
	_, err := valueSets.Create(context.Background(), &types.CreateValueSetRequest{
		Key: "specialty",
		Items: []types.ItemPayload{
			{Code: "CARD", Labels: types.Labels{"en": "Cardiology"}},
			{Code: "NEURO", Labels: types.Labels{"en": "Neurology"}},
		},
		CreatedBy: "tester",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := search.SearchItems(context.Background(), &types.SearchItemsQuery{Query: "cardio"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.TotalMatches != 1 {
		t.Fatalf("expected 1 match, got %d", result.TotalMatches)
	}
	if result.Results[0].MatchingItems[0].Code != "CARD" {
		t.Fatalf("unexpected match: %+v", result.Results[0])
	}
}

func TestSearchItemsMatchesCode(t *testing.T) {
	search, valueSets := newTestSearchService()
	mustCreate(t, valueSets, "priority", "HIGH", "LOW")

	result, err := search.SearchItems(context.Background(), &types.SearchItemsQuery{Query: "hig"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.TotalMatches != 1 || result.Results[0].MatchingItems[0].Code != "HIGH" {
		t.Fatalf("code substring must match, got %+v", result)
	}
}

func TestSearchItemsNoLanguageFallback(t *testing.T) {
	search, valueSets := newTestSearchService()
	_, err := valueSets.Create(context.Background(), &types.CreateValueSetRequest{
		Key: "specialty",
		Items: []types.ItemPayload{
			{Code: "X1", Labels: types.Labels{"en": "Cardiology", "de": "Kardiologie"}},
		},
		CreatedBy: "tester",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// label only matches in "en"; searching "fr" must not fall back
	result, err := search.SearchItems(context.Background(), &types.SearchItemsQuery{Query: "cardiology", LanguageCode: "fr"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.TotalMatches != 0 {
		t.Fatalf("expected no fallback matches, got %d", result.TotalMatches)
	}
}

func TestSearchItemsEmptyQuery(t *testing.T) {
	search, _ := newTestSearchService()
	_, err := search.SearchItems(context.Background(), &types.SearchItemsQuery{Query: "   "})
	if !vserr.IsKind(err, vserr.KindInvalidQuery) {
		t.Fatalf("expected invalid_query, got %v", err)
	}
}

func TestSearchItemsScopedToKey(t *testing.T) {
	search, valueSets := newTestSearchService()
	mustCreate(t, valueSets, "first", "SHARED")
	mustCreate(t, valueSets, "second", "SHARED")

	key := "first"
	result, err := search.SearchItems(context.Background(), &types.SearchItemsQuery{Query: "shared", ValueSetKey: &key})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Results) != 1 || result.Results[0].ValueSetKey != "first" {
		t.Fatalf("key scope broken: %+v", result.Results)
	}
}

func TestSearchByLabelIgnoresCodes(t *testing.T) {
	search, valueSets := newTestSearchService()
	_, err := valueSets.Create(context.Background(), &types.CreateValueSetRequest{
		Key: "specialty",
		Items: []types.ItemPayload{
			{Code: "CARDIO", Labels: types.Labels{"en": "Heart medicine"}},
		},
		CreatedBy: "tester",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	matched, err := search.SearchByLabel(context.Background(), "cardio", "en", nil)
	if err != nil {
		t.Fatalf("search by label: %v", err)
	}
	if len(matched) != 0 {
		t.Fatalf("label search must not match codes, got %d sets", len(matched))
	}

	matched, err = search.SearchByLabel(context.Background(), "heart", "en", nil)
	if err != nil {
		t.Fatalf("search by label: %v", err)
	}
	if len(matched) != 1 || matched[0].Key != "specialty" {
		t.Fatalf("expected specialty, got %+v", matched)
	}
}

func TestSearchByLabelStatusFilter(t *testing.T) {
	search, valueSets := newTestSearchService()
	mustCreate(t, valueSets, "gone", "A")
	if _, err := valueSets.Archive(context.Background(), "gone", &types.ArchiveRestoreRequest{UpdatedBy: "editor"}); err != nil {
		t.Fatalf("archive: %v", err)
	}

	active := types.StatusActive
	matched, err := search.SearchByLabel(context.Background(), "Label", "en", &active)
	if err != nil {
		t.Fatalf("search by label: %v", err)
	}
	if len(matched) != 0 {
		t.Fatalf("archived sets must be filtered out, got %d", len(matched))
	}
}
