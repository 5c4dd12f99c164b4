package services

import (
	"context"
	"strings"

	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/repos"
	"github.com/refdata-io/valueset-backend/internal/types"
	"github.com/refdata-io/valueset-backend/internal/vserr"
)

// SearchService covers listing with pagination and text matching over item
// codes and labels. Matching runs in memory over store-filtered candidates
// so every store implementation shares one matching code path.
type SearchService interface {
	List(ctx context.Context, q *types.ListQuery) (*types.ValueSetPage, error)
	SearchItems(ctx context.Context, q *types.SearchItemsQuery) (*types.SearchItemsResult, error)
	SearchByLabel(ctx context.Context, labelText, languageCode string, status *types.Status) ([]*types.ValueSet, error)
}

type searchService struct {
	repo repos.ValueSetRepo
	log  *logger.Logger
}

func NewSearchService(repo repos.ValueSetRepo, log *logger.Logger) SearchService {
	serviceLog := log.With("service", "SearchService")
	return &searchService{repo: repo, log: serviceLog}
}

func (ss *searchService) List(ctx context.Context, q *types.ListQuery) (*types.ValueSetPage, error) {
	if q.Skip < 0 {
		return nil, vserr.New(vserr.KindInvalidQuery, "skip must not be negative (got %d)", q.Skip)
	}
	limit := q.Limit
	if limit == 0 {
		limit = 100
	}
	if limit < 1 || limit > types.MaxListLimit {
		return nil, vserr.New(vserr.KindInvalidQuery, "limit must be between 1 and %d (got %d)", types.MaxListLimit, limit)
	}

	filter := repos.ValueSetFilter{Status: q.Status, Module: q.Module}
	page, total, err := ss.repo.List(ctx, filter, q.Skip, limit)
	if err != nil {
		return nil, err
	}

	items := make([]types.ValueSetListItem, 0, len(page))
	for _, vs := range page {
		items = append(items, types.ValueSetListItem{
			ID:          vs.ID,
			Key:         vs.Key,
			Status:      vs.Status,
			Module:      vs.Module,
			Description: vs.Description,
			ItemCount:   len(vs.Items),
			CreatedAt:   vs.CreatedAt,
			UpdatedAt:   vs.UpdatedAt,
		})
	}

	return &types.ValueSetPage{
		Total:   total,
		Skip:    q.Skip,
		Limit:   limit,
		HasMore: int64(q.Skip+len(items)) < total,
		Items:   items,
	}, nil
}

func (ss *searchService) SearchItems(ctx context.Context, q *types.SearchItemsQuery) (*types.SearchItemsResult, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return nil, vserr.New(vserr.KindInvalidQuery, "search query must not be empty")
	}
	lang := q.LanguageCode
	if lang == "" {
		lang = types.DefaultLanguage
	}

	filter := repos.ValueSetFilter{Key: q.ValueSetKey}
	candidates, err := ss.repo.All(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := []types.SearchItemsMatch{}
	total := 0
	for _, vs := range candidates {
		var matching []types.Item
		for _, item := range vs.Items {
			if matchesItem(item, query, lang) {
				matching = append(matching, item.Clone())
			}
		}
		if len(matching) == 0 {
			continue
		}
		total += len(matching)
		results = append(results, types.SearchItemsMatch{
			ValueSetKey:    vs.Key,
			ValueSetModule: vs.Module,
			MatchingItems:  matching,
			TotalMatches:   len(matching),
		})
	}

	ss.log.Debug("item search completed", "query", query, "language", lang, "total_matches", total)
	return &types.SearchItemsResult{Results: results, TotalMatches: total}, nil
}

func (ss *searchService) SearchByLabel(ctx context.Context, labelText, languageCode string, status *types.Status) ([]*types.ValueSet, error) {
	text := strings.TrimSpace(labelText)
	if text == "" {
		return nil, vserr.New(vserr.KindInvalidQuery, "label text must not be empty")
	}
	lang := languageCode
	if lang == "" {
		lang = types.DefaultLanguage
	}

	candidates, err := ss.repo.All(ctx, repos.ValueSetFilter{Status: status})
	if err != nil {
		return nil, err
	}

	matched := []*types.ValueSet{}
	for _, vs := range candidates {
		for _, item := range vs.Items {
			if matchesLabel(item, text, lang) {
				matched = append(matched, vs)
				break
			}
		}
	}
	return matched, nil
}

// matchesItem checks the code and the requested language's label. An
// absent language contributes no label match; there is no fallback to "en".
func matchesItem(item types.Item, query, lang string) bool {
	if containsFold(item.Code, query) {
		return true
	}
	return matchesLabel(item, query, lang)
}

func matchesLabel(item types.Item, query, lang string) bool {
	label, ok := item.Labels[lang]
	if !ok {
		return false
	}
	return containsFold(label, query)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
