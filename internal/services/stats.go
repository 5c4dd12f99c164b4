package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/repos"
	"github.com/refdata-io/valueset-backend/internal/types"
)

// StatsService computes distributional summaries over the full collection.
type StatsService interface {
	Compute(ctx context.Context) (*types.Statistics, error)
}

type statsService struct {
	repo repos.ValueSetRepo
	log  *logger.Logger
}

func NewStatsService(repo repos.ValueSetRepo, log *logger.Logger) StatsService {
	serviceLog := log.With("service", "StatsService")
	return &statsService{repo: repo, log: serviceLog}
}

func (ss *statsService) Compute(ctx context.Context) (*types.Statistics, error) {
	var (
		total int64
		all   []*types.ValueSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = ss.repo.Count(gctx, repos.ValueSetFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		all, err = ss.repo.All(gctx, repos.ValueSetFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &types.Statistics{
		TotalValueSets:     total,
		StatusDistribution: make(map[types.Status]int64),
		ModuleDistribution: make(map[string]int64),
	}

	var totalItems int64
	minItems, maxItems := 0, 0
	for i, vs := range all {
		stats.StatusDistribution[vs.Status]++
		stats.ModuleDistribution[vs.Module]++

		count := len(vs.Items)
		totalItems += int64(count)
		if i == 0 || count < minItems {
			minItems = count
		}
		if count > maxItems {
			maxItems = count
		}
	}

	stats.Items = types.ItemStatistics{
		TotalItems: totalItems,
		MinItems:   minItems,
		MaxItems:   maxItems,
	}
	if total > 0 {
		capacity := total * types.MaxItemsPerValueSet
		stats.Items.AverageItemsPerSet = float64(totalItems) / float64(total)
		stats.Items.TotalCapacity = capacity
		stats.Items.CapacityUsedPercent = float64(totalItems) / float64(capacity) * 100
	}

	ss.log.Debug("statistics computed", "total_value_sets", total, "total_items", totalItems)
	return stats, nil
}
