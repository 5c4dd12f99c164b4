package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/refdata-io/valueset-backend/internal/platform/logger"
	"github.com/refdata-io/valueset-backend/internal/types"
	"github.com/refdata-io/valueset-backend/internal/vserr"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ExportService converts aggregates to and from exchange formats. JSON is
// the aggregate verbatim; CSV is one row per item. CSV import is
// deliberately unsupported and fails loudly.
type ExportService interface {
	Export(ctx context.Context, key, format string) (interface{}, error)
	ExportCSV(ctx context.Context, key string) (*types.CSVExport, error)
	Import(ctx context.Context, payload *types.ImportValueSetPayload, format, createdBy string) (*types.ValueSet, error)
}

type exportService struct {
	valueSets ValueSetService
	log       *logger.Logger
}

func NewExportService(valueSets ValueSetService, log *logger.Logger) ExportService {
	serviceLog := log.With("service", "ExportService")
	return &exportService{valueSets: valueSets, log: serviceLog}
}

func (es *exportService) Export(ctx context.Context, key, format string) (interface{}, error) {
	switch format {
	case FormatJSON:
		vs, err := es.valueSets.GetByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if vs == nil {
			return nil, vserr.New(vserr.KindNotFound, "value set with key '%s' not found", key)
		}
		return vs, nil
	case FormatCSV:
		return es.ExportCSV(ctx, key)
	default:
		return nil, vserr.New(vserr.KindInvalidQuery, "unsupported export format: %s", format)
	}
}

func (es *exportService) ExportCSV(ctx context.Context, key string) (*types.CSVExport, error) {
	vs, err := es.valueSets.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if vs == nil {
		return nil, vserr.New(vserr.KindNotFound, "value set with key '%s' not found", key)
	}

	languages := labelLanguages(vs.Items)
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	header := []string{"Code"}
	for _, lang := range languages {
		header = append(header, fmt.Sprintf("%s Label", strings.ToUpper(lang)))
	}
	header = append(header, "Key", "Module", "Status", "Description")
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, item := range vs.Items {
		row := []string{item.Code}
		for _, lang := range languages {
			row = append(row, item.Labels[lang])
		}
		row = append(row, vs.Key, vs.Module, string(vs.Status), vs.Description)
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return &types.CSVExport{
		Format:  FormatCSV,
		Content: buf.String(),
		Metadata: types.ExportMetadata{
			Key:       vs.Key,
			Module:    vs.Module,
			Status:    vs.Status,
			ItemCount: len(vs.Items),
		},
	}, nil
}

func (es *exportService) Import(ctx context.Context, payload *types.ImportValueSetPayload, format, createdBy string) (*types.ValueSet, error) {
	switch format {
	case FormatJSON:
		if createdBy == "" {
			createdBy = "system"
		}
		created, err := es.valueSets.Create(ctx, &types.CreateValueSetRequest{
			Key:         payload.Key,
			Status:      payload.Status,
			Module:      payload.Module,
			Description: payload.Description,
			Items:       payload.Items,
			CreatedBy:   createdBy,
		})
		if err != nil {
			return nil, err
		}
		es.log.Info("value set imported", "key", created.Key, "created_by", createdBy)
		return created, nil
	case FormatCSV:
		return nil, vserr.New(vserr.KindNotImplemented, "csv import not yet implemented")
	default:
		return nil, vserr.New(vserr.KindInvalidQuery, "unsupported import format: %s", format)
	}
}

// labelLanguages returns the union of languages across items, "en" first,
// the rest sorted, matching the exported column order.
func labelLanguages(items []types.Item) []string {
	seen := make(map[string]bool)
	for _, item := range items {
		for lang := range item.Labels {
			seen[lang] = true
		}
	}
	var rest []string
	for lang := range seen {
		if lang != types.DefaultLanguage {
			rest = append(rest, lang)
		}
	}
	sort.Strings(rest)

	languages := []string{}
	if seen[types.DefaultLanguage] {
		languages = append(languages, types.DefaultLanguage)
	}
	return append(languages, rest...)
}
