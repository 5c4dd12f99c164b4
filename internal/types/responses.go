package types

import (
	"time"

	"github.com/google/uuid"
)

// ValueSetListItem is the lightweight listing shape: item counts instead
// of the full embedded list.
type ValueSetListItem struct {
	ID          uuid.UUID  `json:"id"`
	Key         string     `json:"key"`
	Status      Status     `json:"status"`
	Module      string     `json:"module"`
	Description string     `json:"description,omitempty"`
	ItemCount   int        `json:"itemCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

type ValueSetPage struct {
	Total   int64              `json:"total"`
	Skip    int                `json:"skip"`
	Limit   int                `json:"limit"`
	HasMore bool               `json:"hasMore"`
	Items   []ValueSetListItem `json:"items"`
}

type SearchItemsMatch struct {
	ValueSetKey    string `json:"valueSetKey"`
	ValueSetModule string `json:"valueSetModule"`
	MatchingItems  []Item `json:"matchingItems"`
	TotalMatches   int    `json:"totalMatches"`
}

type SearchItemsResult struct {
	Results      []SearchItemsMatch `json:"results"`
	TotalMatches int                `json:"totalMatches"`
}

type BulkError struct {
	Target string `json:"target"`
	Error  string `json:"error"`
}

// BulkOperationResult reports best-effort batch outcomes. Successful plus
// Failed always equals the number of targets attempted.
type BulkOperationResult struct {
	Successful    int         `json:"successful"`
	Failed        int         `json:"failed"`
	Errors        []BulkError `json:"errors"`
	ProcessedKeys []string    `json:"processedKeys"`
}

type ArchiveRestoreResult struct {
	Key            string `json:"key"`
	PreviousStatus Status `json:"previousStatus"`
	CurrentStatus  Status `json:"currentStatus"`
	Message        string `json:"message"`
}

type ValidationResult struct {
	Key      string   `json:"key"`
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type ItemStatistics struct {
	TotalItems          int64   `json:"total_items"`
	AverageItemsPerSet  float64 `json:"average_items_per_set"`
	MinItems            int     `json:"min_items"`
	MaxItems            int     `json:"max_items"`
	TotalCapacity       int64   `json:"total_capacity"`
	CapacityUsedPercent float64 `json:"capacity_used_percent"`
}

type Statistics struct {
	TotalValueSets     int64            `json:"total_value_sets"`
	StatusDistribution map[Status]int64 `json:"status_distribution"`
	ModuleDistribution map[string]int64 `json:"module_distribution"`
	Items              ItemStatistics   `json:"items_statistics"`
}

type ExportMetadata struct {
	Key       string `json:"key"`
	Module    string `json:"module"`
	Status    Status `json:"status"`
	ItemCount int    `json:"itemCount"`
}

type CSVExport struct {
	Format   string         `json:"format"`
	Content  string         `json:"content"`
	Metadata ExportMetadata `json:"metadata"`
}
