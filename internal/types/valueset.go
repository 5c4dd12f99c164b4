package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Field bounds shared by the aggregate validator and the DTO binding layer.
const (
	MaxKeyLength         = 100
	MaxModuleLength      = 50
	MaxDescriptionLength = 500
	MaxItemCodeLength    = 50
	MaxLabelLength       = 200
	MinItemsPerValueSet  = 1
	MaxItemsPerValueSet  = 500
	MaxBatchSize         = 100
	MaxListLimit         = 1000
	DefaultModule        = "Core"
	DefaultLanguage      = "en"
)

// Labels maps a language code to a display string. The "en" entry is
// mandatory on every persisted item.
type Labels map[string]string

type Item struct {
	Code   string `json:"code"`
	Labels Labels `json:"labels"`
}

// ItemList is the embedded item sequence, persisted as a single jsonb
// column so the aggregate commits in one write.
type ItemList = datatypes.JSONSlice[Item]

type ValueSet struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Key          string     `gorm:"column:key;not null;uniqueIndex" json:"key"`
	Status       Status     `gorm:"column:status;not null;default:'active'" json:"status"`
	Module       string     `gorm:"column:module;not null;default:'Core'" json:"module"`
	Description  string     `gorm:"column:description" json:"description,omitempty"`
	Items        ItemList   `gorm:"column:items;type:jsonb" json:"items"`
	StatusReason *string    `gorm:"column:status_reason" json:"statusReason,omitempty"`
	Version      int64      `gorm:"column:version;not null;default:1" json:"-"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	CreatedBy    string     `gorm:"column:created_by;not null" json:"createdBy"`
	UpdatedAt    *time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
	UpdatedBy    *string    `gorm:"column:updated_by" json:"updatedBy"`
}

func (ValueSet) TableName() string { return "value_set" }

// Clone returns a deep copy so callers can mutate an aggregate without
// aliasing store-owned state.
func (v *ValueSet) Clone() *ValueSet {
	if v == nil {
		return nil
	}
	out := *v
	out.Items = make(ItemList, len(v.Items))
	for i, it := range v.Items {
		out.Items[i] = it.Clone()
	}
	if v.StatusReason != nil {
		reason := *v.StatusReason
		out.StatusReason = &reason
	}
	if v.UpdatedAt != nil {
		at := *v.UpdatedAt
		out.UpdatedAt = &at
	}
	if v.UpdatedBy != nil {
		by := *v.UpdatedBy
		out.UpdatedBy = &by
	}
	return &out
}

func (i Item) Clone() Item {
	out := Item{Code: i.Code}
	if i.Labels != nil {
		out.Labels = make(Labels, len(i.Labels))
		for lang, label := range i.Labels {
			out.Labels[lang] = label
		}
	}
	return out
}

// ItemCodes returns the codes in list order.
func (v *ValueSet) ItemCodes() []string {
	codes := make([]string, 0, len(v.Items))
	for _, it := range v.Items {
		codes = append(codes, it.Code)
	}
	return codes
}

// FindItem returns the index of the item with the given code, or -1.
func (v *ValueSet) FindItem(code string) int {
	for i, it := range v.Items {
		if it.Code == code {
			return i
		}
	}
	return -1
}
