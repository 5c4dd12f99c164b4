package types

import "time"

// ItemPayload is the wire form of an item on create/add paths. The enlabel
// rule is registered against gin's validator at router setup.
type ItemPayload struct {
	Code   string `json:"code" binding:"required,max=50"`
	Labels Labels `json:"labels" binding:"required,enlabel,dive,max=200"`
}

func (p ItemPayload) ToItem() Item {
	labels := make(Labels, len(p.Labels))
	for lang, label := range p.Labels {
		labels[lang] = label
	}
	return Item{Code: p.Code, Labels: labels}
}

type CreateValueSetRequest struct {
	Key         string        `json:"key" binding:"required,max=100"`
	Status      Status        `json:"status" binding:"omitempty,oneof=active archived"`
	Module      string        `json:"module" binding:"omitempty,max=50"`
	Description string        `json:"description" binding:"omitempty,max=500"`
	Items       []ItemPayload `json:"items" binding:"required,dive"`
	CreatedBy   string        `json:"createdBy" binding:"required"`
	// CreatedAt may be supplied explicitly for migration scenarios.
	CreatedAt *time.Time `json:"createdAt"`
}

// UpdateValueSetRequest is a true partial patch: nil fields are left
// unchanged, present fields overwrite. Items, when present, replace the
// whole list and are re-validated as a full aggregate.
type UpdateValueSetRequest struct {
	Status      *Status       `json:"status" binding:"omitempty,oneof=active archived"`
	Module      *string       `json:"module" binding:"omitempty,max=50"`
	Description *string       `json:"description" binding:"omitempty,max=500"`
	Items       []ItemPayload `json:"items" binding:"omitempty,dive"`
	UpdatedBy   string        `json:"updatedBy" binding:"required"`
	UpdatedAt   *time.Time    `json:"updatedAt"`
}

type AddItemRequest struct {
	Item      ItemPayload `json:"item" binding:"required"`
	UpdatedBy string      `json:"updatedBy" binding:"required"`
}

// ItemPatch updates an item in place. Labels merge at per-language
// granularity: present languages overwrite, absent ones are untouched.
type ItemPatch struct {
	Code   *string `json:"code" binding:"omitempty,max=50"`
	Labels Labels  `json:"labels" binding:"omitempty,dive,max=200"`
}

type UpdateItemRequest struct {
	Updates   ItemPatch `json:"updates" binding:"required"`
	UpdatedBy string    `json:"updatedBy" binding:"required"`
}

type ReplaceItemCodeRequest struct {
	OldCode   string `json:"oldCode" binding:"required"`
	NewCode   string `json:"newCode" binding:"required,max=50"`
	NewLabels Labels `json:"newLabels" binding:"omitempty,enlabel,dive,max=200"`
	UpdatedBy string `json:"updatedBy" binding:"required"`
}

type ArchiveRestoreRequest struct {
	UpdatedBy string  `json:"updatedBy" binding:"required"`
	Reason    *string `json:"reason"`
}

// ValidateValueSetRequest is a dry run: bounds are deliberately not
// enforced at the binding layer so the validator can report them.
type ValidateValueSetRequest struct {
	Key         string        `json:"key" binding:"required"`
	Status      Status        `json:"status"`
	Module      string        `json:"module"`
	Description string        `json:"description"`
	Items       []ItemPayload `json:"items" binding:"required"`
}

type BulkCreateRequest struct {
	ValueSets []CreateValueSetRequest `json:"valueSets" binding:"required,dive"`
}

type BulkAddItemsRequest struct {
	Items     []ItemPayload `json:"items" binding:"required,dive"`
	UpdatedBy string        `json:"updatedBy" binding:"required"`
}

type BulkItemUpdate struct {
	ValueSetKey string    `json:"valueSetKey" binding:"required"`
	ItemCode    string    `json:"itemCode" binding:"required"`
	Updates     ItemPatch `json:"updates" binding:"required"`
	UpdatedBy   string    `json:"updatedBy" binding:"required"`
}

type BulkUpdateItemsRequest struct {
	ItemUpdates []BulkItemUpdate `json:"itemUpdates" binding:"required,dive"`
}

type BulkMetadataUpdate struct {
	Key         string  `json:"key" binding:"required"`
	Status      *Status `json:"status" binding:"omitempty,oneof=active archived"`
	Module      *string `json:"module" binding:"omitempty,max=50"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type BulkUpdateValueSetsRequest struct {
	Updates   []BulkMetadataUpdate `json:"updates" binding:"required,dive"`
	UpdatedBy string               `json:"updatedBy" binding:"required"`
}

type ListQuery struct {
	Status *Status `form:"status"`
	Module *string `form:"module"`
	Skip   int     `form:"skip"`
	Limit  int     `form:"limit"`
}

type SearchItemsQuery struct {
	Query        string  `json:"query" binding:"required"`
	ValueSetKey  *string `json:"valueSetKey"`
	LanguageCode string  `json:"languageCode"`
}

// ImportValueSetPayload mirrors the export JSON shape; audit fields are
// stamped by the import path, not taken from the payload.
type ImportValueSetPayload struct {
	Key         string        `json:"key" binding:"required,max=100"`
	Status      Status        `json:"status" binding:"omitempty,oneof=active archived"`
	Module      string        `json:"module" binding:"omitempty,max=50"`
	Description string        `json:"description" binding:"omitempty,max=500"`
	Items       []ItemPayload `json:"items" binding:"required,dive"`
}
