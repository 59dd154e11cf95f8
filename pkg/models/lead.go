package models

import "time"

// Known pipeline stages. Status is free text at storage, these are the
// values the dashboard renders.
const (
	StatusNewLead       = "New Lead"
	StatusNew           = "New"
	StatusQualified     = "Qualified"
	StatusCallBooked    = "Call Booked"
	StatusWon           = "Won"
	StatusLost          = "Lost"
	StatusUnqualified   = "Unqualified"
	StatusNoShow        = "No Show"
	StatusNeedsFollowup = "Needs Followup"
	StatusCold          = "Cold"
)

// Ledger reasons
const (
	ReasonInitialScore = "Initial Score"
	ReasonManualUpdate = "Manual Update"
)

// LeadRecord is a lead row as stored, tags still in their serialized form
type LeadRecord struct {
	ID              int64
	Name            string
	Email           string
	Status          string
	Score           int
	Tags            string
	Source          string
	AssignedTo      string
	LastInteraction time.Time
	DealValue       *float64
}

// Lead converts the stored row into the API shape, decoding tags
func (r LeadRecord) Lead() Lead {
	return Lead{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		Status:          r.Status,
		Score:           r.Score,
		Tags:            ParseTagSet(r.Tags),
		Source:          r.Source,
		AssignedTo:      r.AssignedTo,
		LastInteraction: r.LastInteraction,
		DealValue:       r.DealValue,
	}
}

// Lead represents a lead in API responses
type Lead struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Status          string    `json:"status"`
	Score           int       `json:"score"`
	Tags            TagSet    `json:"tags"`
	Source          string    `json:"source"`
	AssignedTo      string    `json:"assigned_to"`
	LastInteraction time.Time `json:"last_interaction"`
	DealValue       *float64  `json:"deal_value"`
}

// ScoreEntry is one append-only ledger row
type ScoreEntry struct {
	ID        int64     `json:"id"`
	LeadID    int64     `json:"lead_id"`
	Change    int       `json:"change"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// LeadDetail is a lead with its score history, newest first
type LeadDetail struct {
	Lead
	ScoreHistory []ScoreEntry `json:"scoreHistory"`
}

// CreateLeadRequest represents the body of POST /leads
type CreateLeadRequest struct {
	Name       string   `json:"name" validate:"max=255"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Status     string   `json:"status" validate:"max=64"`
	Score      int      `json:"score"`
	Tags       TagSet   `json:"tags"`
	Source     string   `json:"source" validate:"max=255"`
	AssignedTo string   `json:"assigned_to" validate:"max=255"`
	DealValue  *float64 `json:"deal_value"`
}

// UpdateLeadRequest represents the body of PUT /leads/:id. Only present
// fields are written.
type UpdateLeadRequest struct {
	Name            Optional[string]    `json:"name"`
	Email           Optional[string]    `json:"email"`
	Status          Optional[string]    `json:"status"`
	Score           Optional[int]       `json:"score"`
	Tags            Optional[TagSet]    `json:"tags"`
	Source          Optional[string]    `json:"source"`
	AssignedTo      Optional[string]    `json:"assigned_to"`
	LastInteraction Optional[time.Time] `json:"last_interaction"`
	DealValue       Optional[float64]   `json:"deal_value"`
}

// LeadFilter narrows GET /leads. Zero value matches everything.
type LeadFilter struct {
	Query    string `query:"q"`
	Status   string `query:"status"`
	Tag      string `query:"tag"`
	MinScore *int   `query:"min_score"`
	MaxScore *int   `query:"max_score"`
}

// IsEmpty reports whether the filter matches every lead
func (f LeadFilter) IsEmpty() bool {
	return f.Query == "" && f.Status == "" && f.Tag == "" && f.MinScore == nil && f.MaxScore == nil
}

// UpdateResult mirrors the affected-row contract of write operations
type UpdateResult struct {
	Changes   int64 `json:"changes"`
	UpdatedID int64 `json:"updated_id"`
}

// TagRequest represents the body of POST /leads/:id/tags
type TagRequest struct {
	Tag string `json:"tag" validate:"required,max=64"`
}

// BulkStatusRequest represents the body of POST /leads/bulk/status
type BulkStatusRequest struct {
	IDs    []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
	Status string  `json:"status" validate:"required,max=64"`
}

// BulkTagRequest represents the body of POST /leads/bulk/tags
type BulkTagRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
	Tag string  `json:"tag" validate:"required,max=64"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
