// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and the discovery gateway.
package api

// Run states reported by the gateway. Clients must tolerate values outside
// this set and treat them as still-in-progress.
const (
	RunStateRunning   = "running"
	RunStateCompleted = "completed"
	RunStateFailed    = "failed"
)

// RunRequest is the request body for starting a discovery run.
type RunRequest struct {
	Category string `json:"category"`
	Market   string `json:"market,omitempty"`
	// AllowExternalBrands defaults to true when omitted.
	AllowExternalBrands *bool    `json:"allow_external_brands,omitempty"`
	PreferPDFs          bool     `json:"prefer_pdfs,omitempty"`
	MaxTotal            int      `json:"max_total,omitempty"`
	MaxShopeeProducts   int      `json:"max_shopee_products,omitempty"`
	PreferredBrands     []string `json:"preferred_brands,omitempty"`
}

// RunStartResponse is the response body after submitting a run.
type RunStartResponse struct {
	RunID string `json:"run_id"`
}

// RunStatusResponse is the response body for run status queries.
type RunStatusResponse struct {
	RunID  string     `json:"run_id"`
	Status string     `json:"status"`
	Logs   []string   `json:"logs"`
	Result *RunResult `json:"result,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// Product is a single discovered product source.
type Product struct {
	BrandKey string `json:"brand_key,omitempty"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
}

// RunResult is the payload attached to a completed run.
type RunResult struct {
	NotebookID    string    `json:"notebook_id"`
	SourcesAdded  int       `json:"sources_added"`
	TableNoteID   string    `json:"table_note_id,omitempty"`
	JSONNoteID    string    `json:"json_note_id,omitempty"`
	ChatSessionID string    `json:"chat_session_id,omitempty"`
	Products      []Product `json:"products"`
	MarkdownTable string    `json:"markdown_table,omitempty"`
}

// RunSummary is a compact run listing entry returned by GET /discovery/runs.
type RunSummary struct {
	RunID    string `json:"run_id"`
	Category string `json:"category"`
	Market   string `json:"market,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// ListRunsResponse is the response body for listing recent runs.
type ListRunsResponse struct {
	Runs []RunSummary `json:"runs"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
