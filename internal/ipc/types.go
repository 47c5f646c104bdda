package ipc

import "pairtrack/internal/api"

// Pair mirrors the HTTP API pair DTO for internal IPC callers.
type Pair = api.Pair

// HistoryEntry mirrors the HTTP API history DTO.
type HistoryEntry = api.HistoryEntry

// DeliveryResult mirrors the HTTP API delivery DTO.
type DeliveryResult = api.DeliveryResult

// Check mirrors the HTTP API preflight DTO.
type Check = api.Check

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/board status information.
type StatusResponse struct {
	Running     bool           `json:"running"`
	PID         int            `json:"pid"`
	LockPath    string         `json:"lock_path"`
	BoardDBPath string         `json:"board_db_path"`
	Stages      map[string]int `json:"stages"`
	Pairs       int            `json:"pairs"`
	Videos      int            `json:"videos"`
	Complete    int            `json:"complete"`
	Delivered   int            `json:"delivered"`
	Preflight   []Check        `json:"preflight"`
	APIAddress  string         `json:"api_address"`
}

// BoardListRequest filters the board listing.
type BoardListRequest struct {
	Stage    string `json:"stage"`
	Type     string `json:"type"`
	Assignee string `json:"assignee"`
	Search   string `json:"search"`
}

// BoardListResponse contains board pairs.
type BoardListResponse struct {
	Pairs []Pair `json:"pairs"`
}

// BoardDescribeRequest fetches a single pair by number.
type BoardDescribeRequest struct {
	PairNumber int `json:"pair_number"`
}

// BoardDescribeResponse contains a single pair.
type BoardDescribeResponse struct {
	Pair Pair `json:"pair"`
}

// BoardMoveRequest moves a pair to a new stage.
type BoardMoveRequest struct {
	PairNumber int    `json:"pair_number"`
	Stage      string `json:"stage"`
	ChangedBy  string `json:"changed_by"`
}

// BoardAssignRequest sets or clears a pair's assignee.
type BoardAssignRequest struct {
	PairNumber int    `json:"pair_number"`
	Name       string `json:"name"`
	ChangedBy  string `json:"changed_by"`
}

// BoardEditRequest updates a text field, notes, a checklist entry, or an
// upload flag on a pair. Exactly one edit kind is set per request.
type BoardEditRequest struct {
	PairNumber int    `json:"pair_number"`
	Field      string `json:"field,omitempty"`
	Text       string `json:"text,omitempty"`
	Check      string `json:"check,omitempty"`
	Upload     string `json:"upload,omitempty"`
	ChangedBy  string `json:"changed_by"`
}

// BoardPatchRequest applies a partial field update by row id.
type BoardPatchRequest struct {
	ID        int64          `json:"id"`
	Fields    map[string]any `json:"fields"`
	ChangedBy string         `json:"changed_by"`
}

// PairResponse contains the pair after a mutation.
type PairResponse struct {
	Pair Pair `json:"pair"`
}

// ApproveRequest force-completes a pair and delivers its assets.
type ApproveRequest struct {
	PairNumber int    `json:"pair_number"`
	ChangedBy  string `json:"changed_by"`
}

// ReshootRequest sends a pair back for another filming round.
type ReshootRequest struct {
	PairNumber int    `json:"pair_number"`
	ChangedBy  string `json:"changed_by"`
}

// DeliverRequest copies a pair's assets to the client location.
type DeliverRequest struct {
	PairNumber int `json:"pair_number"`
}

// DeliverResponse reports the delivery outcome.
type DeliverResponse struct {
	Result DeliveryResult `json:"result"`
}

// SyncDescriptionRequest updates and mirrors a pair's description.
type SyncDescriptionRequest struct {
	PairNumber  int    `json:"pair_number"`
	Description string `json:"description"`
}

// HistoryRequest fetches stage transition history for a pair.
type HistoryRequest struct {
	PairNumber int `json:"pair_number"`
}

// HistoryResponse contains audited stage transitions.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	StoreVersion     int      `json:"store_version"`
	TableExists      bool     `json:"table_exists"`
	ColumnsPresent   []string `json:"columns_present"`
	MissingColumns   []string `json:"missing_columns"`
	IntegrityCheck   bool     `json:"integrity_check"`
	TotalPairs       int      `json:"total_pairs"`
	Error            string   `json:"error"`
}
