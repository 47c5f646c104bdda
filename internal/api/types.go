package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Pair describes a board pair in a transport-friendly format. Field names
// follow the wire contract the board clients already speak.
type Pair struct {
	ID               int64       `json:"id"`
	PairNumber       int         `json:"pairNumber"`
	Type             string      `json:"type"`
	Description      string      `json:"description"`
	FullInstructions string      `json:"fullInstructions"`
	Notes            string      `json:"notes"`
	AssignedVA       *string     `json:"assignedVA"`
	Stage            string      `json:"stage"`
	VideoAUploaded   bool        `json:"videoAUploaded"`
	VideoBUploaded   bool        `json:"videoBUploaded"`
	QAChecklist      QAChecklist `json:"qaChecklist"`
	DriveFolder      string      `json:"driveFolder,omitempty"`
	ClientFolder     string      `json:"clientFolder,omitempty"`
	Delivered        bool        `json:"delivered"`
	DueDate          string      `json:"dueDate,omitempty"`
	CreatedAt        string      `json:"createdAt,omitempty"`
	UpdatedAt        string      `json:"updatedAt,omitempty"`
}

// QAChecklist mirrors the fixed quality gates on the wire.
type QAChecklist struct {
	CameraPosition bool `json:"cameraPosition"`
	Lighting       bool `json:"lighting"`
	OneChange      bool `json:"oneChange"`
	Duration       bool `json:"duration"`
	Resolution     bool `json:"resolution"`
	Naming         bool `json:"naming"`
}

// PairListResponse wraps a collection of pairs.
type PairListResponse struct {
	Pairs []Pair `json:"pairs"`
}

// PairResponse wraps a single pair.
type PairResponse struct {
	Pair Pair `json:"pair"`
}

// HistoryEntry describes one audited stage transition.
type HistoryEntry struct {
	OldStage  string `json:"oldStage,omitempty"`
	NewStage  string `json:"newStage"`
	ChangedBy string `json:"changedBy,omitempty"`
	ChangedAt string `json:"changedAt,omitempty"`
}

// DeliveryResult reports a completed delivery.
type DeliveryResult struct {
	Success     bool     `json:"success"`
	PairNumber  int      `json:"pairNumber"`
	FolderName  string   `json:"folderName"`
	FilesCopied []string `json:"filesCopied,omitempty"`
	Destination string   `json:"destination,omitempty"`
}

// BoardStatus aggregates board counts for status output.
type BoardStatus struct {
	Stages    map[string]int `json:"stages"`
	Pairs     int            `json:"pairs"`
	Videos    int            `json:"videos"`
	Complete  int            `json:"complete"`
	Delivered int            `json:"delivered"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool        `json:"running"`
	PID          int         `json:"pid"`
	BoardDBPath  string      `json:"boardDbPath"`
	LockFilePath string      `json:"lockFilePath"`
	Board        BoardStatus `json:"board"`
	Preflight    []Check     `json:"preflight,omitempty"`
}

// Check reports one preflight check outcome.
type Check struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}
