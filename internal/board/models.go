package board

import (
	"fmt"
	"strings"
	"time"
)

// Stage represents the lifecycle of a pair on the board.
type Stage string

const (
	StageNeedsAssignment Stage = "needs_assignment"
	StageInProgress      Stage = "in_progress"
	StageInternalReview  Stage = "internal_review"
	StageNeedsRevision   Stage = "needs_revision"
	StageComplete        Stage = "complete"
)

var allStages = []Stage{
	StageNeedsAssignment,
	StageInProgress,
	StageInternalReview,
	StageNeedsRevision,
	StageComplete,
}

var stageSet = func() map[Stage]struct{} {
	set := make(map[Stage]struct{}, len(allStages))
	for _, stage := range allStages {
		set[stage] = struct{}{}
	}
	return set
}()

// PairType classifies what differs between the two clips of a pair.
type PairType string

const (
	TypeObjectChange PairType = "Object Change"
	TypeActionChange PairType = "Action Change"
	TypeSpeechChange PairType = "Speech Change"
	TypeAudioChange  PairType = "Audio Change"
)

var allTypes = []PairType{
	TypeObjectChange,
	TypeActionChange,
	TypeSpeechChange,
	TypeAudioChange,
}

var typeSet = func() map[PairType]struct{} {
	set := make(map[PairType]struct{}, len(allTypes))
	for _, pt := range allTypes {
		set[pt] = struct{}{}
	}
	return set
}()

// MaxPairNumber bounds the catalog; pair numbers run 1..MaxPairNumber.
const MaxPairNumber = 80

// DefaultReshootNotes seeds empty notes when a reshoot is requested.
const DefaultReshootNotes = "Reshoot requested"

// QAChecklist holds the fixed informational quality gates. The checks never
// gate stage transitions.
type QAChecklist struct {
	CameraPosition bool
	Lighting       bool
	OneChange      bool
	Duration       bool
	Resolution     bool
	Naming         bool
}

// Checklist field names as they appear in patches and on the wire.
const (
	CheckCameraPosition = "camera_position"
	CheckLighting       = "lighting"
	CheckOneChange      = "one_change"
	CheckDuration       = "duration"
	CheckResolution     = "resolution"
	CheckNaming         = "naming"
)

var allChecks = []string{
	CheckCameraPosition,
	CheckLighting,
	CheckOneChange,
	CheckDuration,
	CheckResolution,
	CheckNaming,
}

// AllChecks returns the ordered list of checklist field names.
func AllChecks() []string {
	cp := make([]string, len(allChecks))
	copy(cp, allChecks)
	return cp
}

// Get returns the named check's value.
func (q QAChecklist) Get(name string) (bool, bool) {
	switch name {
	case CheckCameraPosition:
		return q.CameraPosition, true
	case CheckLighting:
		return q.Lighting, true
	case CheckOneChange:
		return q.OneChange, true
	case CheckDuration:
		return q.Duration, true
	case CheckResolution:
		return q.Resolution, true
	case CheckNaming:
		return q.Naming, true
	default:
		return false, false
	}
}

// Set assigns the named check and reports whether the name is known.
func (q *QAChecklist) Set(name string, value bool) bool {
	switch name {
	case CheckCameraPosition:
		q.CameraPosition = value
	case CheckLighting:
		q.Lighting = value
	case CheckOneChange:
		q.OneChange = value
	case CheckDuration:
		q.Duration = value
	case CheckResolution:
		q.Resolution = value
	case CheckNaming:
		q.Naming = value
	default:
		return false
	}
	return true
}

// Passed counts checks currently marked true.
func (q QAChecklist) Passed() int {
	n := 0
	for _, name := range allChecks {
		if v, _ := q.Get(name); v {
			n++
		}
	}
	return n
}

// Pair represents one unit of work persisted in SQLite: two short clips that
// differ by exactly one change, moving through the production stages.
type Pair struct {
	ID             int64
	PairNumber     int
	Type           PairType
	Description    string
	Instructions   string
	Notes          string
	Assignee       string // empty means unassigned
	Stage          Stage
	VideoAUploaded bool
	VideoBUploaded bool
	QAChecklist    QAChecklist
	DriveFolder    string
	ClientFolder   string
	Delivered      bool
	DueDate        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AllStages returns the ordered list of known stages.
func AllStages() []Stage {
	cp := make([]Stage, len(allStages))
	copy(cp, allStages)
	return cp
}

// ParseStage converts a string into a known Stage.
func ParseStage(value string) (Stage, bool) {
	normalized := Stage(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stageSet[normalized]
	return normalized, ok
}

// AllTypes returns the ordered list of known pair types.
func AllTypes() []PairType {
	cp := make([]PairType, len(allTypes))
	copy(cp, allTypes)
	return cp
}

// ParseType converts a string into a known PairType. Matching is
// case-insensitive and tolerates underscores for CLI convenience.
func ParseType(value string) (PairType, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	if _, ok := typeSet[PairType(trimmed)]; ok {
		return PairType(trimmed), true
	}
	folded := strings.ToLower(strings.ReplaceAll(trimmed, "_", " "))
	for _, pt := range allTypes {
		if strings.ToLower(string(pt)) == folded {
			return pt, true
		}
	}
	return "", false
}

// IsTerminal reports whether the stage is the final delivery stage.
func (s Stage) IsTerminal() bool {
	return s == StageComplete
}

// DisplayName returns the stage label used in board and table headers.
func (s Stage) DisplayName() string {
	switch s {
	case StageNeedsAssignment:
		return "Needs Assignment"
	case StageInProgress:
		return "In Progress"
	case StageInternalReview:
		return "Internal Review"
	case StageNeedsRevision:
		return "Needs Revision"
	case StageComplete:
		return "Complete"
	default:
		return string(s)
	}
}

// IsAssigned reports whether the pair has an assignee.
func (p Pair) IsAssigned() bool {
	return strings.TrimSpace(p.Assignee) != ""
}

// UploadsComplete reports whether both clips have been uploaded.
func (p Pair) UploadsComplete() bool {
	return p.VideoAUploaded && p.VideoBUploaded
}

// FolderName returns the asset folder name for the pair, e.g. "Pair_05".
func (p Pair) FolderName() string {
	return PairFolderName(p.PairNumber)
}

// PairFolderName renders the zero-padded asset folder name for a pair number.
func PairFolderName(n int) string {
	return fmt.Sprintf("Pair_%02d", n)
}

// ValidPairNumber reports whether a pair number is inside the catalog range.
func ValidPairNumber(n int) bool {
	return n >= 1 && n <= MaxPairNumber
}
