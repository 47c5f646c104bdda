package api

import (
	"pairtrack/internal/board"
	"pairtrack/internal/delivery"
	"pairtrack/internal/store"
)

// FromPair converts a board record to its API representation.
func FromPair(pair *board.Pair) Pair {
	if pair == nil {
		return Pair{}
	}

	dto := Pair{
		ID:               pair.ID,
		PairNumber:       pair.PairNumber,
		Type:             string(pair.Type),
		Description:      pair.Description,
		FullInstructions: pair.Instructions,
		Notes:            pair.Notes,
		Stage:            string(pair.Stage),
		VideoAUploaded:   pair.VideoAUploaded,
		VideoBUploaded:   pair.VideoBUploaded,
		QAChecklist: QAChecklist{
			CameraPosition: pair.QAChecklist.CameraPosition,
			Lighting:       pair.QAChecklist.Lighting,
			OneChange:      pair.QAChecklist.OneChange,
			Duration:       pair.QAChecklist.Duration,
			Resolution:     pair.QAChecklist.Resolution,
			Naming:         pair.QAChecklist.Naming,
		},
		DriveFolder:  pair.DriveFolder,
		ClientFolder: pair.ClientFolder,
		Delivered:    pair.Delivered,
		DueDate:      pair.DueDate,
	}
	if pair.Assignee != "" {
		assignee := pair.Assignee
		dto.AssignedVA = &assignee
	}
	if !pair.CreatedAt.IsZero() {
		dto.CreatedAt = pair.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !pair.UpdatedAt.IsZero() {
		dto.UpdatedAt = pair.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromPairs converts a slice of board records into API DTOs.
func FromPairs(pairs []*board.Pair) []Pair {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]Pair, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, FromPair(pair))
	}
	return out
}

// FromHistory converts audited transitions into API DTOs.
func FromHistory(entries []store.HistoryEntry) []HistoryEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		dto := HistoryEntry{
			OldStage:  string(entry.OldStage),
			NewStage:  string(entry.NewStage),
			ChangedBy: entry.ChangedBy,
		}
		if !entry.ChangedAt.IsZero() {
			dto.ChangedAt = entry.ChangedAt.UTC().Format(dateTimeFormat)
		}
		out = append(out, dto)
	}
	return out
}

// FromDeliveryResult converts a delivery outcome into its API payload.
func FromDeliveryResult(result *delivery.Result) DeliveryResult {
	if result == nil {
		return DeliveryResult{}
	}
	return DeliveryResult{
		Success:     true,
		PairNumber:  result.PairNumber,
		FolderName:  result.FolderName,
		FilesCopied: result.Copied,
		Destination: result.Destination,
	}
}

// MergeStageStats normalizes stage counts onto string keys, including
// zero-count stages so consumers see every column.
func MergeStageStats(stats map[board.Stage]int) map[string]int {
	out := make(map[string]int, len(board.AllStages()))
	for _, stage := range board.AllStages() {
		out[string(stage)] = stats[stage]
	}
	return out
}
