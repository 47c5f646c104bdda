// Package catalog carries the static seed catalog used to populate a fresh
// or version-mismatched board store.
package catalog

import (
	"encoding/json"
	"fmt"

	_ "embed"

	"pairtrack/internal/board"
)

//go:embed catalog.json
var catalogJSON []byte

type seedPair struct {
	PairNumber   int    `json:"pair_number"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
	DueDate      string `json:"due_date"`
}

// Load decodes the embedded catalog into fresh board pairs. Every seeded
// pair starts unassigned in the needs_assignment stage with its drive folder
// set to the conventional pair folder name.
func Load() ([]board.Pair, error) {
	var seeds []seedPair
	if err := json.Unmarshal(catalogJSON, &seeds); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	pairs := make([]board.Pair, 0, len(seeds))
	for _, seed := range seeds {
		pairType, ok := board.ParseType(seed.Type)
		if !ok {
			return nil, fmt.Errorf("seed pair %d: unknown type %q", seed.PairNumber, seed.Type)
		}
		if !board.ValidPairNumber(seed.PairNumber) {
			return nil, fmt.Errorf("seed pair number %d out of range", seed.PairNumber)
		}
		pairs = append(pairs, board.Pair{
			PairNumber:   seed.PairNumber,
			Type:         pairType,
			Description:  seed.Description,
			Instructions: seed.Instructions,
			DueDate:      seed.DueDate,
			Stage:        board.StageNeedsAssignment,
			DriveFolder:  board.PairFolderName(seed.PairNumber),
		})
	}
	return pairs, nil
}
