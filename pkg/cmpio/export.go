package cmpio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rankforge/pkg/rank"
)

// RankingDoc is the serialized form of a ranking result.
// This format is shared by file export and the HTTP API.
type RankingDoc struct {
	RunID         string    `json:"run_id,omitempty"`
	Ranks         []float64 `json:"ranks"`
	Cost          float64   `json:"cost"`
	ProvenOptimal bool      `json:"proven_optimal"`
	Flipped       [][2]int  `json:"flipped,omitempty"`
}

// NewRankingDoc converts a ranking into its serializable form.
func NewRankingDoc(r *rank.Ranking, runID string) RankingDoc {
	return RankingDoc{
		RunID:         runID,
		Ranks:         r.Ranks,
		Cost:          r.Cost,
		ProvenOptimal: r.ProvenOptimal,
		Flipped:       r.Flipped,
	}
}

// WriteRanking encodes a ranking document as indented JSON to w.
func WriteRanking(doc RankingDoc, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportRanking writes a ranking document to a JSON file at path.
// This is a convenience wrapper around [WriteRanking] for file-based output.
func ExportRanking(doc RankingDoc, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteRanking(doc, f)
}
