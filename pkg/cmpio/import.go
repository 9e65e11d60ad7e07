// Package cmpio reads comparison sets from files and writes ranking results.
//
// Comparisons are accepted in JSON or TOML; rankings are exported as JSON.
// All validation is delegated to [relation.Set], so both formats reject the
// same malformed inputs with the same structured errors.
package cmpio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rankforge/pkg/errors"
	"github.com/matzehuels/rankforge/pkg/relation"
)

type comparisonDoc struct {
	Comparisons []comparisonEntry `json:"comparisons" toml:"comparison"`
}

type comparisonEntry struct {
	I     int     `json:"i" toml:"i"`
	J     int     `json:"j" toml:"j"`
	Value float64 `json:"value" toml:"value"`
}

// ReadJSON decodes a JSON comparison document from r into a validated Set.
//
// The input must be a JSON object with a "comparisons" array:
//
//	{
//	  "comparisons": [
//	    {"i": 0, "j": 2, "value": 0.0},
//	    {"i": 1, "j": 2, "value": 1.0}
//	  ]
//	}
//
// ReadJSON returns an error if the JSON is malformed or any comparison fails
// validation (equal items, value outside [0,1], duplicate unordered pair).
// Errors name the offending pair; use errors.Is with pkg/errors codes to
// check for specific failures. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*relation.Set, error) {
	var doc comparisonDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON comparisons")
	}
	return buildSet(doc)
}

// ReadTOML decodes a TOML comparison document from r into a validated Set.
//
// The input uses one [[comparison]] table per pair:
//
//	[[comparison]]
//	i = 0
//	j = 2
//	value = 0.0
func ReadTOML(r io.Reader) (*relation.Set, error) {
	var doc comparisonDoc
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML comparisons")
	}
	return buildSet(doc)
}

// ImportFile reads a comparison file, dispatching on the file extension:
// .json and .toml are supported.
func ImportFile(path string) (*relation.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(f)
	case ".toml":
		return ReadTOML(f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported comparison file extension %q (use .json or .toml)", filepath.Ext(path))
	}
}

func buildSet(doc comparisonDoc) (*relation.Set, error) {
	set := relation.NewSet()
	for _, c := range doc.Comparisons {
		if err := set.Add(c.I, c.J, c.Value); err != nil {
			return nil, err
		}
	}
	return set, nil
}
