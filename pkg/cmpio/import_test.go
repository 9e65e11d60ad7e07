package cmpio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/rankforge/pkg/errors"
)

const jsonDoc = `{
  "comparisons": [
    {"i": 0, "j": 2, "value": 0.0},
    {"i": 1, "j": 2, "value": 1.0}
  ]
}`

const tomlDoc = `
[[comparison]]
i = 0
j = 2
value = 0.0

[[comparison]]
i = 1
j = 2
value = 1.0
`

func TestReadJSON(t *testing.T) {
	set, err := ReadJSON(strings.NewReader(jsonDoc))
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
	if set.ItemCount() != 3 {
		t.Errorf("ItemCount() = %d, want 3", set.ItemCount())
	}
}

func TestReadTOML(t *testing.T) {
	set, err := ReadTOML(strings.NewReader(tomlDoc))
	if err != nil {
		t.Fatalf("ReadTOML failed: %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
}

func TestFormatsAgree(t *testing.T) {
	fromJSON, err := ReadJSON(strings.NewReader(jsonDoc))
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	fromTOML, err := ReadTOML(strings.NewReader(tomlDoc))
	if err != nil {
		t.Fatalf("ReadTOML failed: %v", err)
	}

	jc, tc := fromJSON.Comparisons(), fromTOML.Comparisons()
	if len(jc) != len(tc) {
		t.Fatalf("comparison counts differ: %d vs %d", len(jc), len(tc))
	}
	for i := range jc {
		if jc[i] != tc[i] {
			t.Errorf("comparison %d differs: %+v vs %+v", i, jc[i], tc[i])
		}
	}
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"comparisons": [`))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestReadJSONInvalidComparison(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantCode errors.Code
	}{
		{
			"same item",
			`{"comparisons": [{"i": 1, "j": 1, "value": 0.5}]}`,
			errors.ErrCodeInvalidComparison,
		},
		{
			"value out of range",
			`{"comparisons": [{"i": 0, "j": 1, "value": 2.0}]}`,
			errors.ErrCodeInvalidValue,
		},
		{
			"duplicate pair",
			`{"comparisons": [{"i": 0, "j": 1, "value": 0.2}, {"i": 1, "j": 0, "value": 0.3}]}`,
			errors.ErrCodeDuplicatePair,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("err = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "comparisons.json")
	if err := os.WriteFile(jsonPath, []byte(jsonDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	tomlPath := filepath.Join(dir, "comparisons.toml")
	if err := os.WriteFile(tomlPath, []byte(tomlDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	for _, path := range []string{jsonPath, tomlPath} {
		set, err := ImportFile(path)
		if err != nil {
			t.Errorf("ImportFile(%s) failed: %v", path, err)
			continue
		}
		if set.Len() != 2 {
			t.Errorf("ImportFile(%s): Len() = %d, want 2", path, set.Len())
		}
	}
}

func TestImportFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comparisons.yaml")
	if err := os.WriteFile(path, []byte("comparisons: []"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := ImportFile(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestImportFileMissing(t *testing.T) {
	if _, err := ImportFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("ImportFile succeeded for a missing file")
	}
}
