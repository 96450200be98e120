package eval

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimcheck/internal/model"
)

func TestReadDataset(t *testing.T) {
	input := `{"id": 1, "claim": "Marie Curie won two Nobel Prizes", "expected_label": "True"}

# comment line
{"id": "b-2", "claim": "The Eiffel Tower is in Rome", "expected_label": "false"}
{"claim": "Water boils at 100 C at sea level", "expected_label": "TRUE"}
`
	rows, err := ReadDataset(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, RowID("1"), rows[0].ID)
	assert.Equal(t, model.LabelTrue, rows[0].ExpectedLabel)
	assert.Equal(t, RowID("b-2"), rows[1].ID)
	assert.Equal(t, model.LabelFalse, rows[1].ExpectedLabel)
	assert.Equal(t, RowID("3"), rows[2].ID, "missing id falls back to the row position")
	assert.Equal(t, model.LabelTrue, rows[2].ExpectedLabel)
}

func TestReadDataset_InvalidLine(t *testing.T) {
	_, err := ReadDataset(strings.NewReader("{\"id\": 1, \"claim\": \"ok claim\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadDataset_EmptyClaim(t *testing.T) {
	_, err := ReadDataset(strings.NewReader(`{"id": 1, "claim": "  ", "expected_label": "True"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty claim")
}

func TestReadDataset_BadID(t *testing.T) {
	_, err := ReadDataset(strings.NewReader(`{"id": [1], "claim": "x is y", "expected_label": "True"}`))
	require.Error(t, err)
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": 7, "claim": "Paris is in France", "expected_label": "True"}`+"\n"), 0o644))

	rows, err := LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, RowID("7"), rows[0].ID)

	_, err = LoadDataset(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}
