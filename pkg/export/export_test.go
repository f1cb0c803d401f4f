package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterQuoting(t *testing.T) {
	data := Dataset{
		Headers: []string{"student_id", "remark"},
		Rows: [][]string{
			{"2024001", `said "hi"`},
			{"2024002", "a,b"},
			{"2024003", "line1\nline2"},
		},
	}

	out, err := NewCSVExporter(WithCRLF()).Render(data)
	require.NoError(t, err)
	assert.Equal(t, "student_id,remark\r\n2024001,\"said \"\"hi\"\"\"\r\n2024002,\"a,b\"\r\n2024003,\"line1\r\nline2\"\r\n", string(out))
}

func TestCSVExporterBOM(t *testing.T) {
	out, err := NewCSVExporter(WithBOM()).Render(Dataset{Headers: []string{"a"}, Rows: [][]string{{"1"}}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte(BOM)))
	assert.Equal(t, BOM+"a\n1\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{Headers: []string{"a", "b"}, Rows: [][]string{{"1"}}})
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporter(t *testing.T) {
	out, err := NewPDFExporter("").Render(Dataset{
		Headers: []string{"student_id", "name", "class"},
		Rows:    [][]string{{"2024001", "Li", "C1"}},
	}, "students")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
