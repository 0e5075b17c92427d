package tabular

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_WithBOMAndQuotes(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Application ID,Status,Comment\r\napp-1,yes,\"great, thanks\"\r\n\r\napp-2,no,\r\n")...)

	rows, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "app-1", rows[0]["Application ID"])
	assert.Equal(t, "great, thanks", rows[0]["Comment"])
	assert.Equal(t, "no", rows[1]["Status"])
	assert.Equal(t, "", rows[1]["Comment"])
}

func TestParseCSV_SemicolonDelimiter(t *testing.T) {
	rows, err := ParseCSV([]byte("email;campaign;status\na@b.c;c1;approve\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a@b.c", rows[0]["email"])
	assert.Equal(t, "approve", rows[0]["status"])
}

// Незакрытая кавычка ломает encoding/csv, построчный разбор дает ту же форму строк
func TestParseCSV_FallbackOnBrokenQuotes(t *testing.T) {
	rows, err := ParseCSV([]byte("applicationId,status\n\"app-1,yes\napp-2,no\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "app-2", rows[1]["applicationId"])
	assert.Equal(t, "no", rows[1]["status"])
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV([]byte("  \n"))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParseJSONRows(t *testing.T) {
	batch, err := ParseJSONRows([]byte(`[{"applicationId":"a1","status":true,"amount":50}]`))
	require.NoError(t, err)
	require.Len(t, batch.Rows, 1)
	assert.Equal(t, "true", batch.Rows[0]["status"])
	assert.Equal(t, "50", batch.Rows[0]["amount"])

	batch, err = ParseJSONRows([]byte(`{"campaignId":"c1","rows":[{"email":"x@y.z","status":"yes"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "c1", batch.CampaignID)
	assert.Equal(t, "x@y.z", batch.Rows[0]["email"])
}

func TestWriteCSV_BOMAndCRLF(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCSV(&buf, []string{"a", "b"}, [][]string{{"1", "x,y"}})
	require.NoError(t, err)

	assert.Equal(t, "\xEF\xBB\xBFa,b\r\n1,\"x,y\"\r\n", buf.String())
}
