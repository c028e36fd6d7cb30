package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"Fluidcalc/internal/calc/pipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	header := Columns
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var sample = [][]any{
	{"water", 25, 1, 100, 4, "40", "steel"},
	{"water", "hot", 1, 100, 4, "40", "steel"},
	{},
	{"ethanol", 20, 0.5, 10, 2, "999", "steel"},
	{"air", 25, 0.1, 50, 2, "40"},
	{"water", 25, 1, 100, 4, "40", "steel", "haaland"},
}

func TestRun(t *testing.T) {
	b, err := Run(pipe.DefaultServices(), workbook(t, sample))
	require.NoError(t, err)

	require.Equal(t, 5, b.Count)
	assert.Equal(t, 3, b.Failed)

	first := b.Rows[0]
	assert.Equal(t, 2, first.Row)
	require.NotNil(t, first.Result)
	assert.Empty(t, first.Error)
	assert.InDelta(t, 102.3, first.Result.InnerDiameterMM, 0.05)

	assert.Contains(t, b.Rows[1].Error, "temperature_c")
	assert.Nil(t, b.Rows[1].Result)

	assert.Equal(t, 5, b.Rows[2].Row)
	assert.Contains(t, b.Rows[2].Error, "unknown schedule")
	assert.NotNil(t, b.Rows[2].Input)

	assert.Contains(t, b.Rows[3].Error, "expected 7 columns")

	last := b.Rows[4]
	require.NotNil(t, last.Result)
	assert.NotEqual(t, first.Result.FrictionFactor, last.Result.FrictionFactor)
}

func TestRunRejectsEmptySheet(t *testing.T) {
	_, err := Run(pipe.DefaultServices(), workbook(t, nil))
	assert.Error(t, err)

	_, err = Run(pipe.DefaultServices(), bytes.NewBufferString("not a workbook"))
	assert.Error(t, err)
}

func upload(t *testing.T, target string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "cases.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandlerJSON(t *testing.T) {
	h := &Handler{}
	w := httptest.NewRecorder()
	h.Pipe(w, upload(t, "/api/tools/pipe/import", workbook(t, sample).Bytes()))

	require.Equal(t, http.StatusOK, w.Code)
	var b Batch
	require.NoError(t, json.NewDecoder(w.Body).Decode(&b))
	assert.Equal(t, 5, b.Count)
	assert.Equal(t, 3, b.Failed)
}

func TestHandlerWorkbook(t *testing.T) {
	h := &Handler{}
	w := httptest.NewRecorder()
	h.Pipe(w, upload(t, "/api/tools/pipe/import?format=xlsx", workbook(t, sample).Bytes()))
	require.Equal(t, http.StatusOK, w.Code)

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "pressure_drop_pa", rows[0][9])
	assert.Equal(t, "turbulent", rows[1][14])
}

func TestHandlerRequiresFile(t *testing.T) {
	h := &Handler{}
	w := httptest.NewRecorder()
	h.Pipe(w, httptest.NewRequest(http.MethodPost, "/api/tools/pipe/import", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
