package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"a.txt", "b.MD", "c.html", "d.htm", "e.pdf", "f.xlsx"} {
		assert.True(t, Supported(name), name)
	}
	for _, name := range []string{"a.docx", "b.csv", "noext"} {
		assert.False(t, Supported(name), name)
	}
}

func TestReadFile_Unsupported(t *testing.T) {
	_, err := ReadFile("report.docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadFile_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "note.md", "# AAPL\nServices revenue grew.")
	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# AAPL\nServices revenue grew.", text)
}

func TestReadFile_HTML(t *testing.T) {
	page := `<html><head><title>Q3</title><style>p{color:red}</style></head>
<body><p>MSFT beat <b>estimates</b>.</p><script>var x = 1;</script></body></html>`
	path := writeFile(t, t.TempDir(), "q3.html", page)

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, text, "MSFT beat")
	assert.Contains(t, text, "estimates")
	assert.Contains(t, text, "Q3")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "var x")
}

func TestReadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Ticker"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Close"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "NVDA"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "118.5"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ticker Close\nNVDA 118.5\n", text)
}

func TestReadFile_InvalidPDF(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.pdf", "not a pdf")
	_, err := ReadFile(path)
	assert.Error(t, err)
}
