package catalog

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodworks-dev/catagen"
	"github.com/foodworks-dev/catagen/internal/pptxtest"
	"github.com/foodworks-dev/catagen/internal/records"
)

type stubSource struct {
	recs  []records.Record
	label string
	err   error
}

func (s stubSource) Load(string) ([]records.Record, string, error) {
	return s.recs, s.label, s.err
}

func stubRecords(n int) []records.Record {
	recs := make([]records.Record, n)
	for i := range recs {
		recs[i] = records.Record{
			ID: fmt.Sprintf("P_%03d_HAK_%03d", i+1, i+1),
			Fields: map[string]any{
				"name":        fmt.Sprintf("商品%d", i+1),
				"capacity":    "500ml",
				"unit":        "本",
				"moq":         "12",
				"storage":     "常温",
				"expiry":      "180日",
				"price":       "480",
				"msrp":        "700",
				"description": "テスト商品",
			},
		}
	}
	return recs
}

func TestPaginate(t *testing.T) {
	pages := paginate(stubRecords(5), 2)
	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 2)
	assert.Len(t, pages[1], 2)
	assert.Len(t, pages[2], 1)
	assert.Equal(t, "P_005_HAK_005", pages[2][0].ID)
}

func TestBuildReplacementsTotality(t *testing.T) {
	repl, err := buildReplacements(stubRecords(1), "函館食品", 2)
	require.NoError(t, err)

	assert.Equal(t, "函館食品", repl[TokenSupplier])
	assert.Equal(t, "商品1", repl[Token(FieldName, 1)])
	assert.Equal(t, "¥480", repl[Token(FieldPrice, 1)])
	assert.Equal(t, "¥700（税込）", repl[Token(FieldMSRP, 1)])

	// Slot 2 is unfilled: every text class and the image token blank out.
	for _, class := range textClasses {
		v, ok := repl[Token(class, 2)]
		assert.True(t, ok, "missing blank-out for class %s", class)
		assert.Empty(t, v)
	}
	blank, ok := repl[ImageToken(2)]
	assert.True(t, ok)
	assert.Empty(t, blank)

	// Filled slots keep their image token for the placement pass.
	_, ok = repl[ImageToken(1)]
	assert.False(t, ok)
}

func TestBuildReplacementsDefaults(t *testing.T) {
	page := []records.Record{{ID: "P_001_HAK_001", Fields: map[string]any{"name": "商品"}}}
	repl, err := buildReplacements(page, "label", 1)
	require.NoError(t, err)

	assert.Equal(t, records.DefaultMarker, repl[Token(FieldPrice, 1)])
	assert.Equal(t, records.DefaultMarker, repl[Token(FieldMSRP, 1)])
	assert.Equal(t, records.DefaultMarker, repl[Token(FieldCapacity, 1)])
	assert.Equal(t, "", repl[Token(FieldDescription, 1)], "description defaults to empty, not the marker")
}

func TestBuildReplacementsFormatError(t *testing.T) {
	page := []records.Record{{ID: "P_001_HAK_001", Fields: map[string]any{"name": "n", "price": "応相談"}}}
	_, err := buildReplacements(page, "label", 1)

	var formatErr *records.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "price", formatErr.Field)
	assert.Equal(t, "P_001_HAK_001", formatErr.RecordID)
}

func TestGenerateFiveRecordsThreePages(t *testing.T) {
	dir := t.TempDir()
	gen := &Generator{
		Source:       stubSource{recs: stubRecords(5), label: "函館食品"},
		TemplatePath: pptxtest.Write(t, dir),
		ImageDir:     filepath.Join(dir, "images"),
		OutputDir:    filepath.Join(dir, "out"),
		Prefix:       "カタログ",
		Capacity:     2,
		now:          func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) },
	}

	res, err := gen.Generate("HAK")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Records)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, "函館食品", res.Label)
	assert.Equal(t, filepath.Join(dir, "out", "カタログ_函館食品_20260829.pptx"), res.OutputPath)

	zr, err := zip.OpenReader(res.OutputPath)
	require.NoError(t, err)
	defer zr.Close()

	slideCount := 0
	var slide3 string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slideCount++
		}
		if f.Name == "ppt/slides/slide3.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			rc.Close()
			require.NoError(t, err)
			slide3 = string(data)
		}
	}
	assert.Equal(t, 3, slideCount)
	require.NotEmpty(t, slide3, "third page missing")
	assert.NotContains(t, slide3, "{{", "page 3 must have no unresolved tokens")
	assert.Contains(t, slide3, "商品5")
	assert.Contains(t, slide3, catagen.NoImageText, "missing picture must fall back to text")
}

func TestGenerateEmptyGroup(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	gen := &Generator{
		Source:       stubSource{label: "函館食品"},
		TemplatePath: pptxtest.Write(t, dir),
		ImageDir:     dir,
		OutputDir:    outDir,
		Prefix:       "カタログ",
		Capacity:     2,
	}

	res, err := gen.Generate("HAK")
	require.NoError(t, err, "an empty group is not an error")
	assert.True(t, res.Empty())

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "nothing should be written for an empty group")
}

func TestGenerateEmbedsPictures(t *testing.T) {
	dir := t.TempDir()
	imgDir := filepath.Join(dir, "images", "HAK")
	require.NoError(t, os.MkdirAll(imgDir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(imgDir, "P_001_HAK_001.png"), pptxtest.PNG(), 0644))

	gen := &Generator{
		Source:       stubSource{recs: stubRecords(1), label: "函館食品"},
		TemplatePath: pptxtest.Write(t, dir),
		ImageDir:     filepath.Join(dir, "images"),
		OutputDir:    filepath.Join(dir, "out"),
		Prefix:       "カタログ",
		Capacity:     2,
	}

	res, err := gen.Generate("HAK")
	require.NoError(t, err)

	zr, err := zip.OpenReader(res.OutputPath)
	require.NoError(t, err)
	defer zr.Close()

	found := false
	for _, f := range zr.File {
		if f.Name == "ppt/media/image1.png" {
			found = true
		}
	}
	assert.True(t, found, "product picture must be embedded as a media part")
}

func TestGenerateBadTemplate(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.pptx")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0644))

	gen := &Generator{
		Source:       stubSource{recs: stubRecords(1), label: "x"},
		TemplatePath: bad,
		OutputDir:    dir,
		Prefix:       "カタログ",
		Capacity:     2,
	}
	_, err := gen.Generate("HAK")

	var tplErr *catagen.TemplateError
	require.ErrorAs(t, err, &tplErr)
}
