package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadocs/invoice-tabulator/internal/common"
	"github.com/pharmadocs/invoice-tabulator/internal/extract"
	"github.com/pharmadocs/invoice-tabulator/internal/fallback"
	"github.com/pharmadocs/invoice-tabulator/internal/llm"
	"github.com/pharmadocs/invoice-tabulator/internal/supplier"
)

// stubTexts reads text files directly and fails on demand, standing in for
// the OCR extractor.
type stubTexts struct {
	failOn string
}

func (s *stubTexts) ExtractText(_ context.Context, path string) (extract.TextResult, error) {
	if s.failOn != "" && filepath.Base(path) == s.failOn {
		return extract.TextResult{}, errors.New("unreadable file")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return extract.TextResult{}, err
	}
	return extract.TextResult{Text: string(b), Pages: 1}, nil
}

// downService forces every extraction onto the fallback parser.
type downService struct{}

func (downService) ExtractTable(context.Context, llm.ExtractRequest) (string, error) {
	return "", errors.New("service unavailable")
}

func newTestAggregator(failOn string) *Aggregator {
	orch := extract.NewOrchestrator(
		supplier.NewRegistry(),
		supplier.NewClassifier(nil),
		downService{},
		fallback.NewParser(fallback.DefaultConfig(), nil),
		extract.Config{FallbackEnabled: true},
		nil,
	)
	return NewAggregator(&stubTexts{failOn: failOn}, orch, nil)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "first invoice text")
	writeFile(t, dir, "b.txt", "second invoice text")
	writeFile(t, dir, "c.txt", "third invoice text")
	writeFile(t, dir, "notes.md", "not an invoice")

	a := newTestAggregator("b.txt")

	groups, err := a.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	merged, ok := groups[filepath.Base(dir)]
	require.True(t, ok)

	// b.txt failed and was skipped; notes.md is not a supported format.
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, "a.txt", merged.Get(0, "source_file"))
	assert.Equal(t, "c.txt", merged.Get(1, "source_file"))
	assert.True(t, merged.HasColumn(extract.SupplierColumn))
}

func TestProcessDirectoryNoUsableFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "only.txt", "whatever")

	a := newTestAggregator("only.txt")

	groups, err := a.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestProcessDirectoryMissing(t *testing.T) {
	a := newTestAggregator("")

	_, err := a.ProcessDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProcessDirectoryNotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file.txt", "content")

	a := newTestAggregator("")

	_, err := a.ProcessDirectory(context.Background(), filepath.Join(dir, "file.txt"))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestProcessTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "march", "week1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "april"), 0o755))

	writeFile(t, filepath.Join(root, "march"), "inv1.txt", "march invoice one")
	writeFile(t, filepath.Join(root, "march", "week1"), "inv2.txt", "march invoice two")
	writeFile(t, filepath.Join(root, "april"), "inv3.txt", "april invoice")
	writeFile(t, root, "loose.txt", "loose invoice")

	a := newTestAggregator("")

	groups, err := a.ProcessTree(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	march := groups["march"]
	require.NotNil(t, march)
	require.Equal(t, 2, march.Len())
	assert.Equal(t, "inv1.txt", march.Get(0, "source_file"))
	assert.Equal(t, filepath.Join("week1", "inv2.txt"), march.Get(1, "source_file"))

	require.NotNil(t, groups["april"])
	assert.Equal(t, 1, groups["april"].Len())

	loose := groups[filepath.Base(root)]
	require.NotNil(t, loose)
	assert.Equal(t, "loose.txt", loose.Get(0, "source_file"))
}

func TestProcessFileUsesFilenameHint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "iskus invoice march.txt", "some invoice body")

	a := newTestAggregator("")

	out, err := a.ProcessFile(context.Background(), filepath.Join(dir, "iskus invoice march.txt"))
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, supplier.Iskus, out.Get(0, extract.SupplierColumn))
}
