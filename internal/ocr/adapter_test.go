package ocr

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	calls   []Config
	fail    map[PageSegMode]bool
	failAll bool
	closed  bool
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ image.Image, cfg Config) (string, error) {
	f.calls = append(f.calls, cfg)
	if f.failAll || f.fail[cfg.Mode] {
		return "", errors.New("recognition failed")
	}
	return "pass", nil
}

func (f *fakeRecognizer) Close() error {
	f.closed = true
	return nil
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 600, 300))
}

func TestConsolidatedTextRunsAllPasses(t *testing.T) {
	rec := &fakeRecognizer{}
	a := NewAdapter(rec, WithMinWidth(100))

	text, err := a.ConsolidatedText(context.Background(), testImage())
	require.NoError(t, err)

	// three segmentation modes over raw and preprocessed variants
	assert.Len(t, rec.calls, 6)
	assert.Equal(t, "pass\npass\npass\npass\npass\npass", text)

	modes := map[PageSegMode]int{}
	for _, c := range rec.calls {
		modes[c.Mode]++
	}
	assert.Equal(t, 2, modes[PSMAuto])
	assert.Equal(t, 2, modes[PSMSingleColumn])
	assert.Equal(t, 2, modes[PSMSingleBlock])
}

func TestConsolidatedTextToleratesPassFailures(t *testing.T) {
	rec := &fakeRecognizer{fail: map[PageSegMode]bool{PSMAuto: true}}
	a := NewAdapter(rec, WithMinWidth(100))

	text, err := a.ConsolidatedText(context.Background(), testImage())
	require.NoError(t, err)
	assert.Equal(t, "pass\npass\npass\npass", text)
}

func TestConsolidatedTextAllPassesFail(t *testing.T) {
	rec := &fakeRecognizer{failAll: true}
	a := NewAdapter(rec, WithMinWidth(100))

	_, err := a.ConsolidatedText(context.Background(), testImage())
	require.Error(t, err)

	var recErr *RecognitionError
	assert.ErrorAs(t, err, &recErr)
}

func TestConsolidatedTextPersistsDebugText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug", "ocr.txt")
	rec := &fakeRecognizer{}
	a := NewAdapter(rec, WithMinWidth(100), WithDebugTextPath(path))

	_, err := a.ConsolidatedText(context.Background(), testImage())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pass")
}

func TestHeaderRegionText(t *testing.T) {
	rec := &fakeRecognizer{}
	a := NewAdapter(rec)

	text, err := a.HeaderRegionText(context.Background(), testImage())
	require.NoError(t, err)
	assert.Equal(t, "pass", text)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, PSMSingleBlock, rec.calls[0].Mode)
}

func TestAdapterClose(t *testing.T) {
	rec := &fakeRecognizer{}
	a := NewAdapter(rec)

	require.NoError(t, a.Close())
	assert.True(t, rec.closed)
}

func TestLoadImageInvalid(t *testing.T) {
	a := NewAdapter(&fakeRecognizer{})

	_, err := a.LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}
