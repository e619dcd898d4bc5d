package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Acme Associates", "acme_associates"},
		{"  Acme  Associates  ", "acme_associates"},
		{"Acme & Associates, Ltd.", "acme_associates_ltd"},
		{"ACME-ASSOCIATES", "acme_associates"},
		{"acme_associates", "acme_associates"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), "in %q", tt.in)
	}
}

func TestEmbeddedRegistry(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	v, err := r.Lookup("acme_associates")
	require.NoError(t, err)
	assert.Equal(t, "Acme Associates", v.DisplayName)
	assert.Equal(t, "acme_associates", v.Layout)
	assert.NotEmpty(t, v.Template)
}

func TestLookupUnknownVendor(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	_, err = r.Lookup("globex")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVendorNotFound)
	assert.Contains(t, err.Error(), "acme_associates")
}

func TestFindByNameExact(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	v, ok := r.FindByName("Acme Associates")
	require.True(t, ok)
	assert.Equal(t, "acme_associates", v.Key)
}

func TestFindByNameFuzzy(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	// single-glyph OCR substitution still resolves
	v, ok := r.FindByName("Acne Associates")
	require.True(t, ok)
	assert.Equal(t, "acme_associates", v.Key)

	_, ok = r.FindByName("Globex Corporation")
	assert.False(t, ok)
}

func TestLoadFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.json")
	data := `{"vendors":[{"key":"Globex Corp","display_name":"Globex Corp","template":"t.pdf","layout":"globex"}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	r, err := LoadFile(path)
	require.NoError(t, err)

	v, err := r.Lookup("globex_corp")
	require.NoError(t, err)
	assert.Equal(t, "Globex Corp", v.DisplayName)

	_, err = r.Lookup("acme_associates")
	assert.ErrorIs(t, err, ErrVendorNotFound)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/vendors.json")
	assert.Error(t, err)
}

func TestLoadFileEmptyFallsBackToEmbedded(t *testing.T) {
	r, err := LoadFile("")
	require.NoError(t, err)
	_, err = r.Lookup("acme_associates")
	assert.NoError(t, err)
}
