package inventory

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Lixing-Zhang/vending-machine/internal/models"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "Soda": {"price": 1.50, "quantity": 5},
  "Chips": {"price": 1.25, "quantity": 0},
  "Broken": {"price": 1.00}
}`

const sampleYAML = `
Soda:
  price: 1.50
  quantity: 5
Chips:
  price: 1.25
  quantity: 0
Broken:
  price: 1.00
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0644))
	return p
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func newTestLoader() *Loader {
	return NewLoader(5*time.Second, nil)
}

func assertSampleCatalog(t *testing.T, catalog models.Catalog) {
	t.Helper()
	require.Len(t, catalog, 2)
	assert.True(t, catalog[models.Soda].Price.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, catalog[models.Soda].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, catalog[models.Chips].Quantity.IsZero())
}

func TestLoader_Formats(t *testing.T) {
	tests := []struct {
		name string
		file string
		data func(t *testing.T) []byte
	}{
		{"json", "inventory.json", func(t *testing.T) []byte { return []byte(sampleJSON) }},
		{"yaml", "inventory.yaml", func(t *testing.T) []byte { return []byte(sampleYAML) }},
		{"yml", "inventory.yml", func(t *testing.T) []byte { return []byte(sampleYAML) }},
		{"no extension", "inventory", func(t *testing.T) []byte { return []byte(sampleJSON) }},
		{"gzip json", "inventory.json.gz", func(t *testing.T) []byte { return gzipBytes(t, []byte(sampleJSON)) }},
		{"zstd yaml", "inventory.yaml.zst", func(t *testing.T) []byte { return zstdBytes(t, []byte(sampleYAML)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, tt.file, tt.data(t))

			catalog, err := LoadCatalog(context.Background(), newTestLoader(), p)
			require.NoError(t, err)
			assertSampleCatalog(t, catalog)
		})
	}
}

func TestLoader_Default(t *testing.T) {
	catalog, err := LoadCatalog(context.Background(), newTestLoader(), "")
	require.NoError(t, err)

	assert.Len(t, catalog, len(models.Selections()))
	for _, sel := range models.Selections() {
		item, ok := catalog[sel]
		require.True(t, ok, "default inventory missing %s", sel)
		assert.True(t, item.Price.IsPositive(), "%s has no price", sel)
	}
}

func TestLoader_InvalidResource(t *testing.T) {
	_, err := newTestLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrInvalidResource)
}

func TestLoader_ConversionError(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"bad json", "inventory.json", []byte(`{"Soda": `)},
		{"json array", "inventory.json", []byte(`[{"price": 1, "quantity": 1}]`)},
		{"json scalar", "inventory.json", []byte(`"Soda"`)},
		{"bad yaml", "inventory.yaml", []byte("Soda: [unterminated")},
		{"yaml scalar", "inventory.yaml", []byte("just text")},
		{"empty yaml", "inventory.yaml", []byte("")},
		{"corrupt gzip", "inventory.json.gz", []byte("not gzip")},
		{"corrupt zstd", "inventory.json.zst", []byte("not zstd")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, tt.file, tt.data)
			_, err := newTestLoader().Load(context.Background(), p)
			assert.ErrorIs(t, err, ErrConversion)
		})
	}
}

func TestLoadCatalog_InvalidKey(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown selection", `{"Pretzel": {"price": 1, "quantity": 1}}`},
		{"empty key", `{"": {"price": 1, "quantity": 1}}`},
		{"negative price under unknown key", `{"Pretzel": {"price": -1, "quantity": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, "inventory.json", []byte(tt.data))

			_, err := LoadCatalog(context.Background(), newTestLoader(), p)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestLoadCatalog_EmptyKeyWithMalformedEntryIsSkipped(t *testing.T) {
	p := writeFile(t, "inventory.json", []byte(`{"": {"price": 1}, "Soda": {"price": 1.5, "quantity": 5}}`))

	catalog, err := LoadCatalog(context.Background(), newTestLoader(), p)
	require.NoError(t, err)
	assert.Len(t, catalog, 1)
}

func TestLoadCatalog_NonFiniteYAML(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"nan price", "Soda:\n  price: .nan\n  quantity: 1\nChips:\n  price: 1.25\n  quantity: 2\n"},
		{"inf quantity", "Soda:\n  price: 1.5\n  quantity: .inf\nChips:\n  price: 1.25\n  quantity: 2\n"},
		{"negative inf price", "Soda:\n  price: -.inf\n  quantity: 1\nChips:\n  price: 1.25\n  quantity: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, "inventory.yaml", []byte(tt.data))

			catalog, err := LoadCatalog(context.Background(), newTestLoader(), p)
			require.NoError(t, err)
			assert.Len(t, catalog, 1)
			assert.Contains(t, catalog, models.Chips)
		})
	}
}

func TestLoadCatalog_OversizedNumber(t *testing.T) {
	p := writeFile(t, "inventory.json", []byte(`{"Pretzel": {"price": 1e99999999999, "quantity": 1}}`))

	_, err := LoadCatalog(context.Background(), newTestLoader(), p)
	assert.ErrorIs(t, err, ErrConversion)
}

func TestLoader_URL(t *testing.T) {
	compressed := gzipBytes(t, []byte(sampleJSON))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inventory.json":
			_, _ = w.Write([]byte(sampleJSON))
		case "/inventory.json.gz":
			_, _ = w.Write(compressed)
		case "/broken.json":
			_, _ = w.Write([]byte("{"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	loader := newTestLoader()
	ctx := context.Background()

	t.Run("plain", func(t *testing.T) {
		catalog, err := LoadCatalog(ctx, loader, server.URL+"/inventory.json")
		require.NoError(t, err)
		assertSampleCatalog(t, catalog)
	})

	t.Run("gzip", func(t *testing.T) {
		catalog, err := LoadCatalog(ctx, loader, server.URL+"/inventory.json.gz")
		require.NoError(t, err)
		assertSampleCatalog(t, catalog)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := loader.Load(ctx, server.URL+"/missing.json")
		assert.ErrorIs(t, err, ErrInvalidResource)
	})

	t.Run("unparseable", func(t *testing.T) {
		_, err := loader.Load(ctx, server.URL+"/broken.json")
		assert.ErrorIs(t, err, ErrConversion)
	})

	t.Run("cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := loader.Load(cancelled, server.URL+"/inventory.json")
		assert.ErrorIs(t, err, ErrInvalidResource)
	})
}
