package inventory

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lixing-Zhang/vending-machine/internal/models"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// DefaultResource is the name of the inventory compiled into the binary
const DefaultResource = "VendingInventory.json"

//go:embed VendingInventory.json
var defaultInventory []byte

// recordSetSchema only constrains the envelope. Malformed entries are
// skipped by Decode rather than rejected here.
const recordSetSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object"
}`

var recordSet = jsonschema.MustCompileString("inventory.schema.json", recordSetSchema)

// Loader fetches raw inventory record sets from files, URLs or the
// embedded default
type Loader struct {
	client *http.Client
	log    *slog.Logger
}

// NewLoader creates a loader whose HTTP fetches time out after timeout
func NewLoader(timeout time.Duration, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Load fetches and parses the record set named by source.
//
// An empty source selects the embedded default. Sources starting with
// http:// or https:// are downloaded; anything else is read from disk.
// Missing resources yield ErrInvalidResource, unparseable ones ErrConversion.
func (l *Loader) Load(ctx context.Context, source string) (map[string]any, error) {
	var (
		name string
		raw  []byte
		err  error
	)

	switch {
	case source == "":
		name, raw = DefaultResource, defaultInventory
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		name, raw, err = l.fetchURL(ctx, source)
	default:
		name, raw, err = l.readFile(source)
	}
	if err != nil {
		return nil, err
	}

	records, err := parse(name, raw)
	if err != nil {
		return nil, err
	}

	l.log.Debug("inventory resource loaded", "source", name, "entries", len(records))
	return records, nil
}

// LoadCatalog fetches source and decodes it into a catalog
func LoadCatalog(ctx context.Context, l *Loader, source string) (models.Catalog, error) {
	records, err := l.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return Decode(records)
}

func (l *Loader) readFile(p string) (string, []byte, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("%w: %s", ErrInvalidResource, p)
		}
		return "", nil, fmt.Errorf("%w: read %s: %w", ErrInvalidResource, p, err)
	}
	return filepath.Base(p), raw, nil
}

func (l *Loader) fetchURL(ctx context.Context, rawURL string) (string, []byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %w", ErrInvalidResource, rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to create request: %w", ErrInvalidResource, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to download %s: %w", ErrInvalidResource, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("%w: %s: unexpected status code: %d", ErrInvalidResource, rawURL, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to read %s: %w", ErrInvalidResource, rawURL, err)
	}

	return path.Base(u.Path), raw, nil
}

// parse decompresses by the outer extension and decodes by the inner one
func parse(name string, raw []byte) (map[string]any, error) {
	var err error

	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		raw, err = gunzip(raw)
		name = strings.TrimSuffix(name, path.Ext(name))
	case ".zst":
		raw, err = unzstd(raw)
		name = strings.TrimSuffix(name, path.Ext(name))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s: %w", ErrConversion, name, err)
	}

	var doc any
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		err = dec.Decode(&doc)
	default:
		err = yaml.Unmarshal(raw, &doc)
		doc = normalize(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConversion, name, err)
	}

	if err := validateRecordSet(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConversion, name, err)
	}
	return doc.(map[string]any), nil
}

// validateRecordSet checks doc against the record set schema. The validator
// panics on Go types it cannot map to JSON, which is reported as an error.
func validateRecordSet(doc any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unsupported value: %v", r)
		}
	}()
	return recordSet.Validate(doc)
}

func gunzip(raw []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func unzstd(raw []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(raw, nil)
}

// normalize turns YAML mappings with non-string keys into string-keyed maps
// so nested records look the same as they do when decoded from JSON
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
