package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/clientmock/clientmock/pkg/matchers"
)

// fixtureFile is the on-disk shape of a mock fixture document.
type fixtureFile struct {
	Mocks []fixtureMock `yaml:"mocks"`
}

type fixtureMock struct {
	Method       string            `yaml:"method"`
	URL          string            `yaml:"url"`
	URLPattern   string            `yaml:"urlPattern"`
	Headers      map[string]string `yaml:"headers"`
	BodyEquals   *flexibleBody     `yaml:"bodyEquals"`
	BodyContains string            `yaml:"bodyContains"`
	BodyPattern  string            `yaml:"bodyPattern"`
	Response     fixtureResponse   `yaml:"response"`
}

type fixtureResponse struct {
	Status  int               `yaml:"status"`
	Headers map[string]string `yaml:"headers"`
	Body    flexibleBody      `yaml:"body"`
	DelayMs int               `yaml:"delayMs"`
}

// flexibleBody accepts either a scalar or a mapping/sequence node.
// Mappings and sequences are re-marshaled to a JSON string, so a
// fixture can write body: {id: 1} instead of body: '{"id": 1}'.
type flexibleBody struct {
	value string
}

func (b *flexibleBody) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		b.value = node.Value
		return nil
	}

	var obj any
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("cannot decode body node: %w", err)
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("cannot marshal body to JSON: %w", err)
	}
	b.value = string(data)
	return nil
}

// Load reads a YAML fixture document and registers each mock into the
// store, returning the registered entries in document order. Any
// invalid definition (missing method/url, bad pattern) aborts the
// whole load.
func Load(r io.Reader, store *Store) ([]*Entry, error) {
	var file fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("mock: cannot decode fixture: %w", err)
	}

	// Validate the whole document before touching the store, so a bad
	// fixture registers nothing at all.
	entries := make([]*Entry, 0, len(file.Mocks))
	for i, fm := range file.Mocks {
		e, err := fm.toEntry()
		if err != nil {
			return nil, fmt.Errorf("mock: fixture mock %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	for _, e := range entries {
		store.Register(e)
	}
	return entries, nil
}

// LoadFile is Load over a file on disk.
func LoadFile(path string, store *Store) ([]*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mock: cannot open fixture: %w", err)
	}
	defer f.Close()
	return Load(f, store)
}

func (fm fixtureMock) toEntry() (*Entry, error) {
	if fm.Method == "" {
		return nil, fmt.Errorf("method is required")
	}
	if fm.URL == "" && fm.URLPattern == "" {
		return nil, fmt.Errorf("url or urlPattern is required")
	}
	if fm.URL != "" && fm.URLPattern != "" {
		return nil, fmt.Errorf("url and urlPattern are mutually exclusive")
	}

	e := NewEntry(fm.Method, fm.URL)
	if fm.URLPattern != "" {
		m, err := matchers.StringMatching(fm.URLPattern)
		if err != nil {
			return nil, err
		}
		e.MatchURL(m)
	}

	for name, value := range fm.Headers {
		e.MatchHeaderValue(name, value)
	}

	switch {
	case fm.BodyEquals != nil:
		e.MatchBodyEquals(fm.BodyEquals.value)
	case fm.BodyContains != "":
		e.MatchBody(matchers.StringContaining(fm.BodyContains))
	case fm.BodyPattern != "":
		m, err := matchers.StringMatching(fm.BodyPattern)
		if err != nil {
			return nil, err
		}
		e.MatchBody(m)
	}

	status := fm.Response.Status
	if status == 0 {
		status = 200
	}
	e.RespondWith(&StaticResponder{
		Status:  status,
		Headers: fm.Response.Headers,
		Body:    fm.Response.Body.value,
		Delay:   time.Duration(fm.Response.DelayMs) * time.Millisecond,
	})

	return e, nil
}
