package apps

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/appdirectory/pkg/constants"
	"github.com/agentstation/appdirectory/pkg/errors"
)

// Catalog is an ordered sequence of applications.
type Catalog []Application

// Len returns the number of applications in the catalog.
func (c Catalog) Len() int {
	return len(c)
}

// Clone returns a deep copy of the catalog. Nothing reachable from the copy
// shares memory with c.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for i, app := range c {
		out[i] = app.Clone()
	}
	return out
}

// ByName returns the first application whose name equals name.
func (c Catalog) ByName(name string) (Application, bool) {
	for _, app := range c {
		if app.Name == name {
			return app, true
		}
	}
	return Application{}, false
}

// ByID returns the application with the given appId.
func (c Catalog) ByID(appID string) (Application, bool) {
	for _, app := range c {
		if app.AppID == appID {
			return app, true
		}
	}
	return Application{}, false
}

// Parse decodes a JSON-encoded catalog. The document must be a JSON array;
// anything else, including null, is reported as a parse error.
func Parse(data []byte) (Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.NewParseError("json", "", "catalog must be a JSON array", nil)
	}

	var catalog Catalog
	if err := json.Unmarshal(trimmed, &catalog); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	if catalog == nil {
		catalog = Catalog{}
	}
	return catalog, nil
}

// ParseString is Parse for string values held by a key-value store.
func ParseString(data string) (Catalog, error) {
	return Parse([]byte(data))
}

// Encode returns the JSON encoding of the catalog. An empty or nil catalog
// encodes as [].
func Encode(c Catalog) (string, error) {
	if len(c) == 0 {
		return constants.EmptyCatalog, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", errors.WrapParse("json", "", err)
	}
	return string(data), nil
}

// ParseYAML decodes a YAML catalog document, as written by hand for local
// catalog files. The top level must be a sequence.
func ParseYAML(data []byte) (Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	if catalog == nil {
		catalog = Catalog{}
	}
	return catalog, nil
}

// EncodeYAML returns the YAML encoding of the catalog.
func EncodeYAML(c Catalog) ([]byte, error) {
	if c == nil {
		c = Catalog{}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return data, nil
}
