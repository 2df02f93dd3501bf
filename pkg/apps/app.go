// Package apps defines the application catalog data model: applications,
// the intents they declare, and the ordered catalog that holds them.
//
// A Catalog keeps the order in which its source delivered the applications.
// Nothing in this package sorts it.
package apps

// Application is a registered application and the intents it declares.
type Application struct {
	AppID        string      `json:"appId" yaml:"appId"`               // Unique application identifier
	Name         string      `json:"name" yaml:"name"`                 // Lookup name, unique in practice but not enforced
	Manifest     string      `json:"manifest" yaml:"manifest"`         // Manifest location or inline manifest
	ManifestType string      `json:"manifestType" yaml:"manifestType"` // Format of Manifest
	Intents      []AppIntent `json:"intents" yaml:"intents"`           // Declared intents, in declaration order
}

// AppIntent is a named capability an application declares.
type AppIntent struct {
	Name         string         `json:"name" yaml:"name"`
	Contexts     []string       `json:"contexts" yaml:"contexts"`
	CustomConfig map[string]any `json:"customConfig,omitempty" yaml:"customConfig,omitempty"`
}

// Accepts reports whether the intent lists contextType among its contexts.
// Matching is exact.
func (i AppIntent) Accepts(contextType string) bool {
	for _, c := range i.Contexts {
		if c == contextType {
			return true
		}
	}
	return false
}

// Declares reports whether the application declares an intent named intent.
func (a Application) Declares(intent string) bool {
	for _, i := range a.Intents {
		if i.Name == intent {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the application.
func (a Application) Clone() Application {
	if a.Intents != nil {
		intents := make([]AppIntent, len(a.Intents))
		for i, intent := range a.Intents {
			intents[i] = intent.Clone()
		}
		a.Intents = intents
	}
	return a
}

// Clone returns a deep copy of the intent, including nested custom config
// values.
func (i AppIntent) Clone() AppIntent {
	if i.Contexts != nil {
		i.Contexts = append([]string{}, i.Contexts...)
	}
	if i.CustomConfig != nil {
		i.CustomConfig = cloneValue(i.CustomConfig).(map[string]any)
	}
	return i
}

// cloneValue copies the maps and slices a decoded JSON or YAML value can hold.
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// IntentRef identifies an intent in query results.
type IntentRef struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"displayName" yaml:"displayName"`
}

// IntentGroup is one intent together with every application that can
// handle it for a given context.
type IntentGroup struct {
	Intent IntentRef     `json:"intent" yaml:"intent"`
	Apps   []Application `json:"apps" yaml:"apps"`
}
