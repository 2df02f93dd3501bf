// Package index derives the intent groupings the directory answers queries
// with. Nothing here is cached: every call works from the catalog snapshot it
// is given.
package index

import (
	"sort"

	"github.com/agentstation/appdirectory/pkg/apps"
)

// ByIntent returns every application declaring an intent named intent, in
// catalog order. The result is never nil.
func ByIntent(catalog apps.Catalog, intent string) apps.Catalog {
	out := apps.Catalog{}
	for _, app := range catalog {
		if app.Declares(intent) {
			out = append(out, app)
		}
	}
	return out
}

// ByContext groups applications by the intents they declare for contextType.
// Within a group applications keep first-seen catalog order and appear once;
// groups are ordered by intent name. The result is never nil.
func ByContext(catalog apps.Catalog, contextType string) []apps.IntentGroup {
	groups := make(map[string]*apps.IntentGroup)
	seen := make(map[string]map[int]struct{})

	for pos, app := range catalog {
		for _, intent := range app.Intents {
			if !intent.Accepts(contextType) {
				continue
			}

			group, ok := groups[intent.Name]
			if !ok {
				group = &apps.IntentGroup{
					Intent: apps.IntentRef{Name: intent.Name, DisplayName: intent.Name},
					Apps:   []apps.Application{},
				}
				groups[intent.Name] = group
				seen[intent.Name] = make(map[int]struct{})
			}

			// keyed by catalog position: appId is not guaranteed unique on the wire
			if _, dup := seen[intent.Name][pos]; dup {
				continue
			}
			seen[intent.Name][pos] = struct{}{}
			group.Apps = append(group.Apps, app)
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]apps.IntentGroup, 0, len(names))
	for _, name := range names {
		out = append(out, *groups[name])
	}
	return out
}

// Intents lists the distinct intent names declared anywhere in the catalog,
// sorted.
func Intents(catalog apps.Catalog) []string {
	set := make(map[string]struct{})
	for _, app := range catalog {
		for _, intent := range app.Intents {
			set[intent.Name] = struct{}{}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
