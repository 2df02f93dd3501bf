package output

import (
	"strings"

	"github.com/agentstation/appdirectory/pkg/apps"
)

// Catalog renders a list of applications.
type Catalog apps.Catalog

// TableData implements Tabular.
func (c Catalog) TableData() Data {
	rows := make([][]string, 0, len(c))
	for _, app := range c {
		rows = append(rows, []string{app.Name, app.AppID, app.ManifestType, intentNames(app.Intents)})
	}
	return Data{
		Headers: []string{"name", "app_id", "manifest_type", "intents"},
		Rows:    rows,
	}
}

// Application renders a single application as a property table.
type Application apps.Application

// TableData implements Tabular.
func (a Application) TableData() Data {
	rows := [][]string{
		{"Name", a.Name},
		{"App ID", a.AppID},
		{"Manifest", a.Manifest},
		{"Manifest Type", a.ManifestType},
	}
	for _, intent := range a.Intents {
		rows = append(rows, []string{"Intent " + intent.Name, strings.Join(intent.Contexts, ", ")})
	}
	return Data{
		Headers: []string{"property", "value"},
		Rows:    rows,
	}
}

// IntentGroups renders intents with the applications that handle them.
type IntentGroups []apps.IntentGroup

// TableData implements Tabular.
func (g IntentGroups) TableData() Data {
	rows := make([][]string, 0, len(g))
	for _, group := range g {
		names := make([]string, 0, len(group.Apps))
		for _, app := range group.Apps {
			names = append(names, app.Name)
		}
		rows = append(rows, []string{group.Intent.DisplayName, strings.Join(names, ", ")})
	}
	return Data{
		Headers: []string{"intent", "apps"},
		Rows:    rows,
	}
}

func intentNames(intents []apps.AppIntent) string {
	names := make([]string, 0, len(intents))
	for _, i := range intents {
		names = append(names, i.Name)
	}
	return strings.Join(names, ", ")
}
