package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/appdirectory/pkg/apps"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		typ      PatternType
		pattern  string
		opts     Options
		input    string
		want     bool
		wantType PatternType
	}{
		{name: "glob star", typ: Glob, pattern: "Chat*", input: "ChatPro", want: true, wantType: Glob},
		{name: "glob no match", typ: Glob, pattern: "Chat*", input: "Mail", want: false, wantType: Glob},
		{name: "glob question", typ: Glob, pattern: "?ail", input: "Mail", want: true, wantType: Glob},
		{name: "glob case sensitive", typ: Glob, pattern: "chat*", input: "Chat", want: false, wantType: Glob},
		{name: "glob case insensitive", typ: Glob, pattern: "chat*", opts: Options{CaseInsensitive: true}, input: "CHAT", want: true, wantType: Glob},
		{name: "regex", typ: Regex, pattern: "^(Mail|Chat)$", input: "Chat", want: true, wantType: Regex},
		{name: "regex unanchored", typ: Regex, pattern: "art", input: "Charts", want: true, wantType: Regex},
		{name: "regex case insensitive", typ: Regex, pattern: "^mail$", opts: Options{CaseInsensitive: true}, input: "Mail", want: true, wantType: Regex},
		{name: "auto detects regex", typ: Auto, pattern: "^Ch.+", input: "Chart", want: true, wantType: Regex},
		{name: "auto defaults to glob", typ: Auto, pattern: "Ch*", input: "Chart", want: true, wantType: Glob},
		{name: "auto plain name", typ: Auto, pattern: "Mail", input: "Mail", want: true, wantType: Glob},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.typ, tt.pattern, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.input))
			assert.Equal(t, tt.wantType, m.Type())
			assert.Equal(t, tt.pattern, m.Pattern())
		})
	}
}

func TestNew_InvalidPatterns(t *testing.T) {
	_, err := New(Glob, "[")
	assert.Error(t, err)

	_, err = New(Regex, "(")
	assert.Error(t, err)

	_, err = New(PatternType(42), "x")
	assert.Error(t, err)
}

func TestPatternType_String(t *testing.T) {
	assert.Equal(t, "glob", Glob.String())
	assert.Equal(t, "regex", Regex.String())
	assert.Equal(t, "auto", Auto.String())
	assert.Equal(t, "unknown", PatternType(42).String())
}

func TestFilterApps(t *testing.T) {
	catalog := apps.Catalog{{Name: "Chat"}, {Name: "Mail"}, {Name: "Charts"}}

	m, err := New(Auto, "Ch*")
	require.NoError(t, err)

	got := FilterApps(catalog, m)
	require.Len(t, got, 2)
	assert.Equal(t, "Chat", got[0].Name)
	assert.Equal(t, "Charts", got[1].Name)

	none, err := New(Glob, "Z*")
	require.NoError(t, err)
	assert.Empty(t, FilterApps(catalog, none))
	assert.NotNil(t, FilterApps(catalog, none))
}
