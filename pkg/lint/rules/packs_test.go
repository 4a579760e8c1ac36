package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobqlint/pkg/lint"
)

func TestPacks(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"default", "strict", "layout", "relaxed"}, PackNames())

	for _, p := range Packs() {
		assert.NotEmpty(t, p.Description, "pack %s", p.Name)
	}
}

func TestPackByName(t *testing.T) {
	t.Parallel()

	p := PackByName("relaxed")
	require.NotNil(t, p)
	assert.Equal(t, "relaxed", p.Name)

	assert.Nil(t, PackByName("nonexistent"))
}

func TestPackFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pack    string
		code    string
		ignored bool
	}{
		{pack: "default", code: "E241", ignored: true},
		{pack: "default", code: "W000", ignored: false},
		{pack: "strict", code: "E241", ignored: false},
		{pack: "layout", code: "W000", ignored: true},
		{pack: "layout", code: "E501", ignored: false},
		{pack: "layout", code: "E242", ignored: false},
		{pack: "relaxed", code: "W000", ignored: true},
		{pack: "relaxed", code: "W291", ignored: false},
	}

	for _, tt := range tests {
		t.Run(tt.pack+"/"+tt.code, func(t *testing.T) {
			t.Parallel()

			p := PackByName(tt.pack)
			require.NotNil(t, p)
			f := lint.NewFilter(p.Select, p.Ignore)
			assert.Equal(t, tt.ignored, f.Ignored(tt.code))
		})
	}
}

func TestPackRuleOptionsApply(t *testing.T) {
	t.Parallel()

	reg := lint.NewRegistry()
	RegisterAll(reg)

	for _, p := range Packs() {
		for name := range p.Rules {
			_, ok := reg.Get(name)
			assert.True(t, ok, "pack %s configures unknown rule %s", p.Name, name)
		}

		set, err := reg.Snapshot(p.Rules)
		require.NoError(t, err, "pack %s", p.Name)
		assert.Equal(t, 13, set.Len())
	}

	set, err := reg.Snapshot(RelaxedPack().Rules)
	require.NoError(t, err)
	rule, ok := set.Lookup("maximum_line_length")
	require.True(t, ok)
	assert.Equal(t, 120, rule.(*MaxLineLengthRule).Max)
}
