package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		include string
		table   string
		want    Decision
	}{
		{
			name:  "no patterns keeps everything",
			table: "user",
			want:  Decision{},
		},
		{
			name:   "filter match excludes",
			filter: "^tmp_",
			table:  "tmp_import",
			want:   Decision{Excluded: true, Reason: ReasonFilter},
		},
		{
			name:   "filter miss keeps",
			filter: "^tmp_",
			table:  "user",
			want:   Decision{},
		},
		{
			name:    "include miss excludes",
			include: "^app_",
			table:   "user",
			want:    Decision{Excluded: true, Reason: ReasonInclude},
		},
		{
			name:    "include match keeps",
			include: "^app_",
			table:   "app_user",
			want:    Decision{},
		},
		{
			name:    "filter wins over include match",
			filter:  "_log$",
			include: "^app_",
			table:   "app_audit_log",
			want:    Decision{Excluded: true, Reason: ReasonFilter},
		},
		{
			name:    "include miss excludes regardless of filter miss",
			filter:  "_log$",
			include: "^app_",
			table:   "user",
			want:    Decision{Excluded: true, Reason: ReasonInclude},
		},
		{
			name:    "both rules reject reports filter",
			filter:  "_log$",
			include: "^app_",
			table:   "audit_log",
			want:    Decision{Excluded: true, Reason: ReasonFilter},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.filter, tt.include)
			require.NoError(t, err)

			assert.Equal(t, tt.want, f.Match(tt.table))
			assert.Equal(t, tt.want.Excluded, f.Excluded(tt.table))
		})
	}
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := Compile("(", "")
	require.Error(t, err)

	var perr *PatternError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "filter", perr.Option)

	_, err = Compile("", "[a-")
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "include", perr.Option)
}

func TestFilter_NilKeepsEverything(t *testing.T) {
	var f *Filter
	assert.False(t, f.Excluded("anything"))
}

func TestReason_String(t *testing.T) {
	assert.Equal(t, "kept", ReasonNone.String())
	assert.Equal(t, "matched filter", ReasonFilter.String())
	assert.Equal(t, "not matched by include", ReasonInclude.String())
}
