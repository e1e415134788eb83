package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	Mode string `mapstructure:"mode" validate:"oneof=fast slow"`
}

type sample struct {
	Name   string `json:"name" validate:"required"`
	Count  *int   `json:"count" validate:"required,min=1,max=5"`
	Nested inner  `mapstructure:"nested"`
}

func intPtr(v int) *int { return &v }

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		in     sample
		fields []string
		msg    string
	}{
		{
			name: "valid",
			in:   sample{Name: "a", Count: intPtr(3), Nested: inner{Mode: "fast"}},
		},
		{
			name:   "missing pointer",
			in:     sample{Name: "a", Nested: inner{Mode: "fast"}},
			fields: []string{"count"},
			msg:    "count is required",
		},
		{
			name:   "above max",
			in:     sample{Name: "a", Count: intPtr(9), Nested: inner{Mode: "slow"}},
			fields: []string{"count"},
			msg:    "count must be at most 5",
		},
		{
			name:   "every failure reported with its key path",
			in:     sample{Count: intPtr(0), Nested: inner{Mode: "warp"}},
			fields: []string{"name", "count", "nested.mode"},
			msg:    "name is required; count must be at least 1; nested.mode must be one of fast, slow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *Error
			require.True(t, errors.As(err, &verr), "error = %v", err)
			got := make([]string, len(verr.Fields))
			for i, f := range verr.Fields {
				got[i] = f.Field
			}
			assert.Equal(t, tt.fields, got)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestStruct_NotAStruct(t *testing.T) {
	err := Struct("text")
	require.Error(t, err)
	var verr *Error
	assert.False(t, errors.As(err, &verr))
}
