package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "Message only",
			err:      Configuration("origin is not configured"),
			expected: "origin is not configured",
		},
		{
			name:     "With code",
			err:      Service("ZERO_RESULTS", "no route found"),
			expected: "no route found (ZERO_RESULTS)",
		},
		{
			name:     "With op and cause",
			err:      Transport("request failed", errors.New("timeout")).WithOp("distance.fetch"),
			expected: "distance.fetch: request failed: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	cause := errors.New("eof")
	err := fmt.Errorf("outer: %w", Parse("bad body", cause))

	assert.Equal(t, KindParse, KindOf(err))
	assert.True(t, IsKind(err, KindParse))
	assert.False(t, IsKind(err, KindService))
	assert.ErrorIs(t, err, cause)
}

func TestKindOf_Plain(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindUnknown))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Service("NOT_FOUND", "geocode failed"))
	assert.Equal(t, "NOT_FOUND", CodeOf(err))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "no_rule_match", KindNoRuleMatch.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
