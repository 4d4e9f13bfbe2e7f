package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnwrapCodeFence(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n[1,2]\n```", `[1,2]`},
		{"json fence on one line", "```json{\"a\":1}```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n {\"a\":1} \n```\n ", `{"a":1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, UnwrapCodeFence(tc.input))
		})
	}
}
