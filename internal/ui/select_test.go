package ui

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectOption(t *testing.T) {
	options := []string{"sonnet", "haiku", "opus"}

	tests := []struct {
		name         string
		defaultIndex int
		input        string
		want         int
	}{
		{"explicit choice", 0, "2\n", 1},
		{"empty input picks default", 2, "\n", 2},
		{"out of range retries", 0, "7\n3\n", 2},
		{"text retries", 0, "opus\n1\n", 0},
		{"negative default falls back to first", -1, "\n", 0},
		{"large default falls back to first", 10, "\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &bytes.Buffer{}
			got, err := SelectOption("Pick a model:", options, tt.defaultIndex, strings.NewReader(tt.input), output)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			text := output.String()
			assert.Contains(t, text, "Pick a model:")
			for i, option := range options {
				assert.Contains(t, text, option)
				assert.Contains(t, text, string(rune('1'+i))+") ")
			}
		})
	}
}

func TestSelectOption_RetryMessage(t *testing.T) {
	output := &bytes.Buffer{}
	_, err := SelectOption("Pick:", []string{"a", "b"}, 0, strings.NewReader("0\n1\n"), output)
	require.NoError(t, err)
	assert.Contains(t, output.String(), "Please enter a number between 1 and 2")
}

func TestSelectOption_NoOptions(t *testing.T) {
	got, err := SelectOption("Pick:", nil, 0, strings.NewReader("1\n"), io.Discard)
	assert.ErrorIs(t, err, ErrNoOptions)
	assert.Equal(t, -1, got)
}

func TestSelectOption_EOF(t *testing.T) {
	_, err := SelectOption("Pick:", []string{"a"}, 0, strings.NewReader(""), io.Discard)
	assert.Equal(t, io.EOF, err)
}

func TestChooseAction(t *testing.T) {
	tests := []struct {
		input string
		want  Action
	}{
		{"\n", ActionAccept},
		{"1\n", ActionAccept},
		{"2\n", ActionRefine},
		{"3\n", ActionRegenerate},
		{"9\n4\n", ActionAbandon},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			output := &bytes.Buffer{}
			got, err := ChooseAction(strings.NewReader(tt.input), output)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, output.String(), "Refine with instructions")
		})
	}
}

func TestChooseAction_EOF(t *testing.T) {
	got, err := ChooseAction(strings.NewReader(""), io.Discard)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, ActionAbandon, got)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "Abandon", ActionAbandon.String())
	assert.Equal(t, "unknown", Action(42).String())
}
