package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huimingz/commitsmith/internal/catalog"
)

var pickerModels = []catalog.Model{
	{ID: "gpt-4o-mini", DisplayName: "GPT-4o mini"},
	{ID: "gpt-4o", DisplayName: "GPT-4o"},
	{ID: "gpt-3.5-turbo", DisplayName: "GPT-3.5 Turbo", Deprecated: true},
}

func TestModelItems(t *testing.T) {
	items := modelItems(pickerModels, "gpt-4o")

	require.Len(t, items, 3)
	assert.Equal(t, "", items[0].Tag)
	assert.Equal(t, " (current)", items[1].Tag)
	assert.Equal(t, " (deprecated)", items[2].Tag)
	assert.Equal(t, 1, cursorFor(items))
	assert.Equal(t, 0, cursorFor(modelItems(pickerModels, "missing")))
}

func TestModelSearcher(t *testing.T) {
	search := modelSearcher(modelItems(pickerModels, ""))

	assert.True(t, search("4o mini", 0))
	assert.True(t, search("TURBO", 2))
	assert.False(t, search("turbo", 0))
}

func TestPickModel_NoModels(t *testing.T) {
	_, err := PickModel("Select model", nil, "")
	assert.True(t, errors.Is(err, ErrNoOptions))
}

func TestSpinner_DisabledForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinner(&buf, true)

	err := sp.Run("Generating", func() error { return nil })
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	boom := errors.New("boom")
	assert.Equal(t, boom, NewSpinner(&buf, false).Run("x", func() error { return boom }))
}
