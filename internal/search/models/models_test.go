package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchTerm_Active(t *testing.T) {
	term := NewSearchTerm()
	assert.True(t, term.UseTransliteration)

	term.Raw = "shiv"
	term.Devanagari = "शिव"
	assert.Equal(t, "शिव", term.Active())

	term.UseTransliteration = false
	assert.Equal(t, "shiv", term.Active())
}

func TestSearchTerm_ActiveBeforeResolve(t *testing.T) {
	term := NewSearchTerm()
	term.Raw = "ram"
	term.Pending = true
	assert.Empty(t, term.Active())
}
