package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleDialectsRejectsBadFormat(t *testing.T) {
	err := HandleDialects([]string{"--format", "xml"})
	assert.Error(t, err)
}

func TestHandleDialectsText(t *testing.T) {
	assert.NoError(t, HandleDialects(nil))
}

func TestHandleDialectsJSON(t *testing.T) {
	assert.NoError(t, HandleDialects([]string{"--format", "json"}))
}
