package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleIntentsRejectsBadFormat(t *testing.T) {
	err := HandleIntents([]string{"--format", "xml"})
	assert.Error(t, err)
}

func TestHandleIntentsText(t *testing.T) {
	assert.NoError(t, HandleIntents(nil))
}

func TestHandleIntentsJSON(t *testing.T) {
	assert.NoError(t, HandleIntents([]string{"--format", "json"}))
}
