package commands

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOutputFormat(t *testing.T) {
	assert.NoError(t, ValidateOutputFormat(FormatText))
	assert.NoError(t, ValidateOutputFormat(FormatJSON))
	assert.Error(t, ValidateOutputFormat("xml"))
}

func TestFormatSpecPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatSpecPath(StdinFilePath))
	assert.Equal(t, "api.yaml", FormatSpecPath("api.yaml"))
}

func TestApiKeyOrEnv(t *testing.T) {
	assert.Equal(t, "explicit", apiKeyOrEnv("explicit", "SPECFORGE_TEST_API_KEY"))

	t.Setenv("SPECFORGE_TEST_API_KEY", "from-env")
	assert.Equal(t, "from-env", apiKeyOrEnv("", "SPECFORGE_TEST_API_KEY"))

	os.Unsetenv("SPECFORGE_TEST_API_KEY")
	assert.Equal(t, "", apiKeyOrEnv("", "SPECFORGE_TEST_API_KEY"))
}

func TestReadSpecPayload(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/spec.txt"
	assert.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	data, err := ReadSpecPayload(path)
	assert.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
