package commands

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/specforge/specforge/dialect/httpcontract"
	"github.com/specforge/specforge/intent"
	"github.com/specforge/specforge/render"
)

func TestBuildRequestUnknownDialect(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/spec.yaml"
	require.NoError(t, os.WriteFile(path, []byte("title: x"), 0o644))

	_, err := buildRequest(path, &GenerateFlags{Dialect: "bogus-dialect", Framework: "http-sync"})
	assert.Error(t, err)
}

func TestBuildRequestUnknownFramework(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/spec.yaml"
	require.NoError(t, os.WriteFile(path, []byte("title: x"), 0o644))

	_, err := buildRequest(path, &GenerateFlags{Dialect: "http-contract", Framework: "bogus-framework"})
	assert.Error(t, err)
}

func TestBuildRequestParsesIntentsAndFramework(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/spec.yaml"
	require.NoError(t, os.WriteFile(path, []byte("title: x"), 0o644))

	req, err := buildRequest(path, &GenerateFlags{
		Dialect:   "http-contract",
		Framework: "http-async",
		Intents:   "HAPPY_PATH, TYPE_VIOLATION,",
		BaseURL:   "https://example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, render.HTTPAsync, req.TargetFramework)
	assert.Equal(t, "https://example.com", req.BaseURL)
	assert.Equal(t, []intent.ID{intent.HappyPath, intent.TypeViolation}, req.TargetIntents)
}

func TestBuildProviderRequiresModel(t *testing.T) {
	_, err := buildProvider(&GenerateFlags{LLMProvider: "anthropic"})
	assert.Error(t, err)
}

func TestBuildProviderUnknown(t *testing.T) {
	_, err := buildProvider(&GenerateFlags{LLMProvider: "cohere", LLMModel: "x"})
	assert.Error(t, err)
}
