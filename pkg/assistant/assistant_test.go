package assistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/filesystem"
	"github.com/arthur-debert/skel/pkg/matcher"
	"github.com/arthur-debert/skel/pkg/template"
)

const testKeyEnv = "SKEL_TEST_API_KEY"

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv(testKeyEnv, "test-key")
	client, err := New(config.AIConfig{
		BaseURL:        server.URL,
		Model:          "gpt-4",
		MaxTokens:      500,
		Temperature:    0.7,
		APIKeyEnv:      testKeyEnv,
		TimeoutSeconds: 5,
	})
	require.NoError(t, err)
	return client
}

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(config.AIConfig{APIKeyEnv: "SKEL_TEST_UNSET_KEY"})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAssistant))
	assert.Contains(t, err.Error(), "SKEL_TEST_UNSET_KEY")
}

func TestGenerateContent_SendsChatCompletionRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq chatRequest

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write(completionBody(t, "  generated text  "))
	})

	content, err := client.GenerateContent("write a haiku", 100, 0.2)

	require.NoError(t, err)
	assert.Equal(t, "generated text", content, "response must be trimmed")
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4", gotReq.Model)
	assert.Equal(t, 100, gotReq.MaxTokens)
	assert.Equal(t, 0.2, gotReq.Temperature)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "write a haiku", gotReq.Messages[1].Content)
}

func TestGenerateContent_DefaultsMaxTokens(t *testing.T) {
	var gotReq chatRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write(completionBody(t, "ok"))
	})

	_, err := client.GenerateContent("prompt", 0, 0.7)

	require.NoError(t, err)
	assert.Equal(t, 500, gotReq.MaxTokens, "configured default must apply")
}

func TestGenerateContent_HTTPErrorSurfaces(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key"}}`))
	})

	_, err := client.GenerateContent("prompt", 100, 0.7)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAssistant))
	assert.Contains(t, err.Error(), "401")
}

func TestGenerateContent_EmptyChoices(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := client.GenerateContent("prompt", 100, 0.7)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestResolveConflict_ParsesMarkers(t *testing.T) {
	var gotReq chatRequest
	response := "MERGED CONTENT:\nmerged line one\nmerged line two\n\nEXPLANATION:\nKept both versions."

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write(completionBody(t, response))
	})

	merged, explanation, err := client.ResolveConflict("source text", "target text", "src/app.go")

	require.NoError(t, err)
	assert.Equal(t, "merged line one\nmerged line two", merged)
	assert.Equal(t, "Kept both versions.", explanation)

	prompt := gotReq.Messages[1].Content
	assert.Contains(t, prompt, "src/app.go")
	assert.Contains(t, prompt, "source text")
	assert.Contains(t, prompt, "target text")
	assert.Equal(t, mergeMaxTokens, gotReq.MaxTokens)
	assert.Equal(t, mergeTemperature, gotReq.Temperature)
}

func TestResolveConflict_MissingMarkersTreatedAsMerge(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(completionBody(t, "just the merged file body"))
	})

	merged, explanation, err := client.ResolveConflict("a", "b", "notes.txt")

	require.NoError(t, err)
	assert.Equal(t, "just the merged file body", merged)
	assert.Empty(t, explanation)
}

func TestResolveConflict_RequestFailurePropagates(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := client.ResolveConflict("a", "b", "notes.txt")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAssistant))
}

func TestAnalyzeTemplate_PromptCarriesLayout(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/templates/demo/src", 0o755))
	require.NoError(t, fs.WriteFile("/templates/demo/README.md", []byte("r"), 0o644))
	require.NoError(t, fs.WriteFile("/templates/demo/src/app.txt", []byte("a"), 0o644))

	s, err := template.Read(fs, "/templates/demo", matcher.Default())
	require.NoError(t, err)

	var gotReq chatRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write(completionBody(t, "## Assessment\nlooks fine"))
	})

	critique, err := client.AnalyzeTemplate(s)

	require.NoError(t, err)
	assert.Contains(t, critique, "Assessment")

	prompt := gotReq.Messages[1].Content
	assert.Contains(t, prompt, "src/")
	assert.Contains(t, prompt, "README.md")
}

func TestGenerateReadme_PromptCarriesProjectInfo(t *testing.T) {
	var gotReq chatRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write(completionBody(t, "# webapp\n..."))
	})

	readme, err := client.GenerateReadme(ProjectInfo{
		Name:        "webapp",
		Description: "A project named webapp",
		Author:      "dev",
		Directories: []string{"src"},
		Files:       []string{"README.md", "src/app.txt"},
	})

	require.NoError(t, err)
	assert.Contains(t, readme, "# webapp")

	prompt := gotReq.Messages[1].Content
	assert.Contains(t, prompt, "Project Name: webapp")
	assert.Contains(t, prompt, "Author: dev")
	assert.Contains(t, prompt, "src/app.txt")
}

func TestParseMergeResponse(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		merged      string
		explanation string
	}{
		{
			name:        "both markers",
			response:    "MERGED CONTENT:\nbody\nEXPLANATION:\nwhy",
			merged:      "body",
			explanation: "why",
		},
		{
			name:     "no markers",
			response: "plain body",
			merged:   "plain body",
		},
		{
			name:     "merged marker only",
			response: "MERGED CONTENT:\nbody",
			merged:   "MERGED CONTENT:\nbody",
		},
		{
			name:        "explanation first occurrence wins",
			response:    "MERGED CONTENT:\nbody\nEXPLANATION:\nwhy\nEXPLANATION: again",
			merged:      "body",
			explanation: "why\nEXPLANATION: again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, explanation := parseMergeResponse(tt.response)
			assert.Equal(t, tt.merged, merged)
			assert.Equal(t, tt.explanation, explanation)
		})
	}
}
