// Package assistant implements the optional AI collaborator over an
// OpenAI-compatible chat-completions endpoint. The populator consumes
// it for conflict resolution; commands use it for template critique
// and README generation.
package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/template"
)

const systemPrompt = "You are a helpful assistant for software development."

// Per-flow completion budgets. Merging needs room for the whole file,
// critique and README output stay bounded.
const (
	mergeMaxTokens   = 2000
	mergeTemperature = 0.3
	analyzeMaxTokens = 1000
	readmeMaxTokens  = 1500
)

const (
	mergedMarker      = "MERGED CONTENT:"
	explanationMarker = "EXPLANATION:"
)

// Generator produces free-form text from a prompt.
type Generator interface {
	GenerateContent(prompt string, maxTokens int, temperature float64) (string, error)
}

// ProjectInfo feeds the README generation prompt.
type ProjectInfo struct {
	Name        string
	Description string
	Author      string
	Directories []string
	Files       []string
}

// Client talks to an OpenAI-compatible chat-completions API. It
// satisfies Generator and the populator's conflict resolver contract.
type Client struct {
	baseURL     string
	model       string
	apiKey      string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	logger      zerolog.Logger
}

// New builds a client from the resolved AI configuration. The API key
// is read from the environment variable the configuration names.
func New(cfg config.AIConfig) (*Client, error) {
	apiKey := cfg.APIKey()
	if apiKey == "" {
		return nil, errors.Newf(errors.ErrAssistant,
			"no API key found: set the %s environment variable", cfg.APIKeyEnv)
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		apiKey:      apiKey,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
		logger:      logging.GetLogger("assistant"),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateContent runs a single chat completion and returns the
// trimmed text of the first choice. Non-positive maxTokens falls back
// to the configured default.
func (c *Client) GenerateContent(prompt string, maxTokens int, temperature float64) (string, error) {
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrAssistant, "failed to encode request")
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrAssistant, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().Str("url", url).Str("model", c.model).Int("max_tokens", maxTokens).
		Msg("Requesting completion")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrAssistant, "completion request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", errors.Newf(errors.ErrAssistant, "completion request failed: %d - %s",
			resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, errors.ErrAssistant, "failed to decode response")
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New(errors.ErrAssistant, "response contains no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	c.logger.Debug().Int("bytes", len(content)).Msg("Received completion")
	return content, nil
}

// ResolveConflict asks the model to merge a template file with the
// existing target file and explain the merge. A response without the
// expected markers is treated as merged content with no explanation.
func (c *Client) ResolveConflict(source, target, path string) (string, string, error) {
	prompt := fmt.Sprintf(`I need to resolve a conflict between two versions of a file.

File path: %s
File type: %s

SOURCE VERSION:
%s

TARGET VERSION:
%s

Please analyze both versions and create a merged version that preserves the important parts of both.
Explain your merge strategy and any decisions you made.

Return your response in the following format:

MERGED CONTENT:
[Your merged content here]

EXPLANATION:
[Your explanation here]`, path, filepath.Ext(path), fence(source), fence(target))

	response, err := c.GenerateContent(prompt, mergeMaxTokens, mergeTemperature)
	if err != nil {
		return "", "", err
	}

	merged, explanation := parseMergeResponse(response)
	return merged, explanation, nil
}

// AnalyzeTemplate asks the model to critique a template layout. The
// response is markdown suitable for terminal rendering.
func (c *Client) AnalyzeTemplate(s *template.Structure) (string, error) {
	prompt := fmt.Sprintf(`Analyze the following project template structure and provide recommendations:

%s
Please provide:
1. An assessment of the template's completeness
2. Suggestions for additional files or directories that might be useful
3. Recommendations for improving the template
4. Any potential issues or inconsistencies in the structure

Format your response as Markdown with a section per point.`,
		renderLayout(s.RelDirectories(), s.RelFiles()))

	return c.GenerateContent(prompt, analyzeMaxTokens, c.temperature)
}

// GenerateReadme asks the model for a full README based on the
// scaffolded project's variables and layout.
func (c *Client) GenerateReadme(info ProjectInfo) (string, error) {
	layout := renderLayout(info.Directories, info.Files)
	if layout == "" {
		layout = "  (not provided)\n"
	}

	prompt := fmt.Sprintf(`Generate a comprehensive README.md file for the following project:

Project Name: %s
Description: %s
Author: %s

Project Structure:
%s
The README should include:
1. A clear title and description
2. Installation instructions
3. Usage examples
4. Project structure explanation
5. Contributing guidelines
6. License information

Format the README using proper Markdown syntax with headings, code blocks, lists, etc.`,
		info.Name, info.Description, info.Author, layout)

	return c.GenerateContent(prompt, readmeMaxTokens, c.temperature)
}

func parseMergeResponse(response string) (string, string) {
	if !strings.Contains(response, mergedMarker) || !strings.Contains(response, explanationMarker) {
		return response, ""
	}
	head, tail, _ := strings.Cut(response, explanationMarker)
	merged := strings.TrimSpace(strings.Replace(head, mergedMarker, "", 1))
	return merged, strings.TrimSpace(tail)
}

func fence(content string) string {
	return "```\n" + content + "\n```"
}

func renderLayout(dirs, files []string) string {
	var sb strings.Builder
	for _, dir := range dirs {
		sb.WriteString("  " + dir + "/\n")
	}
	for _, file := range files {
		sb.WriteString("  " + file + "\n")
	}
	return sb.String()
}
