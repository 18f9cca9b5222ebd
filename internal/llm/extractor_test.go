// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityList(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"plain array", `["Acme Corp", "John Smith"]`, []string{"Acme Corp", "John Smith"}},
		{"fenced array", "```json\n[\"Acme Corp\"]\n```", []string{"Acme Corp"}},
		{"blank entries dropped", `["Acme", "  ", ""]`, []string{"Acme"}},
		{"malformed", `entities: Acme`, []string{}},
		{"wrong shape", `{"a": 1}`, []string{}},
		{"empty array", `[]`, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseEntityList(tc.content))
		})
	}
}

func TestParseNamedEntities(t *testing.T) {
	got := parseNamedEntities(`{"PERSON": ["John Smith", " "], "LOCATION": ["Seattle"], "EMPTY": []}`)
	assert.Equal(t, map[string][]string{
		"PERSON":   {"John Smith"},
		"LOCATION": {"Seattle"},
	}, got)

	assert.Empty(t, parseNamedEntities("not json"))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", maxTextChars+100)
	assert.Len(t, truncate(long), maxTextChars)
	assert.Equal(t, "short", truncate("short"))
}

func TestExtractEntities_NoAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	e := New(Config{})
	_, err := e.ExtractEntities(context.Background(), "text", nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestExtractEntities_CallsEndpoint(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `["Acme Corp"]`}},
			},
		})
	}))
	defer server.Close()

	e := New(Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	entities, err := e.ExtractEntities(context.Background(), "Acme Corp signed the deal.", []string{"ORGANIZATION"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Acme Corp"}, entities)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotBody["model"])

	messages := gotBody["messages"].([]any)
	prompt := messages[0].(map[string]any)["content"].(string)
	assert.Contains(t, prompt, "ORGANIZATION")
}

func TestExtractNamedEntities_MalformedAnswerIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "I could not find any entities."}},
			},
		})
	}))
	defer server.Close()

	e := New(Config{APIKey: "test-key", BaseURL: server.URL})
	grouped, err := e.ExtractNamedEntities(context.Background(), "some text")
	require.NoError(t, err)
	assert.Empty(t, grouped)
}

func TestComplete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	e := New(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := e.ExtractEntities(context.Background(), "text", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
