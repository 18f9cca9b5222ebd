// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmatch/internal/config"
)

func newTestServer(t *testing.T) *WebServer {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	ws := NewWebServer(cfg.Server.Port, cfg)
	t.Cleanup(func() { ws.docs.Close() })
	return ws
}

func doRequest(ws *WebServer, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHealth(t *testing.T) {
	ws := newTestServer(t)
	rec := doRequest(ws, http.MethodGet, "/health", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "pdfmatch-web", payload["service"])
	assert.Equal(t, float64(0), payload["documents"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	ws := newTestServer(t)
	rec := doRequest(ws, http.MethodPost, "/health", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHome(t *testing.T) {
	ws := newTestServer(t)
	rec := doRequest(ws, http.MethodGet, "/", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pdfmatch")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestStrategies(t *testing.T) {
	ws := newTestServer(t)
	rec := doRequest(ws, http.MethodGet, "/api/strategies", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	strategies := payload["strategies"].([]interface{})
	require.Len(t, strategies, 3)

	names := make(map[string]map[string]interface{})
	for _, s := range strategies {
		entry := s.(map[string]interface{})
		names[entry["name"].(string)] = entry
	}
	require.Contains(t, names, "exact")
	require.Contains(t, names, "fuzzy")
	require.Contains(t, names, "contextual")

	assert.Empty(t, names["exact"]["parameters"])
	fuzzyParams := names["fuzzy"]["parameters"].([]interface{})
	require.Len(t, fuzzyParams, 1)
	assert.Equal(t, "threshold", fuzzyParams[0].(map[string]interface{})["name"])
	assert.Len(t, names["contextual"]["parameters"].([]interface{}), 2)
}

func uploadBody(t *testing.T, filename, content string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes(), w.FormDataContentType()
}

func TestUpload_RejectsNonPDF(t *testing.T) {
	ws := newTestServer(t)
	body, contentType := uploadBody(t, "notes.txt", "plain text")

	rec := doRequest(ws, http.MethodPost, "/api/upload-pdf", body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "PDF")
}

func TestUpload_RejectsInvalidPDFContent(t *testing.T) {
	ws := newTestServer(t)
	body, contentType := uploadBody(t, "fake.pdf", "this is not a pdf")

	rec := doRequest(ws, http.MethodPost, "/api/upload-pdf", body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, ws.docs.Len())
}

func TestUpload_MissingFileField(t *testing.T) {
	ws := newTestServer(t)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("other", "value"))
	require.NoError(t, w.Close())

	rec := doRequest(ws, http.MethodPost, "/api/upload-pdf", buf.Bytes(), w.FormDataContentType())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "file")
}

func TestExtractText_UnknownDocument(t *testing.T) {
	ws := newTestServer(t)
	rec := doRequest(ws, http.MethodGet, "/api/extract-text/no-such-id", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "no-such-id")
}

func TestMatch_UnknownDocument(t *testing.T) {
	ws := newTestServer(t)
	body, _ := json.Marshal(map[string]interface{}{"entity": "World"})

	rec := doRequest(ws, http.MethodPost, "/api/match/no-such-id", body, "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMatch_RejectsBadBody(t *testing.T) {
	ws := newTestServer(t)
	doc, err := ws.docs.Put("doc.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	rec := doRequest(ws, http.MethodPost, "/api/match/"+doc.ID, []byte("{not json"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatch_RejectsEmptyEntity(t *testing.T) {
	ws := newTestServer(t)
	doc, err := ws.docs.Put("doc.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]interface{}{"entity": "  "})
	rec := doRequest(ws, http.MethodPost, "/api/match/"+doc.ID, body, "application/json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "entity")
}

func TestMatch_RejectsUnknownStrategy(t *testing.T) {
	ws := newTestServer(t)
	doc, err := ws.docs.Put("doc.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]interface{}{"entity": "World", "strategy": "psychic"})
	rec := doRequest(ws, http.MethodPost, "/api/match/"+doc.ID, body, "application/json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "psychic")
}

func TestExtractEntities_UnknownDocument(t *testing.T) {
	ws := newTestServer(t)
	body, _ := json.Marshal(map[string]interface{}{"document_id": "missing"})

	rec := doRequest(ws, http.MethodPost, "/api/extract-entities", body, "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCleanup(t *testing.T) {
	ws := newTestServer(t)
	doc, err := ws.docs.Put("doc.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	rec := doRequest(ws, http.MethodDelete, "/api/cleanup/"+doc.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, true, payload["deleted"])

	rec = doRequest(ws, http.MethodDelete, "/api/cleanup/"+doc.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCleanup_MethodNotAllowed(t *testing.T) {
	ws := newTestServer(t)
	rec := doRequest(ws, http.MethodGet, "/api/cleanup/some-id", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
