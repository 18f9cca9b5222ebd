// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web exposes PDF upload, extraction and entity matching over HTTP.
package web

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"pdfmatch/internal/config"
	"pdfmatch/internal/extractor"
	"pdfmatch/internal/formatters"
	"pdfmatch/internal/llm"
	"pdfmatch/internal/matcher"
	"pdfmatch/internal/store"
	"pdfmatch/internal/version"

	// Import formatters to register them
	_ "pdfmatch/internal/formatters/csv"
	_ "pdfmatch/internal/formatters/json"
	_ "pdfmatch/internal/formatters/text"
)

// WebServer serves the matching API
type WebServer struct {
	port      string
	cfg       *config.Config
	docs      *store.Store
	extractor *llm.Extractor
	mux       *http.ServeMux
	server    *http.Server
	stopSweep chan struct{}
}

// matchRequest is the body of POST /api/match/{id}. When Format is set the
// response is rendered by the named formatter instead of the JSON API shape.
type matchRequest struct {
	Entity        string   `json:"entity"`
	Strategy      string   `json:"strategy"`
	Threshold     *float64 `json:"threshold,omitempty"`
	ContextWindow *int     `json:"context_window,omitempty"`
	Format        string   `json:"format,omitempty"`
}

// entityRequest is the body of the entity extraction endpoints
type entityRequest struct {
	DocumentID  string   `json:"document_id"`
	EntityTypes []string `json:"entity_types,omitempty"`
}

// NewWebServer creates a new web server instance
func NewWebServer(port string, cfg *config.Config) *WebServer {
	ws := &WebServer{
		port:      port,
		cfg:       cfg,
		docs:      store.New("", time.Duration(cfg.Server.DocumentTTLMinutes)*time.Minute),
		extractor: llm.New(llm.Config{BaseURL: cfg.LLM.BaseURL, Model: cfg.LLM.Model}),
		mux:       http.NewServeMux(),
		stopSweep: make(chan struct{}),
	}
	ws.setupRoutes()
	return ws
}

// Handler returns the server's route handler
func (ws *WebServer) Handler() http.Handler {
	return ws.mux
}

// Start starts the web server, trying alternative ports when the requested
// one is busy.
func (ws *WebServer) Start() error {
	go ws.docs.Janitor(time.Minute, ws.stopSweep)

	var lastError error
	for i := 0; i < 10; i++ {
		currentPort := ws.port
		if i > 0 || ws.port == "8080" {
			currentPort = fmt.Sprintf("%d", 8080+i)
		}

		// Test if port is available first
		listener, err := net.Listen("tcp", ":"+currentPort)
		if err != nil {
			lastError = err
			if i == 0 {
				fmt.Printf("Port %s is not available, trying alternative ports...\n", currentPort)
			}
			continue
		}
		listener.Close()

		ws.server = ws.createSecureServer(currentPort)

		fmt.Printf("pdfmatch web API started on port %s\n", currentPort)
		fmt.Printf("Local: http://localhost:%s\n", currentPort)

		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lastError = err
			fmt.Printf("Server on port %s failed: %v\n", currentPort, err)
			continue
		}
		return nil
	}

	return fmt.Errorf("could not find an available port in range 8080-8089: %w", lastError)
}

// Stop stops the web server and releases stored documents
func (ws *WebServer) Stop() error {
	close(ws.stopSweep)
	ws.docs.Close()
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}

// createSecureServer creates an HTTP server with security timeouts
func (ws *WebServer) createSecureServer(port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           ws.mux,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (ws *WebServer) setupRoutes() {
	ws.mux.HandleFunc("/", ws.serveHome)
	ws.mux.HandleFunc("/health", ws.handleHealth)
	ws.mux.HandleFunc("/api/upload-pdf", ws.handleUpload)
	ws.mux.HandleFunc("/api/extract-text/", ws.handleExtractText)
	ws.mux.HandleFunc("/api/match/", ws.handleMatch)
	ws.mux.HandleFunc("/api/strategies", ws.handleStrategies)
	ws.mux.HandleFunc("/api/extract-entities", ws.handleExtractEntities)
	ws.mux.HandleFunc("/api/extract-named-entities", ws.handleExtractNamedEntities)
	ws.mux.HandleFunc("/api/cleanup/", ws.handleCleanup)
}

// serveHome serves a minimal landing page describing the API
func (ws *WebServer) serveHome(responseWriter http.ResponseWriter, request *http.Request) {
	if request.URL.Path != "/" {
		http.NotFound(responseWriter, request)
		return
	}
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	responseWriter.Header().Set("Content-Type", "text/html")
	responseWriter.WriteHeader(http.StatusOK)
	responseWriter.Write([]byte(`<!DOCTYPE html>
<html><head><title>pdfmatch</title></head>
<body><h1>pdfmatch</h1>
<p>PDF entity matching API. Endpoints:</p>
<ul>
<li>POST /api/upload-pdf</li>
<li>GET /api/extract-text/{id}</li>
<li>POST /api/match/{id}</li>
<li>GET /api/strategies</li>
<li>POST /api/extract-entities</li>
<li>POST /api/extract-named-entities</li>
<li>DELETE /api/cleanup/{id}</li>
</ul></body></html>`))
}

// handleHealth provides a health check endpoint with version information
func (ws *WebServer) handleHealth(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	versionInfo := version.Full()
	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pdfmatch-web",
		"version":   versionInfo["version"],
		"documents": ws.docs.Len(),
	}

	writeJSON(responseWriter, http.StatusOK, healthData)
}

// handleUpload accepts a multipart PDF upload and stores it under a new ID
func (ws *WebServer) handleUpload(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "POST" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	maxBytes := int64(ws.cfg.Server.MaxUploadMB) << 20
	request.Body = http.MaxBytesReader(responseWriter, request.Body, maxBytes)

	if err := request.ParseMultipartForm(maxBytes); err != nil {
		writeError(responseWriter, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return
	}

	file, header, err := request.FormFile("file")
	if err != nil {
		writeError(responseWriter, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeError(responseWriter, http.StatusBadRequest, "only PDF files are accepted")
		return
	}

	doc, err := ws.docs.Put(header.Filename, file)
	if err != nil {
		writeError(responseWriter, http.StatusInternalServerError, "failed to store upload: "+err.Error())
		return
	}

	// Reject files pdfcpu cannot validate so later extraction has a
	// structurally sound document to work with.
	if err := extractor.New(doc.Path).Validate(); err != nil {
		ws.docs.Delete(doc.ID)
		writeError(responseWriter, http.StatusBadRequest, "invalid PDF file: "+err.Error())
		return
	}

	writeJSON(responseWriter, http.StatusOK, map[string]interface{}{
		"document_id": doc.ID,
		"filename":    doc.Filename,
	})
}

// handleExtractText returns the document's full text without positions
func (ws *WebServer) handleExtractText(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	doc, ok := ws.lookupDocument(responseWriter, request, "/api/extract-text/")
	if !ok {
		return
	}

	text, err := extractor.New(doc.Path).ExtractFullText()
	if err != nil {
		writeError(responseWriter, http.StatusInternalServerError, "text extraction failed: "+err.Error())
		return
	}

	writeJSON(responseWriter, http.StatusOK, map[string]interface{}{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"text":        text,
	})
}

// handleMatch runs one strategy against the document's word bounds
func (ws *WebServer) handleMatch(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "POST" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	doc, ok := ws.lookupDocument(responseWriter, request, "/api/match/")
	if !ok {
		return
	}

	var req matchRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		writeError(responseWriter, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Entity) == "" {
		writeError(responseWriter, http.StatusBadRequest, "entity must not be empty")
		return
	}
	if req.Strategy == "" {
		req.Strategy = ws.cfg.Defaults.Strategy
	}

	strategy, err := matcher.Create(req.Strategy, matcher.Params{
		Threshold:     req.Threshold,
		ContextWindow: req.ContextWindow,
	})
	if err != nil {
		writeError(responseWriter, http.StatusBadRequest, err.Error())
		return
	}

	bounds, err := extractor.New(doc.Path).ExtractBounds()
	if err != nil {
		writeError(responseWriter, http.StatusInternalServerError, "text extraction failed: "+err.Error())
		return
	}

	results := strategy.Match(req.Entity, bounds)

	if req.Format != "" {
		report := formatters.Report{
			File:     doc.Filename,
			Entity:   req.Entity,
			Strategy: strategy.Name(),
			Matches:  results,
		}
		content, mimeType, filename, err := formatters.ExportForWeb(req.Format, report, formatters.FormatterOptions{NoColor: true})
		if err != nil {
			writeError(responseWriter, http.StatusBadRequest, err.Error())
			return
		}
		responseWriter.Header().Set("Content-Type", mimeType)
		responseWriter.Header().Set("Content-Disposition", "attachment; filename="+filename)
		responseWriter.WriteHeader(http.StatusOK)
		responseWriter.Write([]byte(content))
		return
	}

	matches := make([]map[string]interface{}, 0, len(results))
	for _, result := range results {
		matches = append(matches, result.ToMap())
	}

	writeJSON(responseWriter, http.StatusOK, map[string]interface{}{
		"document_id": doc.ID,
		"entity":      req.Entity,
		"strategy":    strategy.Name(),
		"count":       len(matches),
		"matches":     matches,
	})
}

// handleStrategies lists the available strategies and their parameters
func (ws *WebServer) handleStrategies(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "GET" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var strategies []map[string]interface{}
	for _, info := range matcher.Describe() {
		params := make([]map[string]interface{}, 0, len(info.Parameters))
		for _, p := range info.Parameters {
			params = append(params, map[string]interface{}{
				"name":        p.Name,
				"type":        p.Type,
				"default":     p.Default,
				"description": p.Description,
			})
		}
		strategies = append(strategies, map[string]interface{}{
			"name":        info.Name,
			"description": info.ShortDescription,
			"parameters":  params,
		})
	}

	writeJSON(responseWriter, http.StatusOK, map[string]interface{}{
		"strategies": strategies,
	})
}

// handleExtractEntities returns a flat entity list found by the LLM
func (ws *WebServer) handleExtractEntities(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "POST" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, doc, ok := ws.decodeEntityRequest(responseWriter, request)
	if !ok {
		return
	}

	text, err := extractor.New(doc.Path).ExtractFullText()
	if err != nil {
		writeError(responseWriter, http.StatusInternalServerError, "text extraction failed: "+err.Error())
		return
	}

	entities, err := ws.extractor.ExtractEntities(request.Context(), text, req.EntityTypes)
	if err != nil {
		writeError(responseWriter, entityErrorStatus(err), "entity extraction failed: "+err.Error())
		return
	}

	writeJSON(responseWriter, http.StatusOK, map[string]interface{}{
		"document_id": doc.ID,
		"entities":    entities,
	})
}

// handleExtractNamedEntities returns entities grouped by type
func (ws *WebServer) handleExtractNamedEntities(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "POST" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, doc, ok := ws.decodeEntityRequest(responseWriter, request)
	if !ok {
		return
	}

	text, err := extractor.New(doc.Path).ExtractFullText()
	if err != nil {
		writeError(responseWriter, http.StatusInternalServerError, "text extraction failed: "+err.Error())
		return
	}

	grouped, err := ws.extractor.ExtractNamedEntities(request.Context(), text)
	if err != nil {
		writeError(responseWriter, entityErrorStatus(err), "entity extraction failed: "+err.Error())
		return
	}

	writeJSON(responseWriter, http.StatusOK, map[string]interface{}{
		"document_id": doc.ID,
		"entities":    grouped,
	})
}

// handleCleanup removes a stored document
func (ws *WebServer) handleCleanup(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != "DELETE" {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(request.URL.Path, "/api/cleanup/")
	if err := ws.docs.Delete(id); err != nil {
		writeError(responseWriter, http.StatusNotFound, "document not found: "+id)
		return
	}

	writeJSON(responseWriter, http.StatusOK, map[string]interface{}{
		"document_id": id,
		"deleted":     true,
	})
}

// lookupDocument extracts the document ID from the URL path and resolves it
func (ws *WebServer) lookupDocument(responseWriter http.ResponseWriter, request *http.Request, prefix string) (store.Document, bool) {
	id := strings.TrimPrefix(request.URL.Path, prefix)
	doc, ok := ws.docs.Get(id)
	if !ok {
		writeError(responseWriter, http.StatusNotFound, "document not found: "+id)
		return store.Document{}, false
	}
	return doc, true
}

// decodeEntityRequest parses an entity extraction body and resolves its document
func (ws *WebServer) decodeEntityRequest(responseWriter http.ResponseWriter, request *http.Request) (entityRequest, store.Document, bool) {
	var req entityRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		writeError(responseWriter, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return req, store.Document{}, false
	}

	doc, ok := ws.docs.Get(req.DocumentID)
	if !ok {
		writeError(responseWriter, http.StatusNotFound, "document not found: "+req.DocumentID)
		return req, store.Document{}, false
	}

	return req, doc, true
}

// entityErrorStatus maps extraction errors to HTTP status codes
func entityErrorStatus(err error) int {
	if err == llm.ErrNoAPIKey {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func writeJSON(responseWriter http.ResponseWriter, status int, payload interface{}) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(status)
	json.NewEncoder(responseWriter).Encode(payload)
}

func writeError(responseWriter http.ResponseWriter, status int, message string) {
	writeJSON(responseWriter, status, map[string]interface{}{
		"error": message,
	})
}
