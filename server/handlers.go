package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/TFMV/ontograph/export"
	"github.com/TFMV/ontograph/ingest"
	"github.com/TFMV/ontograph/models"
	"github.com/TFMV/ontograph/store"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UploadResponse is returned for a processed upload
type UploadResponse struct {
	Message  string           `json:"message"`
	Ontology *models.Ontology `json:"ontology"`
}

// GraphResponse carries a stored graph and its id
type GraphResponse struct {
	Message string        `json:"message,omitempty"`
	ID      string        `json:"id"`
	Graph   *models.Graph `json:"graph"`
}

// ExportResponse reports an export
type ExportResponse struct {
	export.Result
	Message string `json:"message,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (s *Server) allow(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// readBody reads a request body of at most MaxUploadBytes, answering the
// request itself when that fails
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		if tooLarge(err) {
			s.respondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return nil, false
		}
		s.respondError(w, http.StatusBadRequest, "Error reading body: "+err.Error())
		return nil, false
	}
	return body, true
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, http.StatusNotFound, fmt.Sprintf("no route for %s", r.URL.Path))
}

// handleUpload extracts an ontology from a csv, xlsx or text upload
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "Error parsing form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	var opts []ingest.Option
	if r.FormValue("work_orders") == "true" {
		opts = append(opts, ingest.WithWorkOrders())
	}
	processor, err := ingest.ProcessorFor(header.Filename, opts...)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid file format")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Error reading file: "+err.Error())
		return
	}

	ontology, err := processor.ProcessData(data)
	s.metrics.RecordExtraction(processor.GetName(), err)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ingest.ErrEmptySheet) {
			status = http.StatusBadRequest
		}
		s.respondError(w, status, "Error processing file: "+err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, UploadResponse{
		Message:  "File processed successfully",
		Ontology: ontology,
	})
}

// handleValidateOntology builds and stores the graph of a reviewed ontology
func (s *Server) handleValidateOntology(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodPost) {
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	ontology, err := ingest.DecodeOntology(body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	g := ontology.BuildGraph()
	if err := s.put(r.Context(), g); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, GraphResponse{
		Message: "Ontology validated successfully",
		ID:      g.ID,
		Graph:   g,
	})
}

// handleGraph stores (POST), returns (GET) or removes (DELETE) a graph. GET
// without an id returns the most recent graph.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet, http.MethodPost, http.MethodDelete) {
		return
	}

	switch r.Method {
	case http.MethodPost:
		body, ok := s.readBody(w, r)
		if !ok {
			return
		}
		g, err := ingest.DecodeGraph(body)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.put(r.Context(), g); err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.respondJSON(w, http.StatusCreated, GraphResponse{ID: g.ID, Graph: g})

	case http.MethodGet:
		id := r.URL.Query().Get("id")
		if id == "" {
			id = s.Latest()
		}
		g, err := s.store.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Graph not found")
			return
		}
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.respondJSON(w, http.StatusOK, GraphResponse{ID: g.ID, Graph: g})

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			s.respondError(w, http.StatusBadRequest, "Missing graph ID")
			return
		}
		if err := s.store.Delete(r.Context(), id); err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.mu.Lock()
		if s.latest == id {
			s.latest = ""
		}
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet) {
		return
	}
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"graphs": ids})
}

// handleExport writes a graph to the export database: the posted one, or
// the most recent when the body carries none
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodPost) {
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var (
		g   *models.Graph
		err error
	)
	if len(strings.TrimSpace(string(body))) > 0 {
		g, err = ingest.DecodeGraph(body)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		g, err = s.latestGraph(r.Context())
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "No graph to export")
			return
		}
	}

	res, err := s.exporter.Export(r.Context(), g)
	s.metrics.RecordExport(err)
	switch {
	case err == nil:
		s.respondJSON(w, http.StatusOK, ExportResponse{Result: res})
	case errors.Is(err, export.ErrNotConfigured):
		s.respondJSON(w, http.StatusServiceUnavailable, ExportResponse{Message: err.Error()})
	case errors.Is(err, models.ErrInvalidGraph):
		s.respondJSON(w, http.StatusBadRequest, ExportResponse{Message: err.Error()})
	default:
		log.Printf("Export of graph %s failed: %v", g.ID, err)
		s.respondJSON(w, http.StatusInternalServerError, ExportResponse{Message: err.Error()})
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if tooLarge(err) {
			s.respondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		s.respondError(w, http.StatusBadRequest, "error parsing JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "No query provided")
		return
	}

	resp, err := s.responder.Respond(r.Context(), req.Query)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to process your question. Please try again.")
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, http.MethodGet) {
		return
	}
	status, code := "ok", http.StatusOK
	ids, err := s.store.List(r.Context())
	if err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	s.respondJSON(w, code, map[string]any{
		"status": status,
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
		"graphs": len(ids),
	})
}
