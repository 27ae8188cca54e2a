package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	errs "github.com/matzehuels/canvaskit/pkg/errors"
	"github.com/matzehuels/canvaskit/pkg/service"
	"github.com/matzehuels/canvaskit/pkg/tools"
)

// pathArgs maps URL parameters onto tool argument names.
var pathArgs = map[string]string{
	"id":     "canvasId",
	"nodeID": "nodeId",
	"connID": "connectionId",
}

// created lists the tools answered with 201 Created.
var created = map[string]bool{
	tools.CanvasCreate:        true,
	tools.CanvasAddNode:       true,
	tools.CanvasAddConnection: true,
	tools.CanvasImportJSON:    true,
	tools.MindmapCreate:       true,
	tools.MindmapAddBranch:    true,
	tools.WorkflowCreate:      true,
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeNotFound, errs.ErrCodeUnknownOperation:
		return http.StatusNotFound
	case errs.ErrCodeInvalidReference:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// tool returns a handler that merges the JSON body with the route's URL
// parameters and runs the named tool. Path values win over body fields.
func (s *Server) tool(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		args, err := readObject(w, r)
		if err != nil {
			respondError(w, err)
			return
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if arg, ok := pathArgs[key]; ok {
					args[arg] = rctx.URLParams.Values[i]
				}
			}
		}
		s.respondResult(w, name, s.registry.CallMap(r.Context(), name, args))
	}
}

func (s *Server) importCanvas(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respondError(w, err)
		return
	}
	if !json.Valid(body) {
		respondError(w, errs.New(errs.ErrCodeInvalidInput, "request body is not valid JSON"))
		return
	}
	args := map[string]any{"json": json.RawMessage(body)}
	s.respondResult(w, tools.CanvasImportJSON, s.registry.CallMap(r.Context(), tools.CanvasImportJSON, args))
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	body, err := readBody(w, r)
	if err != nil {
		respondError(w, err)
		return
	}
	s.respondResult(w, name, s.registry.Call(r.Context(), name, body))
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.registry.Tools())
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format, err := service.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		respondError(w, err)
		return
	}
	opts, err := exportOptions(r)
	if err != nil {
		respondError(w, err)
		return
	}
	art, err := s.svc.Export(r.Context(), id, format, opts)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", id+"."+format.Extension()))
	if art.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		s.logger.Debug("write export", "id", id, "err", err)
	}
}

func exportOptions(r *http.Request) (service.ExportOptions, error) {
	var opts service.ExportOptions
	q := r.URL.Query()
	if v := q.Get("curves"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "curves must be a boolean, got %q", v)
		}
		opts.Curves = b
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"width", &opts.Width}, {"height", &opts.Height}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "%s must be an integer, got %q", p.name, v)
		}
		*p.dst = n
	}
	return opts, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	return body, nil
}

// readObject decodes an optional JSON object body.
func readObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	args := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return args, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "request body must be a JSON object: %v", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func (s *Server) respondResult(w http.ResponseWriter, name string, res tools.Result) {
	status := http.StatusOK
	switch {
	case !res.Success:
		status = StatusFor(res.Code)
		if status >= http.StatusInternalServerError {
			s.logger.Error("tool failed", "tool", name, "code", res.Code, "message", res.Message)
		}
	case created[name]:
		status = http.StatusCreated
	}
	respondJSON(w, status, res)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, StatusFor(errs.GetCode(err)), tools.Failure(err))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
