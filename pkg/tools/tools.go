// Package tools exposes the document service as a flat set of named tool
// calls with JSON arguments.
//
// The same [Registry] backs the MCP server, the REST endpoint
// POST /api/tools/{name} and the CLI. A call never returns a Go error;
// every outcome is a [Result] envelope:
//
//	{"success": false, "message": "canvas \"x\" not found", "code": "NOT_FOUND"}
//
// Arguments are decoded into per-tool structs and checked with
// go-playground/validator before the service runs. Unknown tool names
// yield code UNKNOWN_OPERATION.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	errs "github.com/matzehuels/canvaskit/pkg/errors"
	"github.com/matzehuels/canvaskit/pkg/service"
)

// Result is the envelope returned by every tool call.
type Result struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Code    errs.Code `json:"code,omitempty"`
	Data    any       `json:"data,omitempty"`
}

// ParamType is the JSON type of a tool parameter.
type ParamType int

const (
	String ParamType = iota
	Number
	Boolean
	StringArray
	Object
)

var paramTypeNames = [...]string{
	String:      "string",
	Number:      "number",
	Boolean:     "boolean",
	StringArray: "array",
	Object:      "object",
}

// String returns the JSON schema type name.
func (t ParamType) String() string {
	if int(t) < len(paramTypeNames) {
		return paramTypeNames[t]
	}
	return "string"
}

// MarshalText implements encoding.TextMarshaler.
func (t ParamType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Param describes one tool argument, for schema generation.
type Param struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
}

// Tool describes a registered tool.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`
	Destructive bool    `json:"destructive,omitempty"`

	run runFunc
}

type runFunc func(ctx context.Context, r *Registry, args json.RawMessage) Result

// Registry dispatches tool calls to a service.
type Registry struct {
	svc      *service.Service
	validate *validator.Validate
	tools    []Tool
	byName   map[string]int
}

// NewRegistry registers every tool against svc.
func NewRegistry(svc *service.Service) *Registry {
	r := &Registry{
		svc:      svc,
		validate: newValidator(),
		byName:   make(map[string]int),
	}
	for _, t := range catalog() {
		r.byName[t.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Lookup returns the named tool.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Call runs the named tool with JSON-encoded arguments. Empty or null
// arguments are treated as an empty object.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) Result {
	i, ok := r.byName[name]
	if !ok {
		return Failure(errs.New(errs.ErrCodeUnknownOperation, "unknown operation %q", name))
	}
	return r.tools[i].run(ctx, r, args)
}

// CallMap is Call with already-decoded arguments.
func (r *Registry) CallMap(ctx context.Context, name string, args map[string]any) Result {
	if args == nil {
		return r.Call(ctx, name, nil)
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return Failure(errs.Wrap(errs.ErrCodeInvalidInput, err, "encode arguments"))
	}
	return r.Call(ctx, name, raw)
}

// Failure converts an error into a failed Result. Errors without a code
// are reported as INTERNAL_ERROR.
func Failure(err error) Result {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	return Result{Success: false, Message: errs.UserMessage(err), Code: code}
}

// handler adapts a typed tool function: it decodes and validates A, runs
// fn and wraps the outcome.
func handler[A any](fn func(ctx context.Context, svc *service.Service, args A) (string, any, error)) runFunc {
	return func(ctx context.Context, r *Registry, raw json.RawMessage) Result {
		var args A
		if err := decodeArgs(raw, &args); err != nil {
			return Failure(err)
		}
		if err := r.validateArgs(args); err != nil {
			return Failure(err)
		}
		msg, data, err := fn(ctx, r.svc, args)
		if err != nil {
			return Failure(err)
		}
		return Result{Success: true, Message: msg, Data: data}
	}
}

func decodeArgs(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.New(errs.ErrCodeInvalidInput, "invalid arguments: %v", err)
	}
	return checkKeys(raw, v)
}

// checkKeys rejects argument names that differ from the declared ones.
// encoding/json matches keys case-insensitively, so "canvasID" would
// otherwise bind to canvasId.
func checkKeys(raw json.RawMessage, v any) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	known := make(map[string]bool, t.NumField())
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			known[name] = true
		}
	}
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		if !known[k] {
			return errs.New(errs.ErrCodeInvalidInput, "invalid arguments: unknown field %q", k)
		}
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	if strings.HasSuffix(word, "s") || strings.HasSuffix(word, "ch") {
		return fmt.Sprintf("%d %ses", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
