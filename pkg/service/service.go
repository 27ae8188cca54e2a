// Package service implements the canvas document operations shared by the
// tool surface, the REST API and the CLI.
//
// Every operation that names a canvas resolves it through the [store.Store]
// first and reports a NOT_FOUND [errs.Error] when it is absent. Mutations
// are a full read-modify-write of the document: load, change in memory,
// stamp UpdatedAt, save. There is no version token, so concurrent writers
// race and the last save wins.
//
// Errors returned by a Service always carry a code from pkg/errors:
//
//	doc, err := svc.AddConnection(ctx, id, canvas.ConnectionSpec{From: a, To: b})
//	if errs.Is(err, errs.ErrCodeInvalidReference) {
//	    // one endpoint does not exist; the document is unchanged
//	}
//
// # Exports
//
// SVG, PNG and DOT exports are cached by a hash of the document content
// (see [cache.ContentHash]), so re-exporting an unchanged canvas is a cache
// hit even after its timestamps moved. Concurrent identical exports are
// coalesced into one render.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/canvas"
	errs "github.com/matzehuels/canvaskit/pkg/errors"
	"github.com/matzehuels/canvaskit/pkg/layout"
	"github.com/matzehuels/canvaskit/pkg/observability"
	"github.com/matzehuels/canvaskit/pkg/store"
)

// Default PNG export size in pixels.
const (
	DefaultRenderWidth  = 1200
	DefaultRenderHeight = 800
)

// Service runs document operations against a store.
//
// A Service is safe for concurrent use; it holds no document state between
// calls.
type Service struct {
	store  *store.Store
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
	now    func() time.Time
	newID  func() string
	width  int
	height int

	group singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables export caching. A non-positive ttl uses cache.DefaultTTL.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithKeyer replaces the export cache keyer.
func WithKeyer(k cache.Keyer) Option { return func(s *Service) { s.keyer = k } }

// WithLogger sets the logger for operation events.
func WithLogger(l *log.Logger) Option { return func(s *Service) { s.logger = l } }

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDGenerator replaces canvas.NewID for new document ids.
func WithIDGenerator(fn func() string) Option { return func(s *Service) { s.newID = fn } }

// WithRenderSize sets the default PNG export size.
func WithRenderSize(width, height int) Option {
	return func(s *Service) {
		if width > 0 {
			s.width = width
		}
		if height > 0 {
			s.height = height
		}
	}
}

// New creates a service over st. Without options exports are not cached.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		ttl:    cache.DefaultTTL,
		logger: log.Default(),
		now:    time.Now,
		newID:  canvas.NewID,
		width:  DefaultRenderWidth,
		height: DefaultRenderHeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store { return s.store }

// Create stores a new empty document.
func (s *Service) Create(ctx context.Context, name string, kind canvas.DocumentKind) (doc *canvas.Document, err error) {
	defer s.track(ctx, "create", "")(&err)

	doc, err = s.newDocument(name, kind)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("created canvas", "id", doc.ID, "name", doc.Name, "type", doc.Kind)
	return doc, nil
}

// Get loads a document.
func (s *Service) Get(ctx context.Context, id string) (doc *canvas.Document, err error) {
	defer s.track(ctx, "get", id)(&err)
	return s.load(ctx, id)
}

// List returns summaries of every stored document, most recently updated
// first.
func (s *Service) List(ctx context.Context) (out []store.Summary, err error) {
	defer s.track(ctx, "list", "")(&err)

	out, err = s.store.List(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "list canvases")
	}
	return out, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	defer s.track(ctx, "delete", id)(&err)

	err = s.store.Delete(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errs.NotFound("canvas", id)
	case err != nil:
		return errs.Wrap(errs.ErrCodeInternal, err, "delete canvas %s", id)
	}
	s.logger.Info("deleted canvas", "id", id)
	return nil
}

// Save persists a document edited in memory, for example by an interactive
// session, and stamps its UpdatedAt. The document must already have an id
// and a name.
func (s *Service) Save(ctx context.Context, doc *canvas.Document) (err error) {
	defer s.track(ctx, "save", doc.ID)(&err)

	if doc.ID == "" {
		return errs.New(errs.ErrCodeInvalidInput, "canvas has no id")
	}
	if err := errs.ValidateName(doc.Name); err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now()
	}
	doc.UpdatedAt = s.now()
	return s.save(ctx, doc)
}

// ApplyLayout repositions every node with the named algorithm.
func (s *Service) ApplyLayout(ctx context.Context, id, algorithm string) (*canvas.Document, error) {
	alg, err := layout.ParseAlgorithm(algorithm)
	if err != nil {
		return nil, errs.From(errs.ErrCodeInvalidInput, err)
	}
	return s.mutate(ctx, "apply_layout", id, func(doc *canvas.Document) error {
		return layout.Apply(doc, alg)
	})
}

func (s *Service) newDocument(name string, kind canvas.DocumentKind) (*canvas.Document, error) {
	if err := errs.ValidateName(name); err != nil {
		return nil, err
	}
	doc, err := canvas.New(s.newID(), name, kind)
	if err != nil {
		return nil, classify(err)
	}
	doc.CreatedAt = s.now()
	doc.UpdatedAt = doc.CreatedAt
	return doc, nil
}

// mutate loads id, applies fn and saves the result. Nothing is saved when
// fn fails.
func (s *Service) mutate(ctx context.Context, op, id string, fn func(*canvas.Document) error) (doc *canvas.Document, err error) {
	defer s.track(ctx, op, id)(&err)

	doc, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, classify(err)
	}
	doc.UpdatedAt = s.now()
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) load(ctx context.Context, id string) (*canvas.Document, error) {
	doc, err := s.store.Load(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, errs.NotFound("canvas", id)
	case err != nil:
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "load canvas %s", id)
	}
	return doc, nil
}

func (s *Service) save(ctx context.Context, doc *canvas.Document) error {
	if err := s.store.Save(ctx, doc); err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			return errs.From(errs.ErrCodeInvalidInput, err)
		}
		return errs.Wrap(errs.ErrCodeInternal, err, "save canvas %s", doc.ID)
	}
	return nil
}

// track reports an operation to the service hooks. Call it deferred with
// the address of the named error result.
func (s *Service) track(ctx context.Context, op, id string) func(*error) {
	start := time.Now()
	observability.Service().OnOperationStart(ctx, op, id)
	return func(errp *error) {
		elapsed := time.Since(start)
		observability.Service().OnOperationComplete(ctx, op, id, elapsed, *errp)
		if *errp != nil {
			s.logger.Debug("operation failed", "op", op, "canvas", id, "code", errs.GetCode(*errp), "err", *errp)
			return
		}
		s.logger.Debug("operation done", "op", op, "canvas", id, "duration", elapsed)
	}
}

// classify maps model errors onto error codes. Errors that already carry
// a code pass through.
func classify(err error) error {
	var coded *errs.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &coded):
		return err
	case errors.Is(err, canvas.ErrUnknownSourceNode), errors.Is(err, canvas.ErrUnknownTargetNode):
		return errs.From(errs.ErrCodeInvalidReference, err)
	case errors.Is(err, canvas.ErrNodeNotFound), errors.Is(err, canvas.ErrConnectionNotFound):
		return errs.From(errs.ErrCodeNotFound, err)
	case errors.Is(err, canvas.ErrMalformed),
		errors.Is(err, canvas.ErrUnknownEnum),
		errors.Is(err, canvas.ErrInvalidID),
		errors.Is(err, canvas.ErrInvalidName),
		errors.Is(err, canvas.ErrInvalidKind),
		errors.Is(err, canvas.ErrInvalidSize),
		errors.Is(err, canvas.ErrSelfConnection),
		errors.Is(err, canvas.ErrDuplicateNodeID),
		errors.Is(err, canvas.ErrDuplicateConnectionID),
		errors.Is(err, layout.ErrNoTopics),
		errors.Is(err, layout.ErrUnknownTemplate):
		return errs.From(errs.ErrCodeInvalidInput, err)
	default:
		return errs.Wrap(errs.ErrCodeInternal, err, "internal error")
	}
}
