package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/canvas"
	errs "github.com/matzehuels/canvaskit/pkg/errors"
	"github.com/matzehuels/canvaskit/pkg/geometry"
	"github.com/matzehuels/canvaskit/pkg/observability"
	"github.com/matzehuels/canvaskit/pkg/render/nodelink"
	"github.com/matzehuels/canvaskit/pkg/render/raster"
	"github.com/matzehuels/canvaskit/pkg/render/svg"
)

// Format is an export format.
type Format string

const (
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
	FormatDOT      Format = "dot"
	FormatGraphviz Format = "graphviz" // SVG laid out by Graphviz
	FormatJSON     Format = "json"
)

// Formats lists every export format.
var Formats = []Format{FormatSVG, FormatPNG, FormatDOT, FormatGraphviz, FormatJSON}

// MaxRenderSize bounds PNG export dimensions.
const MaxRenderSize = 8192

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "unknown export format %q (want one of svg, png, dot, graphviz, json)", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG, FormatGraphviz:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Extension returns the file extension of the format, without the dot.
func (f Format) Extension() string {
	if f == FormatGraphviz {
		return "svg"
	}
	return string(f)
}

// ExportOptions tunes an export. Fields that do not apply to the format
// are ignored.
type ExportOptions struct {
	Curves bool // svg: quadratic connection curves
	Width  int  // png: image width, 0 for the service default
	Height int  // png: image height, 0 for the service default
}

// Artifact is a rendered export.
type Artifact struct {
	Format      Format
	ContentType string
	Data        []byte
	Cached      bool
}

// Export loads a canvas and renders it.
func (s *Service) Export(ctx context.Context, id string, format Format, opts ExportOptions) (art *Artifact, err error) {
	defer s.track(ctx, "export_"+string(format), id)(&err)

	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ExportDocument(ctx, doc, format, opts)
}

// ExportDocument renders a document that need not be stored, such as one
// edited in an interactive session. SVG, PNG and DOT output is cached by
// content hash; JSON is encoded fresh every time.
func (s *Service) ExportDocument(ctx context.Context, doc *canvas.Document, format Format, opts ExportOptions) (*Artifact, error) {
	opts, err := s.normalize(format, opts)
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		data, err := canvas.Marshal(doc)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode canvas %s", doc.ID)
		}
		return &Artifact{Format: format, ContentType: format.ContentType(), Data: data}, nil
	}

	hash, err := cache.ContentHash(doc)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "hash canvas %s", doc.ID)
	}
	key := s.keyer.ExportKey(hash, cache.ExportKeyOpts{
		Format: string(format),
		Width:  opts.Width,
		Height: opts.Height,
		Curves: opts.Curves,
	})

	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "export")
		s.logger.Debug("export cache hit", "canvas", doc.ID, "format", format)
		return &Artifact{Format: format, ContentType: format.ContentType(), Data: data, Cached: true}, nil
	}
	observability.Cache().OnCacheMiss(ctx, "export")

	v, err, _ := s.group.Do(key, func() (any, error) {
		data, err := s.render(ctx, doc, format, opts)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("failed to cache export", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "export", len(data))
		}
		return data, nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "render %s", format)
	}
	return &Artifact{Format: format, ContentType: format.ContentType(), Data: v.([]byte)}, nil
}

// normalize fills defaults and clears options the format ignores, so that
// equivalent requests share a cache key.
func (s *Service) normalize(format Format, opts ExportOptions) (ExportOptions, error) {
	switch format {
	case FormatSVG:
		return ExportOptions{Curves: opts.Curves}, nil
	case FormatPNG:
		if opts.Width < 0 || opts.Height < 0 || opts.Width > MaxRenderSize || opts.Height > MaxRenderSize {
			return opts, errs.New(errs.ErrCodeInvalidInput, "png size %dx%d out of range (max %d)", opts.Width, opts.Height, MaxRenderSize)
		}
		if opts.Width == 0 {
			opts.Width = s.width
		}
		if opts.Height == 0 {
			opts.Height = s.height
		}
		return ExportOptions{Width: opts.Width, Height: opts.Height}, nil
	case FormatDOT, FormatGraphviz, FormatJSON:
		return ExportOptions{}, nil
	}
	return opts, errs.New(errs.ErrCodeInvalidInput, "unknown export format %q", format)
}

func (s *Service) render(ctx context.Context, doc *canvas.Document, format Format, opts ExportOptions) (data []byte, err error) {
	start := time.Now()
	observability.Render().OnRenderStart(ctx, string(format), doc.NodeCount())
	defer func() {
		observability.Render().OnRenderComplete(ctx, string(format), len(data), time.Since(start), err)
	}()

	switch format {
	case FormatSVG:
		var svgOpts []svg.Option
		if opts.Curves {
			svgOpts = append(svgOpts, svg.WithCurves())
		}
		return svg.Render(doc, svgOpts...), nil
	case FormatPNG:
		v := geometry.NewViewport(float64(opts.Width), float64(opts.Height))
		v.Fit(geometry.ContentBounds(doc.Nodes()))
		return raster.RenderPNG(doc, v, raster.WithoutGrid())
	case FormatDOT:
		return []byte(nodelink.ToDOT(doc, nodelink.Options{})), nil
	case FormatGraphviz:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(doc, nodelink.Options{}))
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// ExportSVG renders a canvas as standalone SVG.
func (s *Service) ExportSVG(ctx context.Context, id string) ([]byte, error) {
	return s.exportData(ctx, id, FormatSVG, ExportOptions{})
}

// ExportPNG renders a canvas as PNG, fitted into width×height pixels.
// Zero dimensions use the service default.
func (s *Service) ExportPNG(ctx context.Context, id string, width, height int) ([]byte, error) {
	return s.exportData(ctx, id, FormatPNG, ExportOptions{Width: width, Height: height})
}

// ExportDOT renders a canvas as Graphviz DOT source.
func (s *Service) ExportDOT(ctx context.Context, id string) ([]byte, error) {
	return s.exportData(ctx, id, FormatDOT, ExportOptions{})
}

// ExportJSON returns the persisted JSON form of a canvas.
func (s *Service) ExportJSON(ctx context.Context, id string) ([]byte, error) {
	return s.exportData(ctx, id, FormatJSON, ExportOptions{})
}

func (s *Service) exportData(ctx context.Context, id string, format Format, opts ExportOptions) ([]byte, error) {
	art, err := s.Export(ctx, id, format, opts)
	if err != nil {
		return nil, err
	}
	return art.Data, nil
}

// ImportJSON stores a document decoded from its JSON form under a new id
// with fresh timestamps. Node and connection ids are kept. Malformed input
// is an INVALID_INPUT error and nothing is stored.
func (s *Service) ImportJSON(ctx context.Context, data []byte) (doc *canvas.Document, err error) {
	defer s.track(ctx, "import", "")(&err)

	doc, err = canvas.Unmarshal(data)
	if err != nil {
		return nil, errs.From(errs.ErrCodeInvalidInput, err)
	}
	if err := errs.ValidateName(doc.Name); err != nil {
		return nil, err
	}
	doc.ID = s.newID()
	doc.CreatedAt = s.now()
	doc.UpdatedAt = doc.CreatedAt
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("imported canvas", "id", doc.ID, "name", doc.Name, "nodes", doc.NodeCount(), "connections", doc.ConnectionCount())
	return doc, nil
}
