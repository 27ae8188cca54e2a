package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/pkg/geometry"
	"github.com/matzehuels/canvaskit/pkg/interact"
	"github.com/matzehuels/canvaskit/pkg/service"
)

func formatNames() []string {
	names := make([]string, len(service.Formats))
	for i, f := range service.Formats {
		names[i] = string(f)
	}
	return names
}

func (c *CLI) exportCommand() *cobra.Command {
	var (
		format, output string
		curves         bool
		width, height  int
	)

	cmd := &cobra.Command{
		Use:   "export <canvas-id>",
		Short: "Export a canvas as SVG, PNG, DOT, Graphviz SVG or JSON",
		Long: `Export a canvas.

Formats:
  svg       vector drawing of the canvas (default)
  png       raster image fitted to the content
  dot       Graphviz source
  graphviz  SVG laid out by Graphviz
  json      the persisted document, for import

Output goes to <canvas-id>.<ext> unless -o is given; -o - writes to stdout.`,
		Example: `  canvaskit export 3f2a… --curves
  canvaskit export 3f2a… -f png --width 1600 --height 1000 -o board.png
  canvaskit export 3f2a… -f json -o - > backup.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := service.ParseFormat(format)
			if err != nil {
				return err
			}
			opts := service.ExportOptions{Curves: curves, Width: width, Height: height}
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", f))
				spinner.Start()
				art, err := svc.Export(ctx, args[0], f, opts)
				spinner.Stop()
				if err != nil {
					return err
				}
				if output == "" {
					output = args[0] + "." + f.Extension()
				}
				return writeArtifact(output, art)
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&format, "format", "f", string(service.FormatSVG), "output format")
	fs.StringVarP(&output, "output", "o", "", "output file, or - for stdout")
	fs.BoolVar(&curves, "curves", false, "draw connections as curves (svg)")
	fs.IntVar(&width, "width", 0, "image width in pixels (png)")
	fs.IntVar(&height, "height", 0, "image height in pixels (png)")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(formatNames(), cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func writeArtifact(output string, art *service.Artifact) error {
	if output == "-" {
		_, err := os.Stdout.Write(art.Data)
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(output, art.Data, 0o644); err != nil {
		return err
	}
	printSuccess("Exported %s", art.Format)
	printFile(output)
	printCacheStatus(len(art.Data), art.Cached)
	return nil
}

func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a canvas exported as JSON under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				doc, err := svc.ImportJSON(ctx, data)
				if err != nil {
					return err
				}
				printSuccess("Imported %s", StyleHighlight.Render(doc.Name))
				printKeyValue("ID", doc.ID)
				printStats(doc.NodeCount(), doc.ConnectionCount())
				return nil
			})
		},
	}
}

func (c *CLI) replayCommand() *cobra.Command {
	var (
		dryRun        bool
		width, height float64
		format        string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "replay <canvas-id> <events.json|->",
		Short: "Apply a recorded pointer and keyboard session to a canvas",
		Long: `Apply a recorded session of pointer and keyboard events to a canvas.

Events are a JSON array; coordinates are screen pixels in a viewport of
--width x --height at zoom 1 with no pan. As in the editor, the padded
content is centred in the viewport, so a canvas holding one 160x60 node
shows it centred at (600, 400) in the default 1200x800 view. Dragging it
200 pixels right and 100 down, then editing its label:

  [
    {"type": "down", "x": 600, "y": 400},
    {"type": "move", "x": 800, "y": 500},
    {"type": "up",   "x": 800, "y": 500},
    {"type": "dblclick", "x": 600, "y": 400},
    {"type": "text", "text": " (revised)"},
    {"type": "key",  "key": "enter"}
  ]

Types: down (with "shift"), move, up, dblclick, wheel ("deltaY"), key
(enter, escape, delete, backspace), text and connect ("on").
The edited canvas is saved unless --dry-run is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(args[1])
			if err != nil {
				return err
			}
			events, err := interact.DecodeEvents(bytes.NewReader(raw))
			if err != nil {
				return err
			}
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				doc, err := svc.Get(ctx, args[0])
				if err != nil {
					return err
				}
				ctrl := interact.New(doc, geometry.NewViewport(width, height))
				if err := ctrl.Replay(events); err != nil {
					return err
				}
				loggerFromContext(ctx).Debug("replayed events", "count", len(events), "state", ctrl.State(), "selection", ctrl.Selection())

				switch {
				case !ctrl.Dirty():
					printInfo("Replayed %d events; canvas unchanged", len(events))
				case dryRun:
					printWarning("Replayed %d events; changes not saved (--dry-run)", len(events))
				default:
					if err := svc.Save(ctx, ctrl.Document()); err != nil {
						return err
					}
					ctrl.MarkSaved()
					printSuccess("Replayed %d events and saved %s", len(events), StyleHighlight.Render(doc.Name))
				}
				printStats(ctrl.Document().NodeCount(), ctrl.Document().ConnectionCount())

				if format == "" {
					return nil
				}
				f, err := service.ParseFormat(format)
				if err != nil {
					return err
				}
				art, err := svc.ExportDocument(ctx, ctrl.Document(), f, service.ExportOptions{})
				if err != nil {
					return err
				}
				if output == "" {
					output = doc.ID + "." + f.Extension()
				}
				return writeArtifact(output, art)
			})
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&dryRun, "dry-run", false, "replay without saving")
	fs.Float64Var(&width, "width", service.DefaultRenderWidth, "viewport width in pixels")
	fs.Float64Var(&height, "height", service.DefaultRenderHeight, "viewport height in pixels")
	fs.StringVarP(&format, "export", "e", "", "also export the result in this format")
	fs.StringVarP(&output, "output", "o", "", "export destination, or - for stdout")
	return cmd
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
