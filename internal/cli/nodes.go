package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/canvaskit/pkg/canvas"
	"github.com/matzehuels/canvaskit/pkg/service"
)

// styleFlags collects the node style flags shared by add-node and update-node.
type styleFlags struct {
	fill, border, text, font string
	fontSize, borderWidth    float64
}

func (s *styleFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&s.fill, "fill", "", "background color (#rrggbb)")
	fs.StringVar(&s.border, "border", "", "border color (#rrggbb)")
	fs.StringVar(&s.text, "text-color", "", "label color (#rrggbb)")
	fs.StringVar(&s.font, "font", "", "font family")
	fs.Float64Var(&s.fontSize, "font-size", 0, "font size in pixels")
	fs.Float64Var(&s.borderWidth, "border-width", 0, "border width in pixels")
}

// style returns the override, or nil when no style flag was given.
func (s *styleFlags) style(fs *pflag.FlagSet) *canvas.NodeStyle {
	changed := false
	for _, name := range []string{"fill", "border", "text-color", "font", "font-size", "border-width"} {
		changed = changed || fs.Changed(name)
	}
	if !changed {
		return nil
	}
	return &canvas.NodeStyle{
		FontFamily:      s.font,
		FontSize:        s.fontSize,
		TextColor:       s.text,
		BackgroundColor: s.fill,
		BorderColor:     s.border,
		BorderWidth:     s.borderWidth,
	}
}

func (c *CLI) addNodeCommand() *cobra.Command {
	var (
		x, y, width, height float64
		imageURL            string
		style               styleFlags
	)

	cmd := &cobra.Command{
		Use:   "add-node <canvas-id> <type> <label>",
		Short: "Add a node; without --x/--y it is placed automatically",
		Long: `Add a node to a canvas.

Types: idea, task, research, note, decision, source, process, analyze, output.
A missing coordinate is chosen so the node does not overlap existing ones.`,
		Example: `  canvaskit add-node 3f2a… idea "Launch plan"
  canvaskit add-node 3f2a… decision "Go / no-go" --x 400 --y 120 --fill "#fde68a"`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: kindCompletion(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := canvas.ParseKind(args[1])
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			spec := canvas.NodeSpec{
				Kind:     kind,
				Label:    args[2],
				Width:    width,
				Height:   height,
				Style:    style.style(fs),
				ImageURL: imageURL,
			}
			if fs.Changed("x") {
				spec.X = &x
			}
			if fs.Changed("y") {
				spec.Y = &y
			}
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				n, err := svc.AddNode(ctx, args[0], spec)
				if err != nil {
					return err
				}
				printSuccess("Added %s node %s at (%g, %g)", n.Kind, StyleHighlight.Render(firstLine(n.Label)), n.X, n.Y)
				printKeyValue("ID", n.ID)
				return nil
			})
		},
	}

	fs := cmd.Flags()
	fs.Float64Var(&x, "x", 0, "left edge in document space")
	fs.Float64Var(&y, "y", 0, "top edge in document space")
	fs.Float64Var(&width, "width", 0, "width (default 160)")
	fs.Float64Var(&height, "height", 0, "height (default 60)")
	fs.StringVar(&imageURL, "image-url", "", "http(s) image shown above the label")
	style.register(fs)
	return cmd
}

func (c *CLI) updateNodeCommand() *cobra.Command {
	var (
		kind, label, imageURL string
		x, y, width, height   float64
		style                 styleFlags
	)

	cmd := &cobra.Command{
		Use:   "update-node <canvas-id> <node-id>",
		Short: "Change a node's label, type, position, size or style",
		Example: `  canvaskit update-node 3f2a… 9b1c… --label "Ship it" --x 300
  canvaskit update-node 3f2a… 9b1c… --type task --fill "#dbeafe"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			var patch canvas.NodePatch
			if fs.Changed("type") {
				k, err := canvas.ParseKind(kind)
				if err != nil {
					return err
				}
				patch.Kind = &k
			}
			if fs.Changed("label") {
				patch.Label = &label
			}
			if fs.Changed("x") {
				patch.X = &x
			}
			if fs.Changed("y") {
				patch.Y = &y
			}
			if fs.Changed("width") {
				patch.Width = &width
			}
			if fs.Changed("height") {
				patch.Height = &height
			}
			if fs.Changed("image-url") {
				patch.ImageURL = &imageURL
			}
			patch.Style = style.style(fs)

			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				n, err := svc.UpdateNode(ctx, args[0], args[1], patch)
				if err != nil {
					return err
				}
				printSuccess("Updated node %s", StyleHighlight.Render(firstLine(n.Label)))
				printDetail("%s at (%g, %g), %gx%g", n.Kind, n.X, n.Y, n.Width, n.Height)
				return nil
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&kind, "type", "", "new node type")
	fs.StringVar(&label, "label", "", "new label")
	fs.Float64Var(&x, "x", 0, "new left edge")
	fs.Float64Var(&y, "y", 0, "new top edge")
	fs.Float64Var(&width, "width", 0, "new width")
	fs.Float64Var(&height, "height", 0, "new height")
	fs.StringVar(&imageURL, "image-url", "", "new image URL (empty removes it)")
	style.register(fs)
	_ = cmd.RegisterFlagCompletionFunc("type", kindCompletion(-1))
	return cmd
}

func (c *CLI) deleteNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-node <canvas-id> <node-id>",
		Short: "Delete a node and every connection touching it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				removed, err := svc.DeleteNode(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				printSuccess("Deleted node %s", args[1])
				for _, cn := range removed {
					printDetail("removed connection %s (%s %s %s)", cn.ID, cn.From, iconArrow, cn.To)
				}
				return nil
			})
		},
	}
}

func (c *CLI) connectCommand() *cobra.Command {
	var label, style, color string

	cmd := &cobra.Command{
		Use:   "connect <canvas-id> <from-node-id> <to-node-id>",
		Short: "Connect two nodes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := canvas.ParseConnectionStyle(style)
			if err != nil {
				return err
			}
			spec := canvas.ConnectionSpec{From: args[1], To: args[2], Label: label, Style: st, Color: color}
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				cn, err := svc.AddConnection(ctx, args[0], spec)
				if err != nil {
					return err
				}
				printSuccess("Connected %s %s %s", cn.From, iconArrow, cn.To)
				printKeyValue("ID", cn.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "text drawn at the midpoint")
	cmd.Flags().StringVar(&style, "style", "solid", "line style: solid, dashed or arrow")
	cmd.Flags().StringVar(&color, "color", "", "line color (#rrggbb)")
	_ = cmd.RegisterFlagCompletionFunc("style", cobra.FixedCompletions(
		[]string{"solid", "dashed", "arrow"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (c *CLI) disconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <canvas-id> <connection-id>",
		Short: "Remove a connection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				if err := svc.DeleteConnection(ctx, args[0], args[1]); err != nil {
					return err
				}
				printSuccess("Removed connection %s", args[1])
				return nil
			})
		},
	}
}

// kindCompletion completes node kinds for positional argument pos, or for a
// flag value when pos is negative.
func kindCompletion(pos int) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if pos >= 0 && len(args) != pos {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names := make([]string, len(canvas.Kinds))
		for i, k := range canvas.Kinds {
			names[i] = k.String()
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
