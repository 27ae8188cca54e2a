package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/pkg/layout"
	"github.com/matzehuels/canvaskit/pkg/service"
)

func algorithmNames() []string {
	names := make([]string, len(layout.Algorithms))
	for i, a := range layout.Algorithms {
		names[i] = a.String()
	}
	return names
}

func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout <canvas-id> <algorithm>",
		Short: "Re-arrange every node of a canvas",
		Long: `Re-arrange every node of a canvas.

Algorithms:
  horizontal  one row, left to right
  vertical    one column, top to bottom
  grid        rows of ceil(sqrt(n)) columns
  radial      first node in the centre, the rest on a circle
  tree        levels by distance from the roots`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return algorithmNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				prog := newProgress(loggerFromContext(ctx))
				doc, err := svc.ApplyLayout(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Arranged %d nodes", doc.NodeCount()))
				printSuccess("Applied %s layout to %s", args[1], StyleHighlight.Render(doc.Name))
				return nil
			})
		},
	}
	return cmd
}

func (c *CLI) mindmapCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:     "mindmap <central-topic> [branch...]",
		Short:   "Create a mindmap with branches around a central topic",
		Example: `  canvaskit mindmap Q1 Hiring Budget Roadmap --name "Q1 Planning"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = args[0]
			}
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				doc, err := svc.CreateMindmap(ctx, name, args[0], args[1:])
				if err != nil {
					return err
				}
				printSuccess("Created mindmap %s", StyleHighlight.Render(doc.Name))
				printKeyValue("ID", doc.ID)
				printStats(doc.NodeCount(), doc.ConnectionCount())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "canvas name (default: the central topic)")
	return cmd
}

func (c *CLI) branchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "branch <canvas-id> <parent-node-id> <topic>...",
		Short: "Add branches below an existing mindmap node",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				added, err := svc.AddBranches(ctx, args[0], args[1], args[2:])
				if err != nil {
					return err
				}
				printSuccess("Added %d branches to %s", len(added), args[1])
				for _, n := range added {
					printDetail("%s  %s", n.ID, firstLine(n.Label))
				}
				return nil
			})
		},
	}
}

func (c *CLI) workflowCommand() *cobra.Command {
	var (
		template string
		steps    []string
	)

	cmd := &cobra.Command{
		Use:   "workflow <name>",
		Short: "Create a left-to-right workflow from a template or custom steps",
		Long: fmt.Sprintf(`Create a left-to-right workflow from a template or custom steps.

Templates: %s
Custom steps override the template: the first is a source, the last an
output and the rest are process steps.`, strings.Join(layout.TemplateNames(), ", ")),
		Example: `  canvaskit workflow Review --template literature-review
  canvaskit workflow Pipeline --step Fetch --step Clean --step Report`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if template == "" && len(steps) == 0 {
				return errors.New("need --template or at least one --step")
			}
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				doc, err := svc.CreateWorkflow(ctx, args[0], template, steps)
				if err != nil {
					return err
				}
				printSuccess("Created workflow %s", StyleHighlight.Render(doc.Name))
				printKeyValue("ID", doc.ID)
				printStats(doc.NodeCount(), doc.ConnectionCount())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "built-in template name")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "custom step title (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("template", cobra.FixedCompletions(
		layout.TemplateNames(), cobra.ShellCompDirectiveNoFileComp))
	return cmd
}
