package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/pkg/canvas"
	"github.com/matzehuels/canvaskit/pkg/service"
)

func (c *CLI) createCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty canvas",
		Example: `  canvaskit create "Team Board"
  canvaskit create Ideas --type mindmap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := canvas.ParseDocumentKind(kind)
			if err != nil {
				return err
			}
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				doc, err := svc.Create(ctx, args[0], k)
				if err != nil {
					return err
				}
				printSuccess("Created %s canvas %s", doc.Kind, StyleHighlight.Render(doc.Name))
				printKeyValue("ID", doc.ID)
				printNextStep("Add a node", fmt.Sprintf("canvaskit add-node %s idea \"First idea\"", doc.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "freeform", "canvas type: mindmap, workflow or freeform")
	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(
		[]string{"mindmap", "workflow", "freeform"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (c *CLI) listCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List canvases, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				sums, err := svc.List(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(sums)
				}
				if len(sums) == 0 {
					printInfo("No canvases yet")
					printNextStep("Create one", "canvaskit create <name>")
					return nil
				}
				rows := make([][]string, len(sums))
				for i, s := range sums {
					rows[i] = []string{
						s.ID, s.Name, s.Kind.String(),
						fmt.Sprint(s.Nodes), fmt.Sprint(s.Connections),
						formatRelativeTime(s.UpdatedAt),
					}
				}
				fmt.Println(renderTable([]string{"ID", "Name", "Type", "Nodes", "Conns", "Updated"}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print summaries as JSON")
	return cmd
}

func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <canvas-id>",
		Short: "Show a canvas with its nodes and connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				doc, err := svc.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(doc.Data())
				}
				printDocument(doc)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the canvas as JSON")
	return cmd
}

func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <canvas-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a canvas",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				if err := svc.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted canvas %s", args[0])
				return nil
			})
		},
	}
}

// =============================================================================
// Output Helpers
// =============================================================================

func printDocument(doc *canvas.Document) {
	fmt.Println(StyleTitle.Render(doc.Name))
	printKeyValue("ID", doc.ID)
	printKeyValue("Type", doc.Kind.String())
	printKeyValue("Updated", formatRelativeTime(doc.UpdatedAt))
	printStats(doc.NodeCount(), doc.ConnectionCount())

	if doc.NodeCount() > 0 {
		printNewline()
		nodes := doc.Nodes()
		rows := make([][]string, len(nodes))
		for i, n := range nodes {
			rows[i] = []string{
				n.ID, n.Kind.String(), firstLine(n.Label),
				fmt.Sprintf("%g,%g", n.X, n.Y),
				fmt.Sprintf("%gx%g", n.Width, n.Height),
			}
		}
		fmt.Println(renderTable([]string{"Node", "Type", "Label", "Position", "Size"}, rows))
	}

	if doc.ConnectionCount() > 0 {
		printNewline()
		conns := doc.Connections()
		rows := make([][]string, len(conns))
		for i, cn := range conns {
			rows[i] = []string{
				cn.ID,
				cn.From + " " + iconArrow + " " + cn.To,
				cn.Style.String(),
				cn.Label,
			}
		}
		fmt.Println(renderTable([]string{"Connection", "Between", "Style", "Label"}, rows))
	}
}

func renderTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	idStyle := lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return idStyle
			default:
				return cellStyle
			}
		}).
		Render()
}

func firstLine(s string) string {
	line, _, more := strings.Cut(s, "\n")
	if more {
		return line + " …"
	}
	return line
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
