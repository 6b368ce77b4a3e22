package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/gallery"
)

var listDeps bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the gallery examples",
	Long: `List every gallery route with its validation mode and where its form
view is placed. Use --deps to show the modules the gallery is built on.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listDeps, "deps", false, "list module dependencies instead of routes")
}

var headingStyle = lipgloss.NewStyle().Bold(true)

func runList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if listDeps {
		var runtime, dev [][]string
		for _, dep := range gallery.Dependencies() {
			row := []string{dep.Path, dep.Version, dep.Purpose}
			if dep.Dev {
				dev = append(dev, row)
			} else {
				runtime = append(runtime, row)
			}
		}
		fmt.Fprintln(out, headingStyle.Render("Dependencies"))
		fmt.Fprintln(out, newTable("Module", "Version", "Used for").Rows(runtime...).Render())
		fmt.Fprintln(out, headingStyle.Render("Dev Dependencies"))
		fmt.Fprintln(out, newTable("Module", "Version", "Used for").Rows(dev...).Render())
		return nil
	}

	rows := make([][]string, 0)
	for _, e := range gallery.Routes() {
		mode, placement := "-", "-"
		if m, err := e.NewMachine(); err == nil {
			mode = m.Mode().String()
			placement = e.Placement.String()
		}
		rows = append(rows, []string{e.Path, e.Title, mode, placement, e.Description})
	}
	fmt.Fprintln(out, newTable("Route", "Title", "Mode", "Placement", "Description").Rows(rows...).Render())
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})
}
