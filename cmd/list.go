package cmd

import (
	"fmt"
	"strings"

	"spawnc/internal/config"
	"spawnc/internal/container"
	"spawnc/pkg/logger"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	listHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	listCellStyle   = lipgloss.NewStyle().PaddingRight(3)
	listDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured container definitions",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			logger.Fatal("Failed to load config", "error", err)
		}

		defs := cfg.Definitions()
		if len(defs) == 0 {
			fmt.Println(listDimStyle.Render("no container definitions"))
			return
		}

		rows := [][]string{{"NAME", "SOURCE", "NETWORK", "AUTOSTART", "RESTART", "BINDS"}}
		for _, d := range defs {
			rows = append(rows, []string{
				d.Name,
				sourceColumn(d),
				networkColumn(d),
				yesNoColumn(d.AutoStart),
				yesNoColumn(d.RestartIfChanged),
				fmt.Sprintf("%d", len(d.Binds)),
			})
		}
		fmt.Println(renderTable(rows))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func sourceColumn(d container.Definition) string {
	if d.Config != "" {
		return "inline"
	}
	return d.SystemPath
}

func networkColumn(d container.Definition) string {
	if d.Network.Mode == container.ModeZone {
		return "zone:" + d.Network.Zone
	}
	return d.Network.Mode
}

func yesNoColumn(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func renderTable(rows [][]string) string {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			padded := cell + strings.Repeat(" ", widths[i]-len(cell))
			if r == 0 {
				cells[i] = listHeaderStyle.Render(listCellStyle.Render(padded))
			} else {
				cells[i] = listCellStyle.Render(padded)
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
