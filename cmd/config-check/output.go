package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/arlet-state/internal/config"
)

// printValidationTable renders the loaded configuration and the per-group
// validation verdicts as a console table.
func printValidationTable(cfg *config.Config, results map[string]bool) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("ARL-ET CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Group", "Setting", "Value", "Status"})

	t.AppendRows([]table.Row{
		{"firebase", "Project ID", cfg.Firebase.ProjectID, verdict(results["firebase"])},
		{"", "Credentials", cfg.Firebase.CredentialsPath, ""},
		{"", "Collection Prefix", cfg.Firebase.CollectionPrefix, ""},
	})
	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"trading", "Exchange", cfg.Trading.DefaultExchange, verdict(results["trading"])},
		{"", "Symbol", cfg.Trading.DefaultSymbol, ""},
		{"", "Timeframe", cfg.Trading.DataTimeframe, ""},
		{"", "Max Position Size", fmt.Sprintf("%.4f", cfg.Trading.MaxPositionSize), ""},
		{"", "Risk Per Trade", fmt.Sprintf("%.4f", cfg.Trading.RiskPerTrade), ""},
	})
	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"rl", "Learning Rate", fmt.Sprintf("%.4f", cfg.RL.LearningRate), verdict(results["rl"])},
		{"", "Discount Factor", fmt.Sprintf("%.2f", cfg.RL.DiscountFactor), ""},
		{"", "Exploration Rate", fmt.Sprintf("%.2f", cfg.RL.ExplorationRate), ""},
		{"", "Batch Size", fmt.Sprintf("%d", cfg.RL.BatchSize), ""},
		{"", "Memory Size", fmt.Sprintf("%d", cfg.RL.MemorySize), ""},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 10, Align: text.AlignLeft},
		{Number: 2, WidthMin: 18, Align: text.AlignLeft},
		{Number: 3, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
		{Number: 4, WidthMin: 8, Align: text.AlignCenter},
	})

	t.Render()
	fmt.Println()
}

func verdict(passed bool) string {
	if passed {
		return "✅ PASS"
	}
	return "❌ FAIL"
}
