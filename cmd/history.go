package cmd

// This file contains the `history` commands for inspecting past runs.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gsea-project/gsea-bench/pkg/config"
	"github.com/gsea-project/gsea-bench/pkg/flags"
	"github.com/gsea-project/gsea-bench/pkg/report"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	historyCmd.PersistentFlags().
		StringP(flags.OutputFlag.Full, flags.OutputFlag.Short, "", "results directory holding the history db")

	historyCmd.AddCommand(historyShowCmd)
}

func historyPath(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString(flags.OutputFlag.Full)
	if dir == "" {
		dir = config.Global.Results.Dir
	}
	path := filepath.Join(dir, "history.db")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no run history found at %s", path)
	}
	return path, nil
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past benchmark runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := historyPath(cmd)
		if err != nil {
			return err
		}

		metas, err := report.NewHistory(path).List()
		if err != nil {
			return err
		}
		if len(metas) == 0 {
			fmt.Println("No recorded runs")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Run ID", "Time", "Tests", "Failures", "Leaks", "Zombies"})
		for _, m := range metas {
			table.Append([]string{
				m.ID,
				m.Timestamp.Format("2006-01-02 15:04:05"),
				strconv.Itoa(m.Tests),
				strconv.Itoa(m.Failures),
				strconv.Itoa(m.Leaks),
				strconv.Itoa(m.Zombies),
			})
		}
		table.Render()

		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the records of one past run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := historyPath(cmd)
		if err != nil {
			return err
		}

		records, err := report.NewHistory(path).Get(args[0])
		if err != nil {
			return err
		}

		report.PrintSummary(os.Stdout, records)

		return nil
	},
}
