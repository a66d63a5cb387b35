package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caseload",
		Short: "Clean JHU CSSE COVID-19 daily reports into one case-count dataset",
		Long: `caseload reads every daily report CSV in the JHU CSSE COVID-19 repository,
reconciles both header schemas and the location columns, and writes one
dataset sorted by (location, last_update).

Settings come from environment variables (DATA_DIR, OUTPUT_PATH, ...);
flags override them.

Quick start:
  caseload load --data-dir . --output cases.jsonl
  caseload validate cases.jsonl`,
		SilenceErrors: true,
	}

	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newValidateCmd())

	return cmd
}
