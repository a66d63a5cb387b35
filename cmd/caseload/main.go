// Command caseload builds the cleaned COVID-19 case-count dataset from the
// JHU CSSE daily report CSVs.
//
// Usage:
//
//	caseload load --data-dir /data --output cases.jsonl
//	caseload validate cases.jsonl
package main

import (
	"context"
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("caseload failed", "error", err)
		os.Exit(1)
	}
}
