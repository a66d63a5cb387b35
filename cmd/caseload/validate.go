package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/covid-case-etl/internal/adapter/filesink"
	"github.com/couchcryptid/covid-case-etl/internal/domain"
)

var errValidationFailed = errors.New("validation failed")

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.jsonl>",
		Short: "Check a JSON lines dataset written by load",
		Long: "Re-check the dataset invariants on a load output: every record has a\n" +
			"location and a last_update, records are sorted by (location,\n" +
			"last_update), and date is the short form of last_update.",
		Args:         cobra.ExactArgs(1),
		RunE:         runValidate,
		SilenceUsage: true,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := filesink.ReadJSONL(f)
	if err != nil {
		return err
	}

	return report(cmd.OutOrStdout(), len(records), []*phase{
		validateKeys(records),
		validateOrder(records),
		validateDates(records),
	})
}

func report(w io.Writer, n int, phases []*phase) error {
	fmt.Fprintln(w, "=== Case Dataset Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d\n", n)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if !allPassed {
		return errValidationFailed
	}
	fmt.Fprintln(w, "\nAll validations passed.")
	return nil
}

func validateKeys(records []domain.CaseRecord) *phase {
	p := &phase{name: "Location and last_update present"}
	for i, r := range records {
		if r.Location == "" {
			p.errorf("record %d: empty location", i+1)
		}
		if r.LastUpdate.IsZero() {
			p.errorf("record %d (%s): missing last_update", i+1, r.Location)
		}
	}
	return p
}

func validateOrder(records []domain.CaseRecord) *phase {
	p := &phase{name: "Sorted by (location, last_update)"}
	for i := 1; i < len(records); i++ {
		if domain.CompareRecords(records[i-1], records[i]) > 0 {
			p.errorf("record %d (%s) sorts after record %d (%s)",
				i, records[i-1].Key(), i+1, records[i].Key())
		}
	}
	return p
}

func validateDates(records []domain.CaseRecord) *phase {
	p := &phase{name: "date matches last_update"}
	for i, r := range records {
		if want := r.LastUpdate.UTC().Format(domain.DateLayout); r.Date != want {
			p.errorf("record %d (%s): date %q, want %q", i+1, r.Location, r.Date, want)
		}
	}
	return p
}
