// Package demo raises synthetic multi-level failures and prints their
// captured reports, exercising the full capture-classify-format pipeline
// without a running service.
package demo

import (
	"fmt"
	"os"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"

	"crashreporter/src/capture"
	"crashreporter/src/format"
)

type Demo struct{}

// Start captures and prints each demo failure to stdout.
func (d *Demo) Start() error {
	walker := capture.NewWalker()

	scenarios := []struct {
		name  string
		raise func() error
	}{
		{"nested parse failure", parseLedgerFile},
		{"missing data file", openMissingLedger},
		{"duplicate order insert", insertDuplicateOrder},
	}

	for _, scenario := range scenarios {
		logrus.WithField("scenario", scenario.name).Info("raising demo failure")

		detail := walker.Capture(scenario.raise())
		fmt.Printf("--- %s ---\n", scenario.name)
		fmt.Println(format.Format(detail, true))
	}

	return nil
}

// parseLedgerFile fails two calls deep so the captured chain carries both
// the wrapping context and the underlying cause.
func parseLedgerFile() error {
	if err := readLedgerHeader(); err != nil {
		return capture.Trace(fmt.Errorf("parsing ledger: %w", err))
	}
	return nil
}

func readLedgerHeader() error {
	return fmt.Errorf("reading header: %w", os.ErrInvalid)
}

func openMissingLedger() error {
	return capture.Trace(&os.PathError{Op: "open", Path: "/var/data/ledger.db", Err: os.ErrNotExist})
}

func insertDuplicateOrder() error {
	return capture.Trace(fmt.Errorf("insert order: %w",
		&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ord-42' for key 'PRIMARY'"}))
}
