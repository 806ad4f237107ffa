package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// PrintTable renders header and rows as a boxed table.
func PrintTable(w io.Writer, header []string, rows [][]string) error {
	data := make([][]string, 0, len(rows)+1)
	data = append(data, header)
	data = append(data, rows...)

	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	_, err = fmt.Fprintln(w, str)

	return err
}
