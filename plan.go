package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/antoninbas/jsonbench/filter"
	"github.com/olekukonko/tablewriter"
)

func showPlan(w io.Writer, plan []filter.Selection, commandLine []string) {
	fmt.Fprintln(w, "\nSelection")
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 9))

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"API", "Library", "Include"})
	table.SetAutoMergeCells(true)
	table.SetRowLine(true)
	for _, s := range plan {
		library := s.Library
		if library == "" {
			library = "*"
		}
		table.Append([]string{string(s.API), library, s.Pattern})
	}
	table.Render()

	fmt.Fprintf(w, "\n%s\n", strings.Join(commandLine, " "))
}
