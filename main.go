// =============================================================================
// XLSX to CSV Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the xlsx2csv CLI application. It hands
// control to the Cobra command tree in the cmd package.
//
// USAGE:
//   xlsx2csv -i export.xlsx                 - Write export.csv next to the input
//   xlsx2csv -i export.xlsx -o ids.txt -d , - Custom output path and delimiter
//   xlsx2csv version                        - Display the application version
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/xlsx2csv/cmd"
)

func main() {
	cmd.Execute()
}
