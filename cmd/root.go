// =============================================================================
// XLSX to CSV Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// performs the conversion itself; 'version' is the only subcommand.
//
// COBRA CLI STRUCTURE:
//   rootCmd (xlsx2csv -i <input> [-o <output>] [-d <delimiter>] [--sheet <name>])
//   └── versionCmd (xlsx2csv version)
//
// CONFIGURATION:
//   Settings are resolved in this order, later wins:
//   1. Built-in defaults (sheet "Tabelle1", delimiter "|")
//   2. The YAML file named by --config (optional when left at its default)
//   3. Flags given on the command line
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ginjaninja78/xlsx2csv/internal/config"
	"github.com/ginjaninja78/xlsx2csv/internal/converter"
	"github.com/ginjaninja78/xlsx2csv/internal/types"
	"github.com/ginjaninja78/xlsx2csv/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// defaultConfigFile is read when present; its absence is not an error.
const defaultConfigFile = "xlsx2csv.yaml"

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// inputPath is the workbook to convert.
var inputPath string

// outputPath is the destination; empty means derive it from inputPath.
var outputPath string

// delimiter separates the output fields.
var delimiter string

// sheetName overrides the worksheet to read.
var sheetName string

// useCRLF switches the line terminator to "\r\n".
var useCRLF bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "xlsx2csv",
	Short: "Extract ExperienceProductID and OptionID from an XLSX sheet into a delimited file",
	Long: `xlsx2csv reads the worksheet "Tabelle1" of an XLSX workbook and writes its
ExperienceProductID and OptionID columns to a delimited text file.

Columns are located by header name; other columns are ignored. Values are
trimmed of surrounding whitespace. The output starts with the header line
"ExperienceProductID<delimiter>OptionID" and has no line break after the
last record.

Example Usage:
  xlsx2csv -i export.xlsx                # writes export.csv
  xlsx2csv -i export.xlsx -o ids.txt -d ,`,

	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd)
	},
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if code := execute(os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// execute runs the root command, reports any error to stderr and returns the
// process exit code.
func execute(stderr io.Writer) int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		defaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Workbook to convert (required)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file [default: input path with a .csv extension]")
	rootCmd.Flags().StringVarP(&delimiter, "delimiter", "d", config.DefaultDelimiter, "Single character placed between fields")
	rootCmd.Flags().StringVar(&sheetName, "sheet", types.DefaultSheetName, "Worksheet to read")
	rootCmd.Flags().BoolVar(&useCRLF, "crlf", false, `Terminate lines with "\r\n"`)

	_ = rootCmd.MarkFlagRequired("input")
}

// =============================================================================
// CONVERSION
// =============================================================================

// runConvert resolves the settings and converts the input workbook.
func runConvert(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	delim, err := cfg.DelimiterByte()
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	output := outputPath
	if output == "" {
		output = utils.DefaultOutputPath(inputPath)
	}

	conv := converter.New(converter.Options{
		SheetName: cfg.SheetName,
		Delimiter: delim,
		UseCRLF:   cfg.UseCRLF,
		Logger:    logger,
	})

	_, err = conv.Convert(inputPath, output)
	return err
}

// loadConfig reads the configuration file and applies changed flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	optional := !cmd.Flags().Changed("config")

	cfg, err := config.Load(cfgFile, optional)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		cfg.Delimiter = delimiter
	}
	if flags.Changed("sheet") {
		cfg.SheetName = sheetName
	}
	if flags.Changed("crlf") {
		cfg.UseCRLF = useCRLF
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newLogger builds the text logger used for progress output.
func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
