package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dqtools/datachecker/pkg/dataset"
	"github.com/dqtools/datachecker/pkg/logger"
	"github.com/dqtools/datachecker/pkg/validator"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <data-file>",
	Short: "Validate a dataset against a schema and export the QA log",
	Long: `Validate a CSV dataset against a declarative schema.

Every check's outcome is recorded in the QA log, which is exported to the
destination file before the pass/fail policy is applied. In hard-check mode
(the default) any failing error-severity check makes the command exit
non-zero; --soft downgrades those failures to warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Flags for check command
	checkCmd.Flags().StringP("schema", "s", "", "path to the schema file (json, yaml or toml)")
	checkCmd.Flags().StringP("out", "o", "qa_log.json", "destination file for the QA log")
	checkCmd.Flags().StringP("format", "f", "", "log export format (json, yaml, csv, txt, html); defaults to the destination extension")
	checkCmd.Flags().Bool("soft", false, "report failing error-severity checks as warnings instead of failing")
	_ = checkCmd.MarkFlagRequired("schema")

	// Bind flags to viper
	_ = viper.BindPFlag("schema", checkCmd.Flags().Lookup("schema"))
	_ = viper.BindPFlag("out", checkCmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("format", checkCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("soft", checkCmd.Flags().Lookup("soft"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	slog.SetDefault(logger)

	dataFile := args[0]
	slog.Debug("loading dataset", "file", dataFile)
	ds, err := dataset.ReadCSV(dataFile)
	if err != nil {
		return err
	}
	slog.Debug("dataset loaded", "columns", len(ds.Columns()), "rows", ds.NumRows())

	out := viper.GetString("out")
	format := viper.GetString("format")
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(out), ".")
	}

	opts := []validator.Option{validator.WithLogger(logger)}
	if viper.GetBool("soft") {
		opts = append(opts, validator.WithSoftCheck())
	}

	session, err := validator.CheckAndExport(viper.GetString("schema"), ds, out, format, opts...)
	if session != nil {
		fmt.Fprintln(cmd.OutOrStdout(), session.Log.String())
	}
	if err != nil {
		return err
	}

	slog.Info("QA log exported", "file", out, "format", format)
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("debug") {
		level = slog.LevelDebug
	} else if viper.GetBool("verbose") {
		level = slog.LevelInfo
	}
	return logger.NewWithLevel(level)
}
