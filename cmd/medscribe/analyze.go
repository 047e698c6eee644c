package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/medscribe/internal/apperror"
	"github.com/nguyentantai21042004/medscribe/internal/report"
	"github.com/nguyentantai21042004/medscribe/internal/watcher"
)

type analyzeOutput struct {
	Transcript string `json:"transcript"`
	Analysis   string `json:"analysis"`
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var reportDir string

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Run the pipeline once on a local recording and print the JSON result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.processor.ProcessFile(cmd.Context(), args[0])
			if err != nil {
				return errors.New(apperror.From(err).PublicMessage())
			}

			out := analyzeOutput{Transcript: res.Transcript, Analysis: res.Analysis.Render()}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(out); err != nil {
				return err
			}

			if reportDir == "" {
				return nil
			}
			name := filepath.Base(args[0])
			files, err := report.Write(reportDir, watcher.ReportStem(name), report.Report{
				Source:     name,
				Transcript: out.Transcript,
				Analysis:   out.Analysis,
				CreatedAt:  time.Now(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Report written: %s, %s\n", files.Markdown, files.Docx)
			return nil
		},
	}

	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Also write Markdown and DOCX reports into this directory")
	return cmd
}
