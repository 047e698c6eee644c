package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/medscribe/internal/logger"
	"github.com/nguyentantai21042004/medscribe/internal/processor"
	"github.com/nguyentantai21042004/medscribe/internal/report"
)

// ReportHandler runs each file through proc and writes its report into
// reportDir. The source recording is left in the inbox.
func ReportHandler(proc processor.Processor, reportDir string, log logger.Logger) EventHandler {
	return func(ctx context.Context, path string) error {
		res, err := proc.ProcessFile(ctx, path)
		if err != nil {
			return err
		}

		name := filepath.Base(path)
		files, err := report.Write(reportDir, ReportStem(name), report.Report{
			Source:     name,
			Transcript: res.Transcript,
			Analysis:   res.Analysis.Render(),
			CreatedAt:  time.Now(),
		})
		if err != nil {
			return fmt.Errorf("write report for %s: %w", name, err)
		}

		log.Info(ctx, "Report written: %s, %s", files.Markdown, files.Docx)
		return nil
	}
}

// ReportStem is the report file name for a recording: its sanitized name
// without the extension.
func ReportStem(name string) string {
	stem := processor.SecureFilename(strings.TrimSuffix(name, filepath.Ext(name)))
	if stem == "" {
		return "report"
	}
	return stem
}
