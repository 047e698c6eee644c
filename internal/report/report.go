// Package report renders a finished analysis as Markdown and DOCX files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report is one finished pipeline run.
type Report struct {
	Source     string
	Transcript string
	Analysis   string
	CreatedAt  time.Time
}

// Files are the paths written by Write.
type Files struct {
	Markdown string
	Docx     string
}

// Write renders r into dir as <stem>.md and <stem>.docx.
func Write(dir, stem string, r Report) (Files, error) {
	if stem == "" {
		return Files{}, fmt.Errorf("report: empty file stem")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create report dir: %w", err)
	}

	files := Files{
		Markdown: filepath.Join(dir, stem+".md"),
		Docx:     filepath.Join(dir, stem+".docx"),
	}

	md := Markdown(r)
	if err := os.WriteFile(files.Markdown, []byte(md), 0o644); err != nil {
		return Files{}, fmt.Errorf("write markdown report: %w", err)
	}
	if err := markdownToDocx(title(r), r.Transcript, r.Analysis, files.Docx); err != nil {
		return Files{}, fmt.Errorf("write docx report: %w", err)
	}
	return files, nil
}

// Markdown renders the report body. The analysis is already Markdown and is
// embedded as is.
func Markdown(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title(r))
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "_Dibuat: %s_\n\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	b.WriteString("## Transkrip\n\n")
	for _, line := range strings.Split(r.Transcript, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			b.WriteString(line)
			b.WriteString("\n\n")
		}
	}
	b.WriteString("## Analisis\n\n")
	b.WriteString(strings.TrimSpace(r.Analysis))
	b.WriteString("\n")
	return b.String()
}

func title(r Report) string {
	if r.Source == "" {
		return "Analisis Percakapan"
	}
	return "Analisis Percakapan: " + r.Source
}
