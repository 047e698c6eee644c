package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const analysisPrompt = `Analyze the following transcript of a conversation between a doctor (Dok) and a patient (Bapak Budi) in Bahasa Indonesia.

Your tasks are:
1.  Provide a concise summary of the entire conversation in Bahasa Indonesia.
2.  Extract and list the most important points, categorizing them clearly.

Use the following Markdown format for your response:

**Ringkasan Singkat:**
[Your summary here in one paragraph]

**Poin-Poin Penting:**
- **Keluhan Pasien:** [List the patient's symptoms]
- **Diagnosis Dokter:** [State the doctor's diagnosis]
- **Rekomendasi & Resep:** [List the doctor's advice and treatment plan]
- **Instruksi Tindak Lanjut:** [State the follow-up instructions]

Here is the transcript:
---
%s
---
`

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("empty response from Gemini")

// BuildPrompt wraps transcript in the analysis template.
func BuildPrompt(transcript string) string {
	return fmt.Sprintf(analysisPrompt, transcript)
}

// Analyze sends the transcript to the model and returns its raw answer.
func (s *implSummarizer) Analyze(ctx context.Context, transcript string) Result {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info(ctx, "Sending request to Vertex AI Gemini (%s)...", s.model)
	start := time.Now()

	text, err := s.generator.Generate(ctx, s.model, BuildPrompt(transcript))
	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("no response within %s: %w", s.timeout, err)
		}
		s.logger.Error(ctx, "Error during Gemini analysis: %v", err)
		return Result{Err: err}
	}

	s.logger.Info(ctx, "Response from Gemini received in %s.", time.Since(start).Round(time.Millisecond))
	return Result{Text: text}
}
