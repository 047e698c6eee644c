package transcriber

import (
	"strconv"
	"strings"

	"cloud.google.com/go/speech/apiv1/speechpb"
)

// Word is one recognized word and the speaker it was attributed to.
// Speaker tags are opaque and shown as received.
type Word struct {
	Text       string
	SpeakerTag int32
}

// wordsFromResponse returns the words of the top alternative of the last
// result. The diarized word list is only complete in the final result.
// ok is false when there is nothing to transcribe.
func wordsFromResponse(resp *speechpb.LongRunningRecognizeResponse) (words []Word, ok bool) {
	results := resp.GetResults()
	if len(results) == 0 {
		return nil, false
	}
	alts := results[len(results)-1].GetAlternatives()
	if len(alts) == 0 {
		return nil, false
	}

	infos := alts[0].GetWords()
	words = make([]Word, 0, len(infos))
	for _, w := range infos {
		words = append(words, Word{Text: w.GetWord(), SpeakerTag: w.GetSpeakerTag()})
	}
	return words, true
}

// AssembleTranscript labels each run of consecutive words from one speaker
// with "Speaker N: " and puts every run after the first on a new line.
// The result is passed through CleanPunctuation.
func AssembleTranscript(words []Word) string {
	var lines []string
	var run []string
	for i, w := range words {
		if i == 0 || w.SpeakerTag != words[i-1].SpeakerTag {
			if i > 0 {
				lines = append(lines, strings.Join(run, " "))
			}
			run = []string{"Speaker " + strconv.FormatInt(int64(w.SpeakerTag), 10) + ":"}
		}
		run = append(run, w.Text)
	}
	if len(run) > 0 {
		lines = append(lines, strings.Join(run, " "))
	}
	return CleanPunctuation(strings.Join(lines, "\n"))
}

var punctuationSpacing = strings.NewReplacer(" .", ".", " ,", ",", " ?", "?")

// CleanPunctuation drops the space before '.', ',' and '?' and trims the
// result.
func CleanPunctuation(s string) string {
	return strings.TrimSpace(punctuationSpacing.Replace(s))
}
