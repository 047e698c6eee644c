package processor

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nguyentantai21042004/medscribe/internal/apperror"
)

// Extension returns the lower-cased final dot suffix of name, without the
// dot, or "" when name has none.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return set
}

// validate rejects empty filenames and extensions outside the allow-list.
func (p *implProcessor) validate(name string) error {
	if name == "" {
		return apperror.Validation(apperror.MsgInvalidFile)
	}
	if _, ok := p.allowed[Extension(name)]; !ok {
		return apperror.Validation(apperror.MsgInvalidFile)
	}
	return nil
}

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	asciiFold   = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
)

// SecureFilename reduces a client filename to a safe single path component:
// accents are folded to ASCII, path separators and whitespace become
// underscores, anything outside [A-Za-z0-9_.-] is dropped, and leading or
// trailing dots and underscores are trimmed. The result may be empty.
func SecureFilename(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		folded = name
	}
	folded = strings.NewReplacer("/", " ", "\\", " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = unsafeChars.ReplaceAllString(folded, "")
	folded = strings.Trim(folded, "._")
	if filepath.Base(folded) != folded {
		return ""
	}
	return folded
}
