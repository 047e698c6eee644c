package summarizer

import "fmt"

// Result is either an analysis text or the reason there is none.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the model produced an analysis.
func (r Result) OK() bool {
	return r.Err == nil
}

// Render returns the analysis, or a readable error line for display in its
// place.
func (r Result) Render() string {
	if r.Err != nil {
		return fmt.Sprintf("An error occurred: %v", r.Err)
	}
	return r.Text
}
