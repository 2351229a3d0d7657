// Package tokens estimates whether a prompt fits the context windows of a
// council's members and chairman.
package tokens

import (
	"sync"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/council"
	"github.com/tiktoken-go/tokenizer"
)

// DefaultResponseReserve is the number of tokens budgeted for each
// member's answer when sizing the chairman's input.
const DefaultResponseReserve = 2000

var encoder = sync.OnceValues(func() (tokenizer.Codec, error) {
	return tokenizer.Get(tokenizer.Cl100kBase)
})

// Count returns the cl100k token count of text.
func Count(text string) (int, error) {
	enc, err := encoder()
	if err != nil {
		return 0, err
	}
	ids, _, _ := enc.Encode(text)
	return len(ids), nil
}

// Fit is the budget check for one model.
type Fit struct {
	ID       string
	Needed   int
	Context  int
	Fits     bool
	Chairman bool
}

// Report is the outcome of Check.
type Report struct {
	PromptTokens int
	Members      []Fit
}

// Fits reports whether every model fits.
func (r Report) Fits() bool {
	for _, f := range r.Members {
		if !f.Fits {
			return false
		}
	}
	return true
}

// Check counts the prompt and compares it against every member's context
// length. The chairman additionally reads one answer per member, each
// budgeted at reserve tokens (DefaultResponseReserve when not positive).
// Members missing from the catalog are reported with zero context.
func Check(prompt string, st council.State, cat *catalog.Catalog, reserve int) (Report, error) {
	n, err := Count(prompt)
	if err != nil {
		return Report{}, err
	}
	if reserve <= 0 {
		reserve = DefaultResponseReserve
	}

	r := Report{PromptTokens: n}
	for _, id := range st.Selected {
		f := Fit{ID: id, Needed: n, Chairman: id == st.Chairman}
		if f.Chairman {
			f.Needed += reserve * len(st.Selected)
		}
		if e := cat.Get(id); e != nil {
			f.Context = e.ContextLength
		}
		f.Fits = f.Context > 0 && f.Needed <= f.Context
		r.Members = append(r.Members, f)
	}
	return r, nil
}
