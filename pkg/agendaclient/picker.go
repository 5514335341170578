package agendaclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// debounceDelay is how long the picker waits after the last keystroke
// before hitting the API.
const debounceDelay = 300 * time.Millisecond

// Searcher is the lookup the picker needs; *Client satisfies it.
type Searcher interface {
	SearchPatients(ctx context.Context, query string) ([]Suggestion, error)
}

// PatientPicker drives the patient autocomplete. Typing updates the query
// and schedules a single lookup once input has been quiet for the debounce
// window; picking a suggestion pins it, and any further typing unpins.
// Lookup failures degrade to an empty suggestion list, never an error.
type PatientPicker struct {
	mu       sync.Mutex
	searcher Searcher
	logger   zerolog.Logger
	delay    time.Duration

	timer       *time.Timer
	pendingQ    string
	query       string
	suggestions []Suggestion
	selected    *Suggestion
}

func NewPatientPicker(searcher Searcher, logger zerolog.Logger) *PatientPicker {
	return &PatientPicker{
		searcher: searcher,
		logger:   logger.With().Str("component", "patient_picker").Logger(),
		delay:    debounceDelay,
	}
}

// SetQuery records a keystroke. An empty query clears the suggestions
// immediately without calling the API; anything else restarts the debounce
// timer. Typing always clears a pinned selection.
func (p *PatientPicker) SetQuery(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.selected = nil
	p.query = query
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	if strings.TrimSpace(query) == "" {
		p.suggestions = nil
		return
	}

	p.pendingQ = query
	p.timer = time.AfterFunc(p.delay, func() { p.lookup(query) })
}

func (p *PatientPicker) lookup(query string) {
	p.mu.Lock()
	if p.query != query {
		// Superseded by later keystrokes.
		p.mu.Unlock()
		return
	}
	p.pendingQ = ""
	p.mu.Unlock()

	items, err := p.searcher.SearchPatients(context.Background(), query)
	if err != nil {
		p.logger.Error().Err(err).Str("query", query).Msg("patient lookup failed")
		items = nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.query == query {
		p.suggestions = items
	}
}

// Suggestions returns the current dropdown contents.
func (p *PatientPicker) Suggestions() []Suggestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Suggestion, len(p.suggestions))
	copy(out, p.suggestions)
	return out
}

// Select pins a suggestion. The query snaps to the patient's name and the
// dropdown closes.
func (p *PatientPicker) Select(s Suggestion) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.pendingQ = ""
	sel := s
	p.selected = &sel
	p.query = s.Nome
	p.suggestions = nil
}

// Selected returns the pinned patient, or nil when none is pinned.
func (p *PatientPicker) Selected() *Suggestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return nil
	}
	sel := *p.selected
	return &sel
}

// Query returns the current input text.
func (p *PatientPicker) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Flush runs any pending debounced lookup synchronously. Test hook.
func (p *PatientPicker) Flush() {
	p.mu.Lock()
	q := p.pendingQ
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	if q != "" {
		p.lookup(q)
	}
}

// Close cancels any pending lookup.
func (p *PatientPicker) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.pendingQ = ""
}
