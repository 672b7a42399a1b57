package board

import (
	"context"
	"time"

	"github.com/TristoneFM/material-request-mes/internal/domain"
	"github.com/TristoneFM/material-request-mes/internal/mes"
	"github.com/TristoneFM/material-request-mes/internal/timeband"
	tea "github.com/charmbracelet/bubbletea"
)

// lookupTimeout bounds each per-card fetch so a hung lookup resolves to
// unavailable instead of loading forever.
const lookupTimeout = 10 * time.Second

// lookupState tracks one per-card fetch. Loading is never conflated with
// confirmed-absent: only a successful empty lookup moves to lookupAbsent.
type lookupState int

const (
	lookupLoading lookupState = iota
	lookupResolved
	lookupAbsent      // lookup succeeded, nothing found
	lookupUnavailable // lookup failed
)

// card is the per-request display state. All of it is local to the card;
// the only shared data is the request list owned by the poll loop.
type card struct {
	req domain.MaterialRequest

	// gen fences in-flight fetches: it is captured when a fetch is issued
	// and checked when the result arrives. Generations come from the
	// model's monotonic counter, so a rearmed or recreated card never
	// accepts a result fenced with an older generation.
	gen int

	part      lookupState
	partValue string

	loc         lookupState
	description string
	groups      []domain.StorageGroup

	requestedAt  time.Time
	badTimestamp bool
	elapsedText  string
	band         timeband.Band
}

func newCard(req domain.MaterialRequest, gen int) *card {
	c := &card{gen: gen, part: lookupLoading, loc: lookupLoading}
	c.setRequest(req)
	return c
}

// setRequest refreshes the stored record and renormalizes its timestamp.
func (c *card) setRequest(req domain.MaterialRequest) {
	c.req = req
	t, err := timeband.Normalize(req.RequestTime)
	if err != nil {
		c.badTimestamp = true
		c.requestedAt = time.Time{}
		return
	}
	c.badTimestamp = false
	c.requestedAt = t
}

// rearm moves both lookups back to loading under the given generation.
// Called when the SAP material identifying the card changes.
func (c *card) rearm(req domain.MaterialRequest, gen int) {
	c.gen = gen
	c.part = lookupLoading
	c.partValue = ""
	c.loc = lookupLoading
	c.description = ""
	c.groups = nil
	c.setRequest(req)
}

// tick recomputes the elapsed text and urgency band from one shared now
// reading.
func (c *card) tick(now time.Time) {
	if c.badTimestamp {
		c.elapsedText = "--"
		c.band = timeband.BandNominal
		return
	}
	c.elapsedText, c.band = timeband.Elapsed(now, c.requestedAt)
}

func (c *card) applyPart(msg partLoadedMsg) {
	switch {
	case msg.err != nil:
		c.part = lookupUnavailable
	case msg.found:
		c.part = lookupResolved
		c.partValue = msg.part
	default:
		c.part = lookupAbsent
	}
}

func (c *card) applyLocations(msg locationsLoadedMsg) {
	if msg.err != nil || msg.snapshot == nil || msg.snapshot.Unavailable() {
		c.loc = lookupUnavailable
		c.description = ""
		c.groups = nil
		return
	}

	c.description = msg.snapshot.MaterialDescription
	c.groups = msg.snapshot.Reshape()
	if len(c.groups) == 0 {
		c.loc = lookupAbsent
		return
	}
	c.loc = lookupResolved
}

// ── fetch messages and commands ──────────────────────────────────────────────

// partLoadedMsg carries the result of a customer-part lookup back to the
// card identified by id, fenced by gen.
type partLoadedMsg struct {
	id    string
	gen   int
	part  string
	found bool
	err   error
}

// locationsLoadedMsg carries the result of a location lookup back to the
// card identified by id, fenced by gen.
type locationsLoadedMsg struct {
	id       string
	gen      int
	snapshot *mes.LocationSnapshot
	err      error
}

func fetchPart(api API, id string, gen int, sap string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		part, found, err := api.CustomerPart(ctx, sap)
		return partLoadedMsg{id: id, gen: gen, part: part, found: found, err: err}
	}
}

func fetchLocations(api API, id string, gen int, sap string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		snap, err := api.Locations(ctx, sap)
		return locationsLoadedMsg{id: id, gen: gen, snapshot: snap, err: err}
	}
}
