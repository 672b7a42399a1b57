package board

import (
	"context"
	"sort"
	"time"

	"github.com/TristoneFM/material-request-mes/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ── messages ─────────────────────────────────────────────────────────────────

// requestsLoadedMsg carries one fetch result: the full active set, or the
// error that prevented fetching it. poll marks results belonging to the
// polling chain; only those schedule the next tick, so a manual refresh
// never spawns a second chain.
type requestsLoadedMsg struct {
	requests []domain.MaterialRequest
	err      error
	poll     bool
}

type pollTickMsg time.Time

type timerTickMsg time.Time

// ── keybindings ──────────────────────────────────────────────────────────────

type keyMap struct {
	ToggleComponents key.Binding
	ToggleSemis      key.Binding
	Refresh          key.Binding
	Quit             key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleComponents: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "componentes")),
		ToggleSemis:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "semiterminados")),
		Refresh:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refrescar")),
		Quit:             key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),
	}
}

// ── model ────────────────────────────────────────────────────────────────────

// Model is the bubbletea model for the dashboard.
type Model struct {
	api       API
	pollEvery time.Duration
	now       func() time.Time
	keys      keyMap

	width  int
	height int

	// requests is the full in-memory active set, replaced wholesale on
	// every successful poll and never merged field-by-field.
	requests []domain.MaterialRequest
	cards    map[string]*card

	// fetchGen issues card generations. It is model-wide and monotonic so
	// a card removed and later recreated under the same id never reuses a
	// generation an in-flight fetch was fenced with.
	fetchGen int

	// selected is the client-only type filter; an empty selection shows
	// every type.
	selected map[domain.MaterialType]bool

	connected bool
	loading   bool
	quitting  bool
}

// New creates the dashboard model polling api every pollEvery.
func New(api API, pollEvery time.Duration) Model {
	return Model{
		api:       api,
		pollEvery: pollEvery,
		now:       time.Now,
		keys:      defaultKeyMap(),
		cards:     make(map[string]*card),
		selected: map[domain.MaterialType]bool{
			domain.TypeComponent:    true,
			domain.TypeSemiFinished: true,
		},
		connected: true,
		loading:   true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchRequests(true), m.scheduleTimer())
}

func (m Model) fetchRequests(poll bool) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		requests, err := api.MaterialRequests(ctx)
		return requestsLoadedMsg{requests: requests, err: err, poll: poll}
	}
}

func (m Model) schedulePoll() tea.Cmd {
	return tea.Tick(m.pollEvery, func(t time.Time) tea.Msg { return pollTickMsg(t) })
}

func (m Model) scheduleTimer() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return timerTickMsg(t) })
}

// ── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case requestsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// Keep whatever was rendered before; only the indicator
			// changes.
			m.connected = false
			if msg.poll {
				return m, m.schedulePoll()
			}
			return m, nil
		}
		m.connected = true
		m.requests = msg.requests
		cmds := m.reconcile()
		if msg.poll {
			cmds = append(cmds, m.schedulePoll())
		}
		return m, tea.Batch(cmds...)

	case pollTickMsg:
		return m, m.fetchRequests(true)

	case timerTickMsg:
		// One now reading per tick: every card's text and band derive from
		// the same instant.
		now := m.now()
		for _, c := range m.cards {
			c.tick(now)
		}
		return m, m.scheduleTimer()

	case partLoadedMsg:
		if c, ok := m.cards[msg.id]; ok && msg.gen == c.gen {
			c.applyPart(msg)
		}
		return m, nil

	case locationsLoadedMsg:
		if c, ok := m.cards[msg.id]; ok && msg.gen == c.gen {
			c.applyLocations(msg)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.ToggleComponents):
			m.toggleType(domain.TypeComponent)
			return m, nil
		case key.Matches(msg, m.keys.ToggleSemis):
			m.toggleType(domain.TypeSemiFinished)
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetchRequests(false)
		}
	}

	return m, nil
}

func (m *Model) toggleType(t domain.MaterialType) {
	if m.selected[t] {
		delete(m.selected, t)
		return
	}
	m.selected[t] = true
}

// reconcile aligns the card map with the freshly fetched request set and
// returns the lookup commands for new or re-identified cards.
func (m *Model) reconcile() []tea.Cmd {
	now := m.now()
	var cmds []tea.Cmd
	seen := make(map[string]bool, len(m.requests))

	for _, req := range m.requests {
		seen[req.ID] = true

		c, ok := m.cards[req.ID]
		if !ok {
			m.fetchGen++
			c = newCard(req, m.fetchGen)
			c.tick(now)
			m.cards[req.ID] = c
			cmds = append(cmds,
				fetchPart(m.api, req.ID, c.gen, req.SAPMaterial),
				fetchLocations(m.api, req.ID, c.gen, req.SAPMaterial),
			)
			continue
		}

		if c.req.SAPMaterial != req.SAPMaterial {
			m.fetchGen++
			c.rearm(req, m.fetchGen)
			c.tick(now)
			cmds = append(cmds,
				fetchPart(m.api, req.ID, c.gen, req.SAPMaterial),
				fetchLocations(m.api, req.ID, c.gen, req.SAPMaterial),
			)
			continue
		}

		c.setRequest(req)
	}

	for id := range m.cards {
		if !seen[id] {
			delete(m.cards, id)
		}
	}
	return cmds
}

// ── derived views of the request set ─────────────────────────────────────────

// filterByType applies the client-only type filter. An empty selection
// disables filtering.
func filterByType(requests []domain.MaterialRequest, selected map[domain.MaterialType]bool) []domain.MaterialRequest {
	if len(selected) == 0 {
		return requests
	}
	var out []domain.MaterialRequest
	for _, r := range requests {
		if selected[domain.MaterialType(r.Type)] {
			out = append(out, r)
		}
	}
	return out
}

// areaGroup is one area section of the board.
type areaGroup struct {
	Area     string
	Requests []domain.MaterialRequest
}

// groupByArea buckets requests by area label. Group keys sort ascending;
// within a group the fetch order (request time descending) is preserved.
func groupByArea(requests []domain.MaterialRequest) []areaGroup {
	idx := make(map[string]int)
	var groups []areaGroup
	for _, r := range requests {
		i, ok := idx[r.Area]
		if !ok {
			i = len(groups)
			idx[r.Area] = i
			groups = append(groups, areaGroup{Area: r.Area})
		}
		groups[i].Requests = append(groups[i].Requests, r)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Area < groups[j].Area })
	return groups
}

func (m Model) visibleRequests() []domain.MaterialRequest {
	return filterByType(m.requests, m.selected)
}
