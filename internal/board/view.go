package board

import (
	"fmt"
	"strings"

	"github.com/TristoneFM/material-request-mes/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 30

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	visible := m.visibleRequests()

	switch {
	case m.loading:
		b.WriteString("  " + styleDim.Render("Cargando..."))
	case len(visible) == 0:
		b.WriteString("  " + styleDim.Render("No se encontraron solicitudes de materiales"))
	default:
		for _, group := range groupByArea(visible) {
			b.WriteString(m.renderGroup(group))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// ── header ───────────────────────────────────────────────────────────────────

func (m Model) renderHeader() string {
	title := styleHeader.Render("TMES · SOLICITUDES DE MATERIALES")

	var chips []string
	for _, t := range domain.MaterialTypes {
		label := domain.TypeLabel(t)
		if m.selected[t] {
			chips = append(chips, styleChipOn.Render(label))
		} else {
			chips = append(chips, styleChipOff.Render(label))
		}
	}

	count := styleGreen.Render(fmt.Sprintf("%d Activos", len(m.visibleRequests())))

	conn := styleGreen.Render("● Live")
	if !m.connected {
		conn = styleRed.Render("● Disconnected")
	}

	return "  " + title + "  " + strings.Join(chips, " ") + "  " + count + "  " + conn
}

// ── groups and cards ─────────────────────────────────────────────────────────

func (m Model) renderGroup(group areaGroup) string {
	var b strings.Builder

	header := styleBlue.Render(strings.ToUpper(group.Area)) +
		" " + styleDim.Render(fmt.Sprintf("(%d)", len(group.Requests)))
	b.WriteString("  " + header + "\n")

	perRow := m.width / (cardWidth + 3)
	if perRow < 1 {
		perRow = 1
	}

	for start := 0; start < len(group.Requests); start += perRow {
		end := start + perRow
		if end > len(group.Requests) {
			end = len(group.Requests)
		}

		row := make([]string, 0, end-start)
		for _, req := range group.Requests[start:end] {
			if c, ok := m.cards[req.ID]; ok {
				row = append(row, m.renderCard(c))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderCard(c *card) string {
	inner := cardWidth - 2

	var b strings.Builder
	b.WriteString(styleBold.Render(truncate(c.req.StationName, inner)) + "\n")
	b.WriteString(styleBlue.Render(truncate(c.req.SAPMaterial, inner)) + "\n")

	b.WriteString(truncate(m.renderPartLine(c), inner) + "\n")
	b.WriteString(m.renderLocationLines(c, inner))

	qty := styleBlue.Render(fmt.Sprintf("Cantidad: %d", c.req.Quantity))
	timer := bandStyle(c.band).Render(c.elapsedText)
	gap := inner - lipgloss.Width(qty) - lipgloss.Width(timer)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(qty + strings.Repeat(" ", gap) + timer)

	return styleCard.Width(cardWidth).Render(b.String())
}

func (m Model) renderPartLine(c *card) string {
	switch c.part {
	case lookupLoading:
		return styleDim.Render("Buscando parte...")
	case lookupResolved:
		return "Parte: " + styleGreen.Render(c.partValue)
	case lookupAbsent:
		return styleYellow.Render("No encontrado")
	default:
		return styleDim.Render("No disponible")
	}
}

// renderLocationLines shows the material description plus up to two storage
// groups; anything beyond that collapses into a +N marker.
func (m Model) renderLocationLines(c *card, inner int) string {
	var b strings.Builder

	switch c.loc {
	case lookupLoading:
		b.WriteString(styleDim.Render("Buscando ubicaciones...") + "\n")
	case lookupResolved:
		if c.description != "" {
			b.WriteString(styleDim.Render(truncate(c.description, inner)) + "\n")
		}
		shown := c.groups
		if len(shown) > 2 {
			shown = shown[:2]
		}
		for _, g := range shown {
			parts := make([]string, 0, len(g.Bins))
			for _, bin := range g.Bins {
				parts = append(parts, fmt.Sprintf("%s×%d", bin.Bin, bin.Quantity))
			}
			line := fmt.Sprintf("%s·%s %s", g.Location, g.Type, strings.Join(parts, " "))
			b.WriteString(truncate(line, inner) + "\n")
		}
		if extra := len(c.groups) - len(shown); extra > 0 {
			b.WriteString(styleDim.Render(fmt.Sprintf("+%d más", extra)) + "\n")
		}
	default:
		// Confirmed empty and fetch-failed read the same on the board.
		b.WriteString(styleDim.Render("Sin ubicaciones") + "\n")
	}

	return b.String()
}

// ── footer ───────────────────────────────────────────────────────────────────

func (m Model) renderFooter() string {
	bindings := []struct{ k, desc string }{
		{m.keys.ToggleComponents.Help().Key, m.keys.ToggleComponents.Help().Desc},
		{m.keys.ToggleSemis.Help().Key, m.keys.ToggleSemis.Help().Desc},
		{m.keys.Refresh.Help().Key, m.keys.Refresh.Help().Desc},
		{m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc},
	}

	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, styleBold.Render(kb.k)+" "+styleDim.Render(kb.desc))
	}
	return "  " + strings.Join(parts, styleDim.Render("  ·  "))
}

// ── helpers ──────────────────────────────────────────────────────────────────

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
