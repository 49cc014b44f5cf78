package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wordwheel/internal/fusion"
)

// Screen rows above the dial panels: title, blank, sentence, blank.
const dialsTopRow = 4

// maxWordCells caps how many terminal cells one displayed word may take.
const maxWordCells = 14

var (
	titleStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	wordStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	ringStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	pointerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	activePointerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	labelStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	offlineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	onlineStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	lay := computeLayout(m.width)

	lines := make([]string, 0, dialsTopRow+dialH+3)
	lines = append(lines,
		m.centerLine(titleStyle.Render("wordwheel")),
		"",
		m.centerLine(m.renderSentence()),
		"",
	)
	lines = append(lines, m.renderDials(lay)...)
	lines = append(lines, m.renderLabels(lay), "", m.centerLine(m.renderFooter()))
	return strings.Join(lines, "\n")
}

// renderSentence draws the sliding window with the cursor word highlighted.
func (m *Model) renderSentence() string {
	cursor := m.nav.Cursor()
	start, end := m.sentence.Window(cursor, m.cfg.Window)
	parts := make([]string, 0, end-start+2)
	if start > 0 {
		parts = append(parts, wordStyle.Render("…"))
	}
	for i := start; i < end; i++ {
		word := runewidth.Truncate(m.sentence[i], maxWordCells, "…")
		if i == cursor {
			parts = append(parts, selectedStyle.Render(word))
		} else {
			parts = append(parts, wordStyle.Render(word))
		}
	}
	if m.nav.Extending() {
		parts = append(parts, m.spin.View())
	} else if end < len(m.sentence) {
		parts = append(parts, wordStyle.Render("…"))
	}
	return strings.Join(parts, " ")
}

// renderDials draws both panels at the exact columns hit-testing expects.
func (m *Model) renderDials(lay layout) []string {
	left := strings.Split(renderDial(m.engine.Effective(fusion.Left), m.dragging(fusion.Left)), "\n")
	right := strings.Split(renderDial(m.engine.Effective(fusion.Right), m.dragging(fusion.Right)), "\n")
	pad := strings.Repeat(" ", lay.leftX)
	gap := strings.Repeat(" ", dialGap)
	lines := make([]string, 0, dialH)
	for i := 0; i < dialH; i++ {
		lines = append(lines, pad+left[i]+gap+right[i])
	}
	return lines
}

func (m *Model) renderLabels(lay layout) string {
	pad := strings.Repeat(" ", lay.leftX)
	gap := strings.Repeat(" ", dialGap)
	return pad + centerIn("variant", dialW) + gap + centerIn("position", dialW)
}

func (m *Model) renderFooter() string {
	conn := offlineStyle.Render("○ offline")
	if m.connected {
		conn = onlineStyle.Render("● bridge")
	}
	cursor := m.nav.Cursor()
	position := fmt.Sprintf("word %d/%d", min(cursor+1, len(m.sentence)), len(m.sentence))
	variant := fmt.Sprintf("variant %d/%d",
		m.cycler.Index(m.engine.Effective(fusion.Left))+1, len(m.cycler.Variants()))
	help := "drag a dial · arrows nudge · q quits"
	return conn + footerStyle.Render("  "+position+"  "+variant+"  "+help)
}

func (m *Model) dragging(id fusion.DialID) bool {
	return m.drag != nil && m.drag.dial == id
}

// centerLine pads a styled line to the terminal width.
func (m *Model) centerLine(s string) string {
	pad := (m.width - lipgloss.Width(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// centerIn centers a plain label inside a fixed cell width.
func centerIn(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return labelStyle.Render(s)
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + labelStyle.Render(s) + strings.Repeat(" ", width-w-left)
}
