package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// Browse opens an interactive viewer over one set of search results.
// It blocks until the user quits.
func Browse(query string, resp domain.SearchResponse) error {
	p := tea.NewProgram(newModel(query, resp), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// mode is the current screen.
type mode int

const (
	modeList mode = iota
	modeDetail
)

// model is the bubbletea model for the results browser.
type model struct {
	query    string
	resp     domain.SearchResponse
	styles   *Styles
	selected int
	mode     mode
	width    int
	height   int
}

func newModel(query string, resp domain.SearchResponse) model {
	return model{
		query:  query,
		resp:   resp,
		styles: DefaultStyles(),
		width:  80,
		height: 24,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "up", "k":
			if m.mode == modeList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.mode == modeList && m.selected < len(m.resp.Results)-1 {
				m.selected++
			}

		case "enter":
			if m.mode == modeList && len(m.resp.Results) > 0 {
				m.mode = modeDetail
			}

		case "esc":
			if m.mode == modeDetail {
				m.mode = modeList
			} else {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.mode == modeDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m model) viewList() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("finsight: "+m.query) + "\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("strategy %s, method %s", m.resp.Strategy, m.resp.Method)) + "\n\n")

	if len(m.resp.Results) == 0 {
		b.WriteString(m.styles.Muted.Render("No results") + "\n")
		b.WriteString(m.helpLine())
		return b.String()
	}

	// Each entry renders as two lines. Keep the selection visible.
	visible := (m.height - 6) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := start + visible
	if end > len(m.resp.Results) {
		end = len(m.resp.Results)
	}

	for i := start; i < end; i++ {
		b.WriteString(m.renderResult(i) + "\n")
	}
	b.WriteString("\n" + m.helpLine())
	return b.String()
}

func (m model) renderResult(i int) string {
	r := m.resp.Results[i]
	meta := r.Metadata

	indicator := "  "
	if i == m.selected {
		indicator = "> "
	}

	head := fmt.Sprintf("%s%s %s %s", indicator, meta.Ticker, meta.FilingType, meta.FilingDate)
	score := m.styles.Score.Render(fmt.Sprintf("%.3f", r.Score))

	var headLine string
	if i == m.selected {
		headLine = m.styles.Selected.Render(head) + "  " + score
	} else {
		headLine = m.styles.Normal.Render(head) + "  " + score
	}

	return headLine + "\n" + m.styles.Muted.Render("    "+oneLine(r.Text, m.width-6))
}

func (m model) viewDetail() string {
	r := m.resp.Results[m.selected]
	meta := r.Metadata

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%s %s filed %s", meta.Ticker, meta.FilingType, meta.FilingDate)) + "\n")
	if meta.SectionType != "" {
		b.WriteString(m.styles.Subtitle.Render("Section: "+meta.SectionType) + "\n")
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("score %.3f (semantic %.3f, keyword %.3f)",
		r.Score, r.SemanticScore, r.KeywordScore)) + "\n\n")

	body := m.styles.Body.Width(m.width - 4).Render(r.Text)
	b.WriteString(body + "\n\n")
	b.WriteString(m.styles.Help.Render("esc back • q quit"))
	return b.String()
}

func (m model) helpLine() string {
	return m.styles.Help.Render("↑/k ↓/j navigate • enter view • q quit")
}

// oneLine collapses whitespace and clips text to one display row.
func oneLine(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if max < 20 {
		max = 20
	}
	if len(text) > max {
		return text[:max-3] + "..."
	}
	return text
}
