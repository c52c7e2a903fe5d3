package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

func sampleResponse() domain.SearchResponse {
	return domain.SearchResponse{
		Results: []domain.SearchResult{
			{
				ChunkID: "AAPL_10-K_2023-11-03_0000",
				Text:    "Revenue grew 12% driven by services.",
				Metadata: domain.ChunkMetadata{
					Ticker: "AAPL", FilingType: domain.Filing10K, FilingDate: "2023-11-03",
					SectionType: "financial",
				},
				Score: 0.91,
			},
			{
				ChunkID: "MSFT_10-K_2023-07-27_0002",
				Text:    "Cloud revenue increased across segments.",
				Metadata: domain.ChunkMetadata{
					Ticker: "MSFT", FilingType: domain.Filing10K, FilingDate: "2023-07-27",
				},
				Score: 0.84,
			},
		},
		Status:   domain.StatusOK,
		Method:   domain.MethodPrimary,
		Strategy: domain.StrategyMultiEntity,
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModelNavigation(t *testing.T) {
	m := newModel("compare apple and microsoft", sampleResponse())

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(model)
	assert.Equal(t, 1, m.selected)

	// Clamped at the last result.
	updated, _ = m.Update(keyMsg("j"))
	m = updated.(model)
	assert.Equal(t, 1, m.selected)

	updated, _ = m.Update(keyMsg("k"))
	m = updated.(model)
	assert.Equal(t, 0, m.selected)
}

func TestModelDetailRoundTrip(t *testing.T) {
	m := newModel("apple revenue", sampleResponse())

	updated, _ := m.Update(keyMsg("enter"))
	m = updated.(model)
	require.Equal(t, modeDetail, m.mode)
	assert.Contains(t, m.View(), "AAPL 10-K filed 2023-11-03")
	assert.Contains(t, m.View(), "Section: financial")

	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(model)
	assert.Equal(t, modeList, m.mode)
}

func TestModelQuit(t *testing.T) {
	m := newModel("q", sampleResponse())

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelListView(t *testing.T) {
	m := newModel("apple revenue", sampleResponse())
	m.width, m.height = 100, 30

	view := m.View()
	assert.Contains(t, view, "AAPL 10-K 2023-11-03")
	assert.Contains(t, view, "MSFT 10-K 2023-07-27")
	assert.Contains(t, view, "multi_entity")
}

func TestModelEmptyResults(t *testing.T) {
	m := newModel("nothing", domain.SearchResponse{Status: domain.StatusNoMatches})
	assert.Contains(t, m.View(), "No results")

	// Enter on empty results stays on the list.
	updated, _ := m.Update(keyMsg("enter"))
	assert.Equal(t, modeList, updated.(model).mode)
}
