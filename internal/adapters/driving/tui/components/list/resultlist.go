// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scoperag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// ResultList displays ranked Q&A matches in a navigable list.
type ResultList struct {
	results  []domain.QueryResult
	selected int
	expanded bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No matches")
	}

	lines := make([]string, 0, len(r.results)+2)
	lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("Top %d matches", len(r.results))), "")

	// Each collapsed result takes two lines.
	visible := (r.height - 2) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderResult(index int, result *domain.QueryResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxQuestion := r.width - 14
	if maxQuestion < 10 {
		maxQuestion = 10
	}
	question := truncate(result.Entry.Question, maxQuestion)
	score := r.styles.Score(result.Score).Render(fmt.Sprintf("%.3f", result.Score))

	var head string
	if index == r.selected {
		head = r.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, maxQuestion, question)) + "  " + score
	} else {
		head = r.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, maxQuestion, question)) + "  " + score
	}

	answer := result.Entry.Answer
	if !(r.expanded && index == r.selected) {
		answer = truncate(strings.ReplaceAll(answer, "\n", " "), max(r.width-6, 20))
	}
	return head + "\n" + r.styles.Answer.Render("    "+answer)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetResults replaces the results and resets the selection.
func (r *ResultList) SetResults(results []domain.QueryResult) {
	r.results = results
	r.selected = 0
	r.expanded = false
}

// Results returns the current results.
func (r *ResultList) Results() []domain.QueryResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
		r.expanded = false
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.QueryResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// ToggleExpanded shows or hides the full answer of the selected result.
func (r *ResultList) ToggleExpanded() {
	if len(r.results) > 0 {
		r.expanded = !r.expanded
	}
}

// Expanded reports whether the selected answer is shown in full.
func (r *ResultList) Expanded() bool {
	return r.expanded
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
		r.expanded = false
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
		r.expanded = false
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
