package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scoperag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scoperag/internal/core/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(NewPorts(&MockRetrievalService{
		QueryFunc: func(_ context.Context, _ string, _ int) ([]domain.QueryResult, error) {
			return []domain.QueryResult{{Entry: domain.Entry{Question: "When?", Answer: "Tuesdays."}, Score: 0.8}}, nil
		},
	}, &MockCorpusService{}), 3)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(NewPorts(&MockRetrievalService{}, nil), 0)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Equal(t, domain.DefaultK, app.SearchView().K())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(&Ports{}, 3)
	assert.ErrorIs(t, err, ErrMissingRetrievalService)

	_, err = NewApp(nil, 3)
	assert.ErrorIs(t, err, ErrMissingRetrievalService)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	got := app.WithContext(ctx)

	assert.Same(t, app, got)
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(NewPorts(&MockRetrievalService{}, nil), 3)
	require.NoError(t, err)
	assert.Equal(t, "Initialising...", app.View())

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.SearchView().Width())
}

func TestApp_Update_CtrlCQuits(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, isQuit(cmd))
}

func TestApp_Update_QuitMessage(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	assert.True(t, isQuit(cmd))
}

func TestApp_Update_QIsTypedWhileInputFocused(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.False(t, isQuit(cmd))
	assert.Equal(t, "q", app.SearchView().Query())
}

func TestApp_QueryFlow(t *testing.T) {
	app := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("when")})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Len(t, app.SearchView().Results(), 1)
	assert.Contains(t, app.View(), "When?")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, isQuit(cmd), "q quits while navigating results")
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t)
	app.SearchView().SetQuery("x")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Help")
	assert.Contains(t, app.View(), "reload")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_Update_ViewChanged(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	assert.Equal(t, messages.ViewHelp, app.CurrentView())
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: domain.ErrIndexNotBuilt})

	assert.ErrorIs(t, app.SearchView().Err(), domain.ErrIndexNotBuilt)
	assert.Contains(t, app.View(), "Error:")
}
