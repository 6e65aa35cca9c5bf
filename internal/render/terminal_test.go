package render_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"novel-adventure/internal/domain"
	"novel-adventure/internal/render"
	"novel-adventure/internal/service"
)

var (
	_ service.Observer  = (*render.Terminal)(nil)
	_ service.ErrorSink = (*render.Terminal)(nil)
)

func TestHealthBar(t *testing.T) {
	tests := []struct {
		health int
		width  int
		want   string
	}{
		{100, 10, "[##########] 100/100"},
		{50, 10, "[#####-----] 50/100"},
		{0, 4, "[----] 0/100"},
		{150, 4, "[####] 100/100"},
		{-5, 4, "[----] 0/100"},
		{42, 0, "42/100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, render.HealthBar(tt.health, tt.width))
	}
}

func TestTerminal_RendersTurn(t *testing.T) {
	var out bytes.Buffer
	term := render.NewTerminal(&out, false)

	state := domain.NewSessionState(domain.SessionDefaults{})
	initial := state.Snapshot()
	term.OnSnapshot(initial)

	assert.Contains(t, out.String(), "=== New adventure ===")
	assert.Contains(t, out.String(), domain.DefaultInitialNarrative)
	assert.Contains(t, out.String(), "Health [####################] 100/100")
	assert.Contains(t, out.String(), "Scene: "+domain.DefaultPlaceholderScene)
	assert.True(t, strings.HasSuffix(out.String(), "> "))

	// Изменение ввода ничего не печатает
	out.Reset()
	typing := initial
	typing.PendingInput = "open the door"
	term.OnSnapshot(typing)
	assert.Empty(t, out.String())

	awaiting := typing
	awaiting.PendingInput = ""
	awaiting.TurnStatus = domain.TurnStatusAwaitingNarrative
	awaiting.History = []domain.HistoryEntry{{Role: domain.RolePlayer, Text: "open the door"}}
	term.OnSnapshot(awaiting)
	assert.Contains(t, out.String(), "You: open the door")
	assert.Contains(t, out.String(), "the story unfolds")

	out.Reset()
	scene := awaiting
	scene.TurnStatus = domain.TurnStatusAwaitingScene
	scene.Narrative = "A dragon sleeps inside."
	scene.Choices = []string{"sneak past", "fight"}
	scene.Health = 60
	scene.HealthTier = domain.TierFor(60)
	scene.History = append(scene.History, domain.HistoryEntry{Role: domain.RoleNarrator, Text: "A dragon sleeps inside."})
	term.OnSnapshot(scene)
	assert.Contains(t, out.String(), "A dragon sleeps inside.")
	assert.NotContains(t, out.String(), "#1")

	out.Reset()
	idle := scene
	idle.TurnStatus = domain.TurnStatusIdle
	idle.Scene = "https://img.local/dragon.jpg"
	term.OnSnapshot(idle)
	assert.Contains(t, out.String(), "Health [############--------] 60/100")
	assert.Contains(t, out.String(), "Scene: https://img.local/dragon.jpg")
	assert.Contains(t, out.String(), "#1 sneak past")
	assert.Contains(t, out.String(), "#2 fight")
	assert.NotContains(t, out.String(), "You: open the door", "history is printed once")
}

func TestTerminal_NewSessionStartsOver(t *testing.T) {
	var out bytes.Buffer
	term := render.NewTerminal(&out, false)

	first := domain.NewSessionState(domain.SessionDefaults{}).Snapshot()
	first.History = []domain.HistoryEntry{{Role: domain.RolePlayer, Text: "hello"}}
	term.OnSnapshot(first)

	out.Reset()
	term.OnSnapshot(domain.NewSessionState(domain.SessionDefaults{InitialNarrative: "Again."}).Snapshot())

	assert.Contains(t, out.String(), "=== New adventure ===")
	assert.Contains(t, out.String(), "Again.")
	assert.NotContains(t, out.String(), "hello")
}

func TestTerminal_ColorsByTier(t *testing.T) {
	var out bytes.Buffer
	term := render.NewTerminal(&out, true)

	s := domain.NewSessionState(domain.SessionDefaults{}).Snapshot()
	s.Health = 20
	s.HealthTier = domain.TierFor(20)
	term.OnSnapshot(s)

	assert.Contains(t, out.String(), "\033[31m[####----------------] 20/100\033[0m")
}

func TestTerminal_Report(t *testing.T) {
	var out bytes.Buffer
	term := render.NewTerminal(&out, false)

	term.Report(context.Background(), &domain.NarrativeServiceError{StatusCode: 500, Err: errors.New("boom")})
	assert.Contains(t, out.String(), "The story could not continue")
	assert.Contains(t, out.String(), "status 500")

	out.Reset()
	term.Report(context.Background(), &domain.SceneServiceError{Err: errors.New("timeout")})
	assert.Contains(t, out.String(), "The scene could not be drawn")

	out.Reset()
	term.Notice("choice %d is not available", 3)
	assert.Equal(t, "choice 3 is not available\n", out.String())
}
