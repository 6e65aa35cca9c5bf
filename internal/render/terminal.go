package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"novel-adventure/internal/domain"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiGreen  = "\033[32m"
	ansiOrange = "\033[38;5;208m"
	ansiRed    = "\033[31m"
	ansiCyan   = "\033[36m"

	healthBarWidth = 20
	promptMarker   = "> "
)

// Terminal выводит ход игры в текстовый терминал.
// Реализует service.Observer и service.ErrorSink.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	color bool

	sessionID uuid.UUID
	printed   int
	status    domain.TurnStatus
	scene     string
}

// NewTerminal создает рендерер. color включает ANSI цвета.
func NewTerminal(out io.Writer, color bool) *Terminal {
	return &Terminal{out: out, color: color}
}

// OnSnapshot печатает только то, что изменилось с прошлого снимка.
func (t *Terminal) OnSnapshot(s domain.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s.SessionID != t.sessionID {
		t.sessionID = s.SessionID
		t.printed = 0
		t.scene = ""
		t.status = domain.TurnStatusIdle
		t.printf("\n%s\n\n", t.paint(ansiBold, "=== New adventure ==="))
		if len(s.History) == 0 {
			t.printf("%s\n", s.Narrative)
		}
		t.printHistory(s.History)
		t.printSettled(s)
		return
	}

	t.printHistory(s.History)

	if s.TurnStatus == t.status {
		return
	}
	previous := t.status
	t.status = s.TurnStatus

	switch s.TurnStatus {
	case domain.TurnStatusAwaitingNarrative:
		t.printf("%s\n", t.paint(ansiDim, "... the story unfolds"))
	case domain.TurnStatusAwaitingScene:
		t.printf("%s\n", t.paint(ansiDim, "... painting the scene"))
	case domain.TurnStatusIdle:
		if previous != domain.TurnStatusIdle {
			t.printSettled(s)
		}
	}
}

// Report печатает сбой удаленного вызова.
func (t *Terminal) Report(_ context.Context, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case errors.Is(err, domain.ErrNarrativeService):
		t.printf("%s %v\n", t.paint(ansiRed, "! The story could not continue, try again:"), err)
	case errors.Is(err, domain.ErrSceneService):
		t.printf("%s %v\n", t.paint(ansiOrange, "! The scene could not be drawn:"), err)
	default:
		t.printf("%s %v\n", t.paint(ansiRed, "!"), err)
	}
}

// Notice печатает служебное сообщение для игрока.
func (t *Terminal) Notice(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.printf("%s\n", t.paint(ansiDim, fmt.Sprintf(format, args...)))
}

func (t *Terminal) printHistory(history []domain.HistoryEntry) {
	for ; t.printed < len(history); t.printed++ {
		entry := history[t.printed]
		switch entry.Role {
		case domain.RolePlayer:
			t.printf("%s%s\n", t.paint(ansiCyan, "You: "), entry.Text)
		default:
			t.printf("\n%s\n\n", entry.Text)
		}
	}
}

// printSettled печатает здоровье, сцену, варианты и приглашение к вводу.
func (t *Terminal) printSettled(s domain.Snapshot) {
	t.printf("Health %s\n", t.paint(tierColor(s.HealthTier), HealthBar(s.Health, healthBarWidth)))
	if s.Scene != t.scene {
		t.scene = s.Scene
		t.printf("Scene: %s\n", s.Scene)
	}
	for i, choice := range s.Choices {
		t.printf("  %s %s\n", t.paint(ansiBold, fmt.Sprintf("#%d", i+1)), choice)
	}
	t.printf("%s", promptMarker)
}

func (t *Terminal) paint(code, text string) string {
	if !t.color {
		return text
	}
	return code + text + ansiReset
}

func (t *Terminal) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(t.out, format, args...)
}

func tierColor(tier domain.HealthTier) string {
	switch tier {
	case domain.HealthTierHealthy:
		return ansiGreen
	case domain.HealthTierWounded:
		return ansiOrange
	default:
		return ansiRed
	}
}

// HealthBar рисует полосу здоровья шириной width, длина заполнения - процент здоровья.
func HealthBar(health, width int) string {
	health = domain.ClampHealth(health)
	if width <= 0 {
		return fmt.Sprintf("%d/%d", health, domain.MaxHealth)
	}
	filled := health * width / domain.MaxHealth
	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("#", filled), strings.Repeat("-", width-filled), health, domain.MaxHealth)
}
