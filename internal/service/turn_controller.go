package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"novel-adventure/internal/client"
	"novel-adventure/internal/domain"
)

// Observer получает снимок состояния после каждого изменения.
// Вызывается из цикла контроллера, поэтому не должен блокироваться.
type Observer interface {
	OnSnapshot(snapshot domain.Snapshot)
}

// ObserverFunc позволяет использовать функцию как Observer.
type ObserverFunc func(snapshot domain.Snapshot)

func (f ObserverFunc) OnSnapshot(snapshot domain.Snapshot) { f(snapshot) }

type commandKind int

const (
	commandSetInput commandKind = iota
	commandSubmit
	commandChoose
	commandReset
)

type command struct {
	kind  commandKind
	text  string
	index int
	reply chan error
}

// narrativeDone и sceneDone - завершения удаленных вызовов, возвращаемые в цикл.
type narrativeDone struct {
	turnID  uuid.UUID
	result  *domain.NarrativeResult
	err     error
	elapsed time.Duration
}

type sceneDone struct {
	turnID  uuid.UUID
	result  *domain.SceneResult
	err     error
	elapsed time.Duration
}

// TurnController проводит ход игрока от отправки до состояния Idle.
// SessionState изменяется только в горутине Run; удаленные вызовы выполняются
// в отдельных горутинах и возвращают результат в цикл.
type TurnController struct {
	state       *domain.SessionState
	narrator    client.NarrativeService
	illustrator client.SceneService
	sink        ErrorSink
	metrics     *Metrics
	logger      *zap.Logger

	commands    chan command
	completions chan any
	done        chan struct{}
	running     atomic.Bool

	observersMu sync.RWMutex
	observers   []Observer
	latest      atomic.Pointer[domain.Snapshot]

	turnID uuid.UUID
}

// NewTurnController создает контроллер хода. metrics может быть nil.
func NewTurnController(
	state *domain.SessionState,
	narrator client.NarrativeService,
	illustrator client.SceneService,
	sink ErrorSink,
	metrics *Metrics,
	logger *zap.Logger,
) (*TurnController, error) {
	if state == nil {
		return nil, errors.New("session state cannot be nil")
	}
	if narrator == nil || illustrator == nil {
		return nil, errors.New("narrative and scene services are required")
	}
	if sink == nil {
		return nil, errors.New("error sink cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &TurnController{
		state:       state,
		narrator:    narrator,
		illustrator: illustrator,
		sink:        sink,
		metrics:     metrics,
		logger:      logger.Named("TurnController"),
		commands:    make(chan command),
		completions: make(chan any),
		done:        make(chan struct{}),
	}
	snapshot := state.Snapshot()
	c.latest.Store(&snapshot)
	metrics.setHealth(state.Health)
	return c, nil
}

// Subscribe добавляет наблюдателя. Безопасно вызывать из любой горутины.
func (c *TurnController) Subscribe(observer Observer) {
	c.observersMu.Lock()
	defer c.observersMu.Unlock()
	c.observers = append(c.observers[:len(c.observers):len(c.observers)], observer)
}

// Snapshot возвращает последний опубликованный снимок.
func (c *TurnController) Snapshot() domain.Snapshot {
	return *c.latest.Load()
}

// Run владеет состоянием сессии до отмены ctx. Ход, начатый до отмены,
// не прерывается контроллером: ctx передается в удаленные вызовы как контекст сессии.
func (c *TurnController) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("turn controller is already running")
	}
	defer close(c.done)

	c.logger.Info("Session started", zap.String("session_id", c.state.ID.String()))
	c.publish()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Session ended", zap.String("session_id", c.state.ID.String()))
			return ctx.Err()
		case cmd := <-c.commands:
			cmd.reply <- c.handleCommand(ctx, cmd)
		case completion := <-c.completions:
			switch ev := completion.(type) {
			case narrativeDone:
				c.handleNarrative(ctx, ev)
			case sceneDone:
				c.handleScene(ctx, ev)
			}
		}
	}
}

// SetInput заменяет незавершенный ввод игрока.
func (c *TurnController) SetInput(ctx context.Context, text string) error {
	return c.dispatch(ctx, command{kind: commandSetInput, text: text})
}

// Submit отправляет текущий ввод. Возвращает nil, если ход начат;
// domain.ErrEmptyInput или domain.ErrTurnInProgress, если отправка проигнорирована.
func (c *TurnController) Submit(ctx context.Context) error {
	return c.dispatch(ctx, command{kind: commandSubmit})
}

// Choose выбирает предложенный вариант по индексу и отправляет его тем же путем, что и ввод.
func (c *TurnController) Choose(ctx context.Context, index int) error {
	return c.dispatch(ctx, command{kind: commandChoose, index: index})
}

// Reset начинает новую сессию. Допустим только в Idle.
func (c *TurnController) Reset(ctx context.Context) error {
	return c.dispatch(ctx, command{kind: commandReset})
}

// dispatch передает команду в цикл и ждет применения ее синхронной части.
func (c *TurnController) dispatch(ctx context.Context, cmd command) error {
	cmd.reply = make(chan error, 1)

	select {
	case c.commands <- cmd:
	case <-c.done:
		return domain.ErrControllerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	// Принятая команда всегда получает ответ до выхода из Run
	return <-cmd.reply
}

func (c *TurnController) handleCommand(ctx context.Context, cmd command) error {
	switch cmd.kind {
	case commandSetInput:
		c.state.PendingInput = cmd.text
		c.publish()
		return nil

	case commandSubmit:
		return c.submit(ctx)

	case commandChoose:
		if c.state.TurnStatus != domain.TurnStatusIdle {
			c.metrics.submissionIgnored(ReasonTurnInProgress)
			return domain.ErrTurnInProgress
		}
		if cmd.index < 0 || cmd.index >= len(c.state.Choices) {
			c.metrics.submissionIgnored(ReasonUnknownChoice)
			return domain.ErrUnknownChoice
		}
		c.state.PendingInput = c.state.Choices[cmd.index]
		err := c.submit(ctx)
		if errors.Is(err, domain.ErrEmptyInput) {
			// Ввод все равно изменился
			c.publish()
		}
		return err

	case commandReset:
		if c.state.TurnStatus != domain.TurnStatusIdle {
			return domain.ErrTurnInProgress
		}
		previous, revision := c.state.ID, c.state.Revision
		*c.state = *domain.NewSessionState(c.state.Defaults)
		c.state.Revision = revision
		c.metrics.setHealth(c.state.Health)
		c.logger.Info("Session reset",
			zap.String("previous_session_id", previous.String()),
			zap.String("session_id", c.state.ID.String()))
		c.publish()
		return nil
	}
	return nil
}

// submit - общий путь для набранного текста и выбранного варианта.
func (c *TurnController) submit(ctx context.Context) error {
	if c.state.TurnStatus != domain.TurnStatusIdle {
		c.metrics.submissionIgnored(ReasonTurnInProgress)
		return domain.ErrTurnInProgress
	}
	input := c.state.PendingInput
	if strings.TrimSpace(input) == "" {
		c.metrics.submissionIgnored(ReasonEmptyInput)
		return domain.ErrEmptyInput
	}

	c.turnID = uuid.New()
	c.state.History = append(c.state.History, domain.HistoryEntry{Role: domain.RolePlayer, Text: input})
	c.state.PendingInput = ""
	c.state.TurnStatus = domain.TurnStatusAwaitingNarrative
	c.publish()

	c.logger.Debug("Turn started", zap.String("turn_id", c.turnID.String()))

	turnID := c.turnID
	go func() {
		started := time.Now()
		result, err := c.narrator.Narrate(ctx, input)
		c.complete(narrativeDone{turnID: turnID, result: result, err: err, elapsed: time.Since(started)})
	}()
	return nil
}

func (c *TurnController) handleNarrative(ctx context.Context, ev narrativeDone) {
	log := c.logger.With(zap.String("turn_id", ev.turnID.String()))
	if ev.turnID != c.turnID || c.state.TurnStatus != domain.TurnStatusAwaitingNarrative {
		log.Warn("Dropping stale narrative completion")
		return
	}
	c.metrics.observeCall("narrative", ev.err, ev.elapsed)

	if ev.err == nil && ev.result == nil {
		ev.err = errors.New("empty narrative result")
	}
	if ev.err != nil {
		err := ev.err
		if !errors.Is(err, domain.ErrNarrativeService) {
			err = &domain.NarrativeServiceError{Err: err}
		}
		log.Debug("Narrative step failed", zap.Error(err))

		c.state.TurnStatus = domain.TurnStatusFailed
		c.publish()
		c.sink.Report(ctx, err)
		c.state.TurnStatus = domain.TurnStatusIdle
		c.publish()
		c.metrics.turnFinished(OutcomeNarrativeFailed)
		return
	}

	choices := make([]string, len(ev.result.Choices))
	copy(choices, ev.result.Choices)

	c.state.Narrative = ev.result.Narrative
	c.state.Choices = choices
	c.state.Health = domain.ApplyHealthChange(c.state.Health, ev.result.HealthChange)
	c.state.History = append(c.state.History, domain.HistoryEntry{Role: domain.RoleNarrator, Text: ev.result.Narrative})
	c.state.TurnStatus = domain.TurnStatusAwaitingScene
	c.metrics.setHealth(c.state.Health)
	c.publish()

	// Промпт - новое повествование, а не ввод игрока
	prompt := c.state.Narrative
	turnID := c.turnID
	go func() {
		started := time.Now()
		result, err := c.illustrator.Illustrate(ctx, prompt)
		c.complete(sceneDone{turnID: turnID, result: result, err: err, elapsed: time.Since(started)})
	}()
}

func (c *TurnController) handleScene(ctx context.Context, ev sceneDone) {
	log := c.logger.With(zap.String("turn_id", ev.turnID.String()))
	if ev.turnID != c.turnID || c.state.TurnStatus != domain.TurnStatusAwaitingScene {
		log.Warn("Dropping stale scene completion")
		return
	}
	c.metrics.observeCall("scene", ev.err, ev.elapsed)

	if ev.err == nil && ev.result == nil {
		ev.err = errors.New("empty scene result")
	}
	if ev.err != nil {
		err := ev.err
		if !errors.Is(err, domain.ErrSceneService) {
			err = &domain.SceneServiceError{Err: err}
		}
		// Сцена остается прежней, прогресс повествования уже зафиксирован
		c.sink.Report(ctx, err)
		c.state.TurnStatus = domain.TurnStatusIdle
		c.publish()
		c.metrics.turnFinished(OutcomeSceneFailed)
		return
	}

	scene := ev.result.ImageURL
	if scene == "" {
		scene = c.state.Defaults.PlaceholderScene
	}
	c.state.Scene = scene
	c.state.TurnStatus = domain.TurnStatusIdle
	c.publish()
	c.metrics.turnFinished(OutcomeCompleted)
	log.Debug("Turn completed")
}

// complete возвращает результат вызова в цикл, если он еще работает.
func (c *TurnController) complete(ev any) {
	select {
	case c.completions <- ev:
	case <-c.done:
	}
}

// publish сохраняет снимок и рассылает его наблюдателям.
func (c *TurnController) publish() {
	c.state.Revision++
	snapshot := c.state.Snapshot()
	c.latest.Store(&snapshot)

	c.observersMu.RLock()
	observers := c.observers
	c.observersMu.RUnlock()

	for _, observer := range observers {
		observer.OnSnapshot(snapshot)
	}
}
