package domain

import (
	"time"

	"github.com/google/uuid"
)

// Значения сессии по умолчанию.
const (
	MinHealth     = 0
	MaxHealth     = 100
	InitialHealth = 100

	DefaultPlaceholderScene = "/api/placeholder/1200/800"
	DefaultInitialNarrative = "Welcome to the AI-Powered Interactive Story! Begin your adventure..."
)

// Role определяет автора записи в истории сессии.
type Role string

const (
	RolePlayer   Role = "player"
	RoleNarrator Role = "narrator"
)

// HistoryEntry - одна запись журнала сессии. После создания не изменяется.
type HistoryEntry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// TurnStatus - состояние текущего хода.
type TurnStatus string

const (
	TurnStatusIdle              TurnStatus = "idle"
	TurnStatusAwaitingNarrative TurnStatus = "awaiting_narrative"
	TurnStatusAwaitingScene     TurnStatus = "awaiting_scene"
	TurnStatusFailed            TurnStatus = "failed" // Транзитное, сразу сменяется на idle
)

// SessionDefaults задает стартовые значения сессии.
type SessionDefaults struct {
	InitialNarrative string
	PlaceholderScene string
}

// SessionState - единственный источник правды для одной игровой сессии.
// Поля меняет только контроллер хода; остальные читают Snapshot.
type SessionState struct {
	ID        uuid.UUID
	StartedAt time.Time
	Defaults  SessionDefaults

	Narrative    string
	PendingInput string
	Choices      []string
	Health       int
	Scene        string
	History      []HistoryEntry
	TurnStatus   TurnStatus

	// Revision растет на каждом опубликованном изменении.
	Revision uint64
}

// NewSessionState создает состояние новой сессии.
// Пустые значения defaults заменяются значениями по умолчанию.
func NewSessionState(defaults SessionDefaults) *SessionState {
	if defaults.InitialNarrative == "" {
		defaults.InitialNarrative = DefaultInitialNarrative
	}
	if defaults.PlaceholderScene == "" {
		defaults.PlaceholderScene = DefaultPlaceholderScene
	}

	return &SessionState{
		ID:         uuid.New(),
		StartedAt:  time.Now().UTC(),
		Defaults:   defaults,
		Narrative:  defaults.InitialNarrative,
		Choices:    []string{},
		Health:     InitialHealth,
		Scene:      defaults.PlaceholderScene,
		History:    []HistoryEntry{},
		TurnStatus: TurnStatusIdle,
	}
}

// ClampHealth ограничивает значение здоровья диапазоном [MinHealth, MaxHealth].
func ClampHealth(health int) int {
	if health < MinHealth {
		return MinHealth
	}
	if health > MaxHealth {
		return MaxHealth
	}
	return health
}

// ApplyHealthChange прибавляет delta к health без переполнения int.
// delta приходит от удаленного сервиса и может быть любым.
func ApplyHealthChange(health, delta int) int {
	span := MaxHealth - MinHealth
	delta = max(min(delta, span), -span)
	return ClampHealth(ClampHealth(health) + delta)
}

// Snapshot возвращает копию состояния для отрисовки.
// Срезы копируются, поэтому снимок можно читать из любой горутины.
func (s *SessionState) Snapshot() Snapshot {
	choices := make([]string, len(s.Choices))
	copy(choices, s.Choices)
	history := make([]HistoryEntry, len(s.History))
	copy(history, s.History)

	return Snapshot{
		SessionID:    s.ID,
		Revision:     s.Revision,
		Narrative:    s.Narrative,
		PendingInput: s.PendingInput,
		Choices:      choices,
		Health:       s.Health,
		HealthTier:   TierFor(s.Health),
		Scene:        s.Scene,
		History:      history,
		TurnStatus:   s.TurnStatus,
	}
}

// Snapshot - неизменяемое представление SessionState для слоя отрисовки.
type Snapshot struct {
	SessionID    uuid.UUID      `json:"session_id"`
	Revision     uint64         `json:"revision"`
	Narrative    string         `json:"narrative"`
	PendingInput string         `json:"pending_input"`
	Choices      []string       `json:"choices"`
	Health       int            `json:"health"`
	HealthTier   HealthTier     `json:"health_tier"`
	Scene        string         `json:"scene"`
	History      []HistoryEntry `json:"history"`
	TurnStatus   TurnStatus     `json:"turn_status"`
}

// HealthTier - уровень здоровья для окраски индикатора.
type HealthTier string

const (
	HealthTierHealthy  HealthTier = "healthy"
	HealthTierWounded  HealthTier = "wounded"
	HealthTierCritical HealthTier = "critical"
)

// TierFor: больше 70 - healthy, больше 30 - wounded, иначе critical.
func TierFor(health int) HealthTier {
	switch {
	case health > 70:
		return HealthTierHealthy
	case health > 30:
		return HealthTierWounded
	default:
		return HealthTierCritical
	}
}
