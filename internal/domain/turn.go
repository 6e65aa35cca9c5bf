package domain

// NarrativeResult - нормализованный ответ сервиса повествования.
// Отсутствующие choices превращаются в пустой срез, отсутствующий healthChange - в 0.
type NarrativeResult struct {
	Narrative    string
	Choices      []string
	HealthChange int
}

// SceneResult - ответ сервиса изображений. Пустой ImageURL означает,
// что сервис не вернул ссылку и нужно показать заглушку.
type SceneResult struct {
	ImageURL string
}
