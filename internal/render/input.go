package render

import (
	"strconv"
	"strings"
)

// CommandKind - вид строки, введенной игроком.
type CommandKind int

const (
	CommandText CommandKind = iota
	CommandChoose
	CommandReset
	CommandQuit
)

// Command - разобранная строка ввода.
type Command struct {
	Kind CommandKind
	// Text - введенный текст без перевода строки, пробелы сохраняются.
	Text string
	// Index - индекс варианта с нуля для CommandChoose.
	Index int
}

// ParseCommand разбирает строку: "#N" выбирает вариант N (с единицы),
// "/reset" и "/quit" - служебные команды, остальное - текст хода.
func ParseCommand(line string) Command {
	text := strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(text)

	switch strings.ToLower(trimmed) {
	case "/quit", "/exit":
		return Command{Kind: CommandQuit}
	case "/reset", "/restart":
		return Command{Kind: CommandReset}
	}

	if rest, ok := strings.CutPrefix(trimmed, "#"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n > 0 {
			return Command{Kind: CommandChoose, Index: n - 1}
		}
	}

	return Command{Kind: CommandText, Text: text}
}
