package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"novel-adventure/internal/render"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want render.Command
	}{
		{"text keeps spaces", "  look around \n", render.Command{Kind: render.CommandText, Text: "  look around "}},
		{"crlf stripped", "run\r\n", render.Command{Kind: render.CommandText, Text: "run"}},
		{"choice", "#2\n", render.Command{Kind: render.CommandChoose, Index: 1}},
		{"choice with spaces", "  #1 ", render.Command{Kind: render.CommandChoose, Index: 0}},
		{"zero is text", "#0", render.Command{Kind: render.CommandText, Text: "#0"}},
		{"hashtag is text", "#hello", render.Command{Kind: render.CommandText, Text: "#hello"}},
		{"reset", "/reset", render.Command{Kind: render.CommandReset}},
		{"quit", "/QUIT\n", render.Command{Kind: render.CommandQuit}},
		{"blank", "   \n", render.Command{Kind: render.CommandText, Text: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.ParseCommand(tt.line))
		})
	}
}
