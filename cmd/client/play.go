package main

import (
	"bufio"
	"context"
	"errors"
	"io"

	"novel-adventure/internal/domain"
	"novel-adventure/internal/render"
)

// sessionActions - действия игрока, которые вызывает цикл ввода.
type sessionActions interface {
	SetInput(ctx context.Context, text string) error
	Submit(ctx context.Context) error
	Choose(ctx context.Context, index int) error
	Reset(ctx context.Context) error
}

// notifier печатает подсказки игроку.
type notifier interface {
	Notice(format string, args ...any)
}

// play читает строки из in и превращает их в действия до /quit, EOF или отмены ctx.
func play(ctx context.Context, actions sessionActions, out notifier, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}

			var err error
			cmd := render.ParseCommand(line)
			switch cmd.Kind {
			case render.CommandQuit:
				return nil
			case render.CommandReset:
				err = actions.Reset(ctx)
			case render.CommandChoose:
				err = actions.Choose(ctx, cmd.Index)
			default:
				if err = actions.SetInput(ctx, cmd.Text); err == nil {
					err = actions.Submit(ctx)
				}
				if errors.Is(err, domain.ErrTurnInProgress) {
					// Отклоненная строка не должна остаться вводом в снимке
					if clearErr := actions.SetInput(ctx, ""); clearErr != nil {
						err = clearErr
					}
				}
			}

			switch {
			case err == nil:
			case errors.Is(err, domain.ErrEmptyInput):
				out.Notice("Type what you do next, or pick a choice with #N.")
			case errors.Is(err, domain.ErrTurnInProgress):
				out.Notice("The story is still unfolding, please wait.")
			case errors.Is(err, domain.ErrUnknownChoice):
				out.Notice("There is no choice #%d.", cmd.Index+1)
			case errors.Is(err, domain.ErrControllerStopped), errors.Is(err, context.Canceled):
				return nil
			default:
				return err
			}
		}
	}
}
