package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"llvmads/internal/driver"
	"llvmads/internal/ui"
)

type batchOutcome struct {
	results []driver.DirResult
	err     error
}

func runBatchWithUI(ctx context.Context, out io.Writer, title string, req driver.DirRequest) ([]driver.DirResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		req.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.TranslateDir(ctx, req)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the program may stop early (ctrl+c); keep the workers unblocked
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
