package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/dilutionwise/internal/calculator"
	"github.com/mmynk/dilutionwise/internal/format"
	"github.com/mmynk/dilutionwise/internal/tui"
	"github.com/mmynk/dilutionwise/pkg/logging"
)

func main() {
	currencyCode := flag.String("currency", "INR", "currency for amounts: INR, USD, EUR or GBP")
	outDir := flag.String("out", ".", "directory PDF reports are saved to")
	logPath := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	if err := run(*currencyCode, *outDir, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(currencyCode, outDir, logPath string) error {
	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(logging.New(logOut, slog.LevelDebug))

	currency, err := format.LookupCurrency(currencyCode)
	if err != nil {
		return err
	}

	model := tui.New(format.New(currency), outDir, calculator.Defaults)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
