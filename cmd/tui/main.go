package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"codeberg.org/metastamp/server/internal/tui"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if !term.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "metastamp tui needs an interactive terminal")
		os.Exit(1)
	}

	env := getEnv("METASTAMP_ENV", "development")

	endpoints := tui.Endpoints{
		API:   getEnv("METASTAMP_API_ENDPOINT", "http://localhost:8080"),
		WS:    getEnv("METASTAMP_WS_ENDPOINT", "ws://localhost:8080/api/v1/ws"),
		Token: os.Getenv("METASTAMP_TOKEN"),
	}

	app := tui.NewApp(env, endpoints)
	opts := []tea.ProgramOption{tea.WithAltScreen()}

	if width, height, err := term.GetSize(os.Stdout.Fd()); err == nil && width < 80 {
		fmt.Fprintf(os.Stderr, "terminal is %dx%d; the feed table needs at least 80 columns\n", width, height)
	}

	p := tea.NewProgram(app, opts...)

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running metastamp: %v\n", err)
		os.Exit(1)
	}
}
