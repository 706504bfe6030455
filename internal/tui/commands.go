package tui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	serverBinary = "bin/server"
	serverLog    = "logs/server.log"
)

// builds the server if needed and runs it with output sent to serverLog
func startServer() tea.Msg {
	if _, err := os.Stat(serverBinary); os.IsNotExist(err) {
		build := exec.Command("go", "build", "-o", serverBinary, "./cmd/server")
		if out, err := build.CombinedOutput(); err != nil {
			return ErrorMsg{err: fmt.Errorf("failed to build server: %w: %s", err, out)}
		}
	}

	if err := os.MkdirAll(filepath.Dir(serverLog), 0o750); err != nil {
		return ErrorMsg{err: fmt.Errorf("failed to create log dir: %w", err)}
	}

	logFile, err := os.OpenFile(serverLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return ErrorMsg{err: fmt.Errorf("failed to open server log: %w", err)}
	}

	// anything written to the terminal would tear the alt screen
	cmd := exec.Command(serverBinary)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close() //nolint:errcheck,gosec
		return ErrorMsg{err: fmt.Errorf("failed to start server: %w", err)}
	}

	go func() {
		cmd.Wait()      //nolint:errcheck,gosec // exit status lands in the log
		logFile.Close() //nolint:errcheck,gosec
	}()

	return ServerStartedMsg{}
}
