package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nguyentantai21042004/scribe/internal/viewer"
)

func main() {
	serverURL := flag.String("server", "http://localhost:3001", "Scribe server base URL")
	sessionID := flag.String("session", "", "Session id to follow")
	flag.Parse()

	if *sessionID == "" {
		fmt.Fprintln(os.Stderr, "usage: scribe-watch -session <id> [-server url]")
		os.Exit(2)
	}

	p := tea.NewProgram(viewer.New(viewer.NewClient(*serverURL), *sessionID), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
