package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/ksahdev/stockdeck/internal/models"
)

// termScreen renders markdown fragments to the terminal via glamour
// and signals sign-out to the dashboard loop.
type termScreen struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	out      io.Writer

	signedOut chan string
}

func newTermScreen(out io.Writer) *termScreen {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		renderer = nil
	}
	return &termScreen{
		renderer:  renderer,
		out:       out,
		signedOut: make(chan string, 1),
	}
}

func (s *termScreen) RenderView(view, markdown string) {
	if markdown == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.renderer != nil {
		if rendered, err := s.renderer.Render(markdown); err == nil {
			fmt.Fprint(s.out, rendered)
			return
		}
	}
	fmt.Fprintln(s.out, markdown)
}

func (s *termScreen) RenderNotification(n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := "•"
	switch n.Type {
	case models.NotifySuccess:
		prefix = "✔"
	case models.NotifyError:
		prefix = "✖"
	}
	fmt.Fprintf(s.out, "%s %s\n", prefix, n.Message)
}

func (s *termScreen) SignedOut(reason string) {
	s.mu.Lock()
	fmt.Fprintln(s.out, reason)
	s.mu.Unlock()

	select {
	case s.signedOut <- reason:
	default:
	}
}

// promptLine reads one trimmed line of input.
func promptLine(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptPassword reads a password, masked unless show is set.
func promptPassword(reader *bufio.Reader, label string, show bool) string {
	if show || !term.IsTerminal(int(os.Stdin.Fd())) {
		return promptLine(reader, label)
	}
	fmt.Printf("%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// printFieldErrors shows validation failures next to their fields.
func printFieldErrors(errs map[string]string) {
	for field, msg := range errs {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
	}
}
