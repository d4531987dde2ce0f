// Command console is a terminal reader for FicWorld stories. It opens
// a story markdown file produced by the ficworld command and presents
// it in a scrollable viewport.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	proseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

// ReaderUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ReaderUI struct {
	title    string
	raw      string
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

func NewReaderUI(title, content string) *ReaderUI {
	return &ReaderUI{title: title, raw: content}
}

func (ui *ReaderUI) Init() tea.Cmd {
	return nil
}

func (ui *ReaderUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return ui, tea.Quit
		}

	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
		if !ui.ready {
			ui.viewport = viewport.New(msg.Width, msg.Height-3)
			ui.ready = true
		} else {
			ui.viewport.Width = msg.Width
			ui.viewport.Height = msg.Height - 3
		}
		ui.viewport.SetContent(ui.render())
	}

	var cmd tea.Cmd
	ui.viewport, cmd = ui.viewport.Update(msg)
	return ui, cmd
}

func (ui *ReaderUI) View() string {
	if !ui.ready {
		return "Loading..."
	}
	header := titleStyle.Render(ui.title)
	footer := helpStyle.Render("up/down/pgup/pgdn to scroll, q to quit")
	return fmt.Sprintf("%s\n%s\n%s", header, ui.viewport.View(), footer)
}

// render styles the markdown headings and word-wraps the prose to the
// current terminal width.
func (ui *ReaderUI) render() string {
	wrapWidth := ui.width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var sb strings.Builder
	for _, line := range strings.Split(ui.raw, "\n") {
		switch {
		case strings.HasPrefix(line, "# "):
			// Shown in the header instead.
		case strings.HasPrefix(line, "## "):
			sb.WriteString(sceneStyle.Render(strings.TrimPrefix(line, "## ")))
			sb.WriteString("\n")
		default:
			sb.WriteString(proseStyle.Render(wordwrap.String(line, wrapWidth)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func storyTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return "FicWorld"
}

func main() {
	storyPath := flag.String("story", "", "path to a story markdown file")
	flag.Parse()

	if *storyPath == "" {
		fmt.Fprintln(os.Stderr, "usage: console -story <path>")
		os.Exit(1)
	}

	data, err := os.ReadFile(*storyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read story: %v\n", err)
		os.Exit(1)
	}

	content := string(data)
	ui := NewReaderUI(storyTitle(content), content)

	p := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "console error: %v\n", err)
		os.Exit(1)
	}
}
