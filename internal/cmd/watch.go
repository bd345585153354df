package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/wafer-lang/waferc/internal/compiler"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file.wafer>",
	Short: "Recompile a Wafer source file on every save",
	Long: `watch recompiles path in full on every file-system write event. Each
recompile is an independent compiler.Compile call — no state is carried
across rebuilds, so this is deliberately not incremental compilation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	m := newWatchModel(path)
	p := tea.NewProgram(m)

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					p.Send(recompileMsg{result: recompileOnce(path)})
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.Send(recompileMsg{result: watchResult{err: err}})
			}
		}
	}()

	// Compile once immediately so the view has something to show before
	// the first save.
	p.Send(recompileMsg{result: recompileOnce(path)})

	_, err = p.Run()
	return err
}

// watchResult is the outcome of a single recompile attempt.
type watchResult struct {
	bytes int
	err   error
}

func recompileOnce(path string) (result watchResult) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*compiler.CompileError); ok {
				result = watchResult{err: fmt.Errorf("%s: %s", ce.Stage, ce.Message)}
				return
			}
			panic(r)
		}
	}()

	source, err := os.ReadFile(path)
	if err != nil {
		return watchResult{err: err}
	}
	out := compileSource(string(source))
	outPath := swapExtension(path, ".wasm")
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return watchResult{err: err}
	}
	return watchResult{bytes: len(out)}
}

type recompileMsg struct{ result watchResult }

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	watchOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	watchErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	watchHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

type watchModel struct {
	path   string
	last   watchResult
	builds int
}

func newWatchModel(path string) *watchModel {
	return &watchModel{path: path}
}

func (m *watchModel) Init() tea.Cmd { return nil }

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case recompileMsg:
		m.last = msg.result
		m.builds++
	}
	return m, nil
}

func (m *watchModel) View() string {
	s := watchTitleStyle.Render("waferc watch") + " " + m.path + "\n\n"
	switch {
	case m.builds == 0:
		s += "waiting for first compile...\n"
	case m.last.err != nil:
		s += watchErrStyle.Render(fmt.Sprintf("build #%d failed: %v", m.builds, m.last.err)) + "\n"
	default:
		s += watchOKStyle.Render(fmt.Sprintf("build #%d ok: %d bytes", m.builds, m.last.bytes)) + "\n"
	}
	s += "\n" + watchHelpStyle.Render("q to quit")
	return s
}
