package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/cli/config"
	"github.com/zephyrtronium/calc/internal/keypad"
)

func runREPL(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(dotCompleters()...),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "calc "+Version+" - type .help for commands, .quit to exit")
	s := newSession(cmd.OutOrStdout(), cfg, logger)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.pad.Clear()
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if s.handle(line) {
			break
		}
	}
	return nil
}

// session is an interactive calculator: a keypad driven by input lines.
type session struct {
	pad    *keypad.Pad
	out    io.Writer
	styles styles
}

func newSession(out io.Writer, cfg *config.Config, logger *slog.Logger) *session {
	return &session{
		pad:    keypad.New(logger),
		out:    out,
		styles: newStyles(cfg.Color),
	}
}

type styles struct {
	result lipgloss.Style
	err    lipgloss.Style
	flash  lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{result: plain, err: plain, flash: plain}
	}
	return styles{
		result: lipgloss.NewStyle().Bold(true),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		flash:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
	}
}

// replCommand is a dot-command of the interactive calculator.
type replCommand struct {
	name string
	help string
	run  func(s *session, arg string) error
}

var replCommands []replCommand

func init() {
	replCommands = []replCommand{
		{".sqrt", "square root of the expression", func(s *session, _ string) error {
			_, err := s.pad.Sqrt()
			return err
		}},
		{".%", "divide the last number by 100", func(s *session, _ string) error {
			if !s.pad.Percent() {
				s.flash("no number to convert")
			}
			return nil
		}},
		{".m+", "add the expression to memory", func(s *session, _ string) error {
			if err := s.pad.MemoryAdd(); err != nil {
				return err
			}
			s.flash("M = " + calc.Format(s.pad.Memory()))
			return nil
		}},
		{".m-", "subtract the expression from memory", func(s *session, _ string) error {
			if err := s.pad.MemorySub(); err != nil {
				return err
			}
			s.flash("M = " + calc.Format(s.pad.Memory()))
			return nil
		}},
		{".mr", "recall memory into the expression", func(s *session, _ string) error {
			s.pad.MemoryRecall()
			return nil
		}},
		{".mc", "clear memory", func(s *session, _ string) error {
			s.pad.MemoryClear()
			s.flash("memory cleared")
			return nil
		}},
		{".mem", "show memory and expression", func(s *session, _ string) error {
			s.showState()
			return nil
		}},
		{".type", "append text without evaluating", func(s *session, arg string) error {
			s.pad.Type(arg)
			return nil
		}},
		{".back", "delete the last character", func(s *session, _ string) error {
			s.pad.Backspace()
			return nil
		}},
		{".c", "clear the expression", func(s *session, _ string) error {
			s.pad.Clear()
			return nil
		}},
		{".ac", "clear the expression and memory", func(s *session, _ string) error {
			s.pad.AllClear()
			return nil
		}},
		{".help", "show this help", func(s *session, _ string) error {
			s.help()
			return nil
		}},
	}
}

func dotCompleters() []readline.PrefixCompleterInterface {
	items := make([]readline.PrefixCompleterInterface, 0, len(replCommands)+1)
	for _, c := range replCommands {
		items = append(items, readline.PcItem(c.name))
	}
	return append(items, readline.PcItem(".quit"))
}

// handle processes one input line and reports whether the session should
// end. A line that is not a dot-command is typed into the keypad and
// evaluated, so "+1" continues from the previous result.
func (s *session) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ".") {
		if line != "=" {
			s.pad.Type(strings.TrimSuffix(line, "="))
		}
		_, err := s.pad.Equals()
		s.show(err)
		return false
	}

	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	if name == ".quit" || name == ".exit" {
		return true
	}
	for _, c := range replCommands {
		if c.name == name {
			err := c.run(s, strings.TrimSpace(arg))
			if err != nil || (name != ".help" && name != ".mem") {
				s.show(err)
			}
			return false
		}
	}
	_, _ = fmt.Fprintln(s.out, s.styles.err.Render("unknown command "+name+"; type .help for commands"))
	return false
}

// show prints the display, and the error behind it if there is one.
func (s *session) show(err error) {
	if err != nil {
		msg := err.Error()
		if k := calc.KindOf(err); k != calc.NoFailure {
			msg = k.String() + ": " + msg
		}
		_, _ = fmt.Fprintln(s.out, s.styles.err.Render(keypad.ErrorText+" ("+msg+")"))
		return
	}
	_, _ = fmt.Fprintln(s.out, s.styles.result.Render(s.pad.Display()))
}

// flash prints a transient status message.
func (s *session) flash(msg string) {
	_, _ = fmt.Fprintln(s.out, s.styles.flash.Render(msg))
}

func (s *session) showState() {
	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Register", "Value"})
	t.AppendRow(table.Row{"M", calc.Format(s.pad.Memory())})
	t.AppendRow(table.Row{"Display", s.pad.Display()})
	t.Render()
}

func (s *session) help() {
	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Command", "Description"})
	t.AppendRow(table.Row{"EXPR", "type EXPR and evaluate"})
	t.AppendRow(table.Row{"=", "evaluate the expression again"})
	for _, c := range replCommands {
		t.AppendRow(table.Row{c.name, c.help})
	}
	t.AppendRow(table.Row{".quit", "exit"})
	t.Render()
}
