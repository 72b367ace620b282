// Package repl implements an interactive front end for the t3c parser.
//
// Unlike a language evaluator's REPL, there is no runtime here: each
// submitted chunk is lexed and parsed against a symbol table that persists
// across entries, and the loop reports the resulting diagnostics plus a
// summary of any symbols the chunk declared. It uses the Charm libraries
// (Bubbletea, Bubbles, and Lipgloss) for a modern terminal interface with
// syntax highlighting and command history.
package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dr8co/t3c/lexer"
	"github.com/dr8co/t3c/parser"
	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

const (
	// Prompt is the default prompt for the REPL.
	Prompt = ">> "

	// ContPrompt is the continuation prompt used in multiline input mode.
	ContPrompt = ".. "
)

// Options configures the REPL.
type Options struct {
	NoColor bool // Disable syntax highlighting and colored output
	Debug bool // Enable debug mode with more verbose diagnostics
}

// Start initializes and runs the REPL with the given username and options.
func Start(username string, options Options) {
	p:= tea.NewProgram(initialModel(username, options))
	if _, err:= p.Run(); err != nil {
		fmt.Println("Error running program:", err)
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF79C6")).
			Bold(true)

	identifierStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	literalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	operatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	delimiterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BD93F9"))

	stringStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))
)

// evalResultMsg carries the result of one parsed chunk back to the model.
type evalResultMsg struct {
	output string
	isError bool
	elapsed time.Duration
}

type historyEntry struct {
	input string
	output string
	isError bool
	evaluationTime time.Duration
}

type model struct {
	textInput textinput.Model
	history []historyEntry
	syms *symtab.SymbolTable
	username string
	evaluating bool
	currentInput string
	multilineBuffer string
	isMultiline bool
	spinner spinner.Model
	options Options
	fileCounter int
}

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

func initialModel(username string, options Options) model {
	ti:= textinput.New()
	ti.Placeholder = "Enter a class, object, or property definition"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s:= spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{
		textInput: ti,
		syms: symtab.New(),
		username: username,
		spinner: s,
		options: options,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// isBalanced reports whether brackets, braces, and parens balance, used to
// decide whether Enter submits the buffer or extends a multiline entry.
func isBalanced(input string) bool {
	var stack []rune
	pairs:= map[rune]rune{')': '(', '}': '{', ']': '['}
	for _, c:= range input {
		switch c {
		case '(', '{', '[':
			stack = append(stack, c)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

// parseCmd lexes and parses input against the model's persistent symbol
// table asynchronously, reporting diagnostics and a one-line symbol summary
// instead of a runtime value (there is no evaluator: the front end never
// produces one).
func parseCmd(input string, syms *symtab.SymbolTable, fileIdx int, debug bool) tea.Cmd {
	return func() tea.Msg {
		start:= time.Now()

		lx:= lexer.New(input, fileIdx)
		ts:= parser.NewTokenSource(lx)
		errs:= parser.NewErrorSink()
		p:= parser.New(ts, syms, errs, fileIdx)
		before:= syms.Len()
		prog:= p.ParseProgram()
		after:= syms.Len()

		var out strings.Builder
		isError:= errs.HasErrors()
		if len(errs.Diagnostics()) > 0 {
			out.WriteString(formatDiagnostics(errs.Diagnostics()))
		}
		if !isError {
			out.WriteString(fmt.Sprintf("%d top-level form(s), %d new symbol(s) (%d total)\n",
				len(prog.TopLevels), after-before, after))
			if debug {
				for _, tl:= range prog.TopLevels {
					out.WriteString(" " + tl.String() + "\n")
				}
			}
		}

		return evalResultMsg{
			output: strings.TrimRight(out.String(), "\n"),
			isError: isError,
			elapsed: time.Since(start),
		}
	}
}

func formatDiagnostics(diags []parser.Diagnostic) string {
	var s strings.Builder
	for i, d:= range diags {
		s.WriteString(fmt.Sprintf(" %d. %s\n", i+1, d.String()))
	}
	return s.String()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg:= msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{
			input: m.currentInput,
			output: msg.output,
			isError: msg.isError,
			evaluationTime: msg.elapsed,
		})
		m.currentInput = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			input:= m.textInput.Value()
			if input == "" {
				if m.isMultiline {
					if m.multilineBuffer == "" {
						m.isMultiline = false
						return m, nil
					}
					return m.submit(m.multilineBuffer)
				}
				return m, nil
			}

			if m.isMultiline {
				m.multilineBuffer += "\n" + input
				m.textInput.SetValue("")
				if isBalanced(m.multilineBuffer) {
					return m.submit(m.multilineBuffer)
				}
				return m, nil
			}

			if !isBalanced(input) {
				m.isMultiline = true
				m.multilineBuffer = input
				m.textInput.SetValue("")
				return m, nil
			}

			return m.submit(input)
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

func (m model) submit(buffer string) (tea.Model, tea.Cmd) {
	m.evaluating = true
	m.currentInput = buffer
	m.textInput.SetValue("")
	m.isMultiline = false
	m.multilineBuffer = ""
	m.fileCounter++
	return m, parseCmd(buffer, m.syms, m.fileCounter, m.options.Debug)
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, " t3c REPL "))
	s.WriteString("\n")
	if m.username != "" {
		s.WriteString(fmt.Sprintf("\nHello %s! Enter object and class definitions to add them to the symbol table\n", m.username))
	}
	s.WriteString("\n")

	for _, entry:= range m.history {
		for i, line:= range strings.Split(entry.input, "\n") {
			if i == 0 {
				s.WriteString(m.applyStyle(promptStyle, Prompt))
			} else {
				s.WriteString(m.applyStyle(promptStyle, ContPrompt))
			}
			s.WriteString(m.highlightCode(line))
			s.WriteString("\n")
		}

		style:= resultStyle
		if entry.isError {
			style = errorStyle
		}
		s.WriteString(m.applyStyle(style, entry.output))

		if entry.evaluationTime > 10*time.Millisecond {
			s.WriteString(m.applyStyle(historyStyle, fmt.Sprintf(" (%.3fs)", entry.evaluationTime.Seconds())))
		}
		s.WriteString("\n\n")
	}

	if m.evaluating {
		s.WriteString(m.applyStyle(promptStyle, Prompt))
		s.WriteString(m.highlightCode(m.currentInput))
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" Parsing...\n\n")
	}

	if m.isMultiline && !m.evaluating {
		s.WriteString(m.applyStyle(historyStyle, "Current multiline input:\n"))
		s.WriteString(m.highlightCode(m.multilineBuffer))
		s.WriteString("\n")
	}

	if !m.evaluating {
		if m.isMultiline {
			m.textInput.Prompt = m.applyStyle(promptStyle, ContPrompt)
		} else {
			m.textInput.Prompt = m.applyStyle(promptStyle, Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	help:= "\nPress Esc or Ctrl+C/D to exit"
	if m.isMultiline {
		help += " | empty line evaluates the buffer"
	} else {
		help += " | unbalanced brackets enter multiline mode"
	}
	s.WriteString(m.applyStyle(historyStyle, help))

	return s.String()
}

// highlightCode applies minimal syntax coloring for echoed history and the
// in-progress buffer; it does not attempt to reflow whitespace.
func (m model) highlightCode(code string) string {
	lx:= lexer.New(code, 0)
	var s strings.Builder

	prevEnd:= -1
	for {
		tok:= lx.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		if prevEnd >= 0 {
			s.WriteString(" ")
		}
		prevEnd = 0

		switch {
		case isKeywordKind(tok.Kind):
			s.WriteString(m.applyStyle(keywordStyle, tok.Literal))
		case tok.Kind == token.Ident:
			s.WriteString(m.applyStyle(identifierStyle, tok.Literal))
		case tok.Kind == token.Int || tok.Kind == token.Float:
			s.WriteString(m.applyStyle(literalStyle, tok.Literal))
		case tok.Kind == token.SStr:
			s.WriteString(m.applyStyle(stringStyle, "'"+tok.Literal+"'"))
		case tok.Kind == token.DStr || tok.Kind == token.DstrStart || tok.Kind == token.DstrMid || tok.Kind == token.DstrEnd:
			s.WriteString(m.applyStyle(stringStyle, tok.Literal))
		case isOperatorKind(tok.Kind):
			s.WriteString(m.applyStyle(operatorStyle, tok.Literal))
		case isDelimiterKind(tok.Kind):
			s.WriteString(m.applyStyle(delimiterStyle, tok.Literal))
		default:
			s.WriteString(tok.Literal)
		}
	}

	return s.String()
}

func isKeywordKind(k token.Kind) bool {
	return k >= token.KwFunction && k <= token.KwThrow
}

func isOperatorKind(k token.Kind) bool {
	switch k {
	case token.Assign, token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.Bang, token.Amp, token.Pipe, token.Caret, token.Tilde,
		token.Lt, token.Gt, token.Le, token.Ge, token.ShL, token.ShR:
		return true
	}
	return false
}

func isDelimiterKind(k token.Kind) bool {
	switch k {
	case token.Comma, token.Colon, token.Semi, token.LParen, token.RParen,
		token.LBrace, token.RBrace, token.LBracket, token.RBracket:
		return true
	}
	return false
}
