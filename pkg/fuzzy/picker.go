// Package fuzzy provides interactive selection of values, using the fzf
// matcher on a terminal and a numbered prompt everywhere else.
package fuzzy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	fzf "github.com/junegunn/fzf/src"
	"golang.org/x/term"
)

const optionSeparator = "  │  "

// Option represents a selectable option
type Option struct {
	Value       string
	Description string
}

// FzfRunner defines the interface for running fzf
type FzfRunner interface {
	Run(opts *fzf.Options) (int, error)
}

// DefaultFzfRunner implements the FzfRunner interface using the real fzf library
type DefaultFzfRunner struct{}

// Run executes fzf with the given options
func (r *DefaultFzfRunner) Run(opts *fzf.Options) (int, error) {
	return fzf.Run(opts)
}

// Picker selects a single value from a list of options
type Picker struct {
	prompt string
	runner FzfRunner
	input  io.Reader
	output io.Writer
}

// NewPicker creates a picker with the given prompt
func NewPicker(prompt string) *Picker {
	return &Picker{
		prompt: prompt,
		runner: &DefaultFzfRunner{},
		input:  os.Stdin,
		output: os.Stdout,
	}
}

// NewPickerWithRunner creates a picker with a custom fzf runner (for testing)
func NewPickerWithRunner(prompt string, runner FzfRunner) *Picker {
	p := NewPicker(prompt)
	p.runner = runner
	return p
}

// IsInteractive reports whether stdin and stdout are attached to a terminal
// capable of hosting the fzf interface
func IsInteractive() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	termType := os.Getenv("TERM")
	return termType != "" && termType != "dumb"
}

// Pick lets the user choose one option. On a terminal it runs fzf, degrading
// to the numbered prompt when fzf cannot start; everywhere else it uses the
// numbered prompt directly.
func (p *Picker) Pick(options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options available")
	}
	if !IsInteractive() {
		return p.pickNumbered(options)
	}
	return p.pickFzf(options)
}

func (p *Picker) pickFzf(options []Option) (string, error) {
	tmpFile, err := os.CreateTemp("", "picker-options-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmpFile.Name())
	}()

	for _, option := range options {
		if _, err := fmt.Fprintln(tmpFile, displayLine(option)); err != nil {
			return "", fmt.Errorf("failed to write option to file: %w", err)
		}
	}

	// Close the file so fzf can read it
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}

	args := []string{
		"--prompt=" + p.prompt + " ",
		"--height=10",
		"--layout=default",
		"--no-multi",
		"--cycle",
		"--hscroll",
		"--hscroll-off=10",
		"--tabstop=8",
		"--clear",
		"--extended",
		"--algo=v2",
		"--tiebreak=length",
		"--sort=1000",
		"--no-mouse",
		"--no-reverse",
		"--border=none",
	}
	opts, err := fzf.ParseOptions(true, args)
	if err != nil {
		return "", fmt.Errorf("failed to parse fzf options: %w", err)
	}

	// fzf reads its candidates from stdin and prints the selection to
	// stdout, so both are swapped for the duration of the run
	originalStdin := os.Stdin
	defer func() { os.Stdin = originalStdin }()

	optionsFile, err := os.Open(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to open temporary file for reading: %w", err)
	}
	defer func() {
		_ = optionsFile.Close()
	}()
	os.Stdin = optionsFile

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", fmt.Errorf("failed to create pipe: %w", err)
	}
	defer func() {
		_ = r.Close()
	}()
	os.Stdout = w

	exitCode, err := p.runner.Run(opts)

	_ = w.Close()
	os.Stdout = originalStdout

	if err != nil {
		// fzf could not run at all, degrade to the numbered prompt
		return p.pickNumbered(options)
	}
	if exitCode != fzf.ExitOk {
		return "", fmt.Errorf("selection cancelled")
	}

	result, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read fzf result: %w", err)
	}
	selected := strings.TrimSpace(string(result))
	if selected == "" {
		return "", fmt.Errorf("no selection made")
	}

	value := strings.TrimSpace(strings.Split(selected, optionSeparator)[0])
	for _, option := range options {
		if option.Value == value {
			return option.Value, nil
		}
	}
	return value, nil
}

func (p *Picker) pickNumbered(options []Option) (string, error) {
	fmt.Fprintln(p.output, p.prompt)
	fmt.Fprintln(p.output, strings.Repeat("-", len(p.prompt)))
	for i, option := range options {
		fmt.Fprintf(p.output, "%d. %s\n", i+1, displayLine(option))
	}
	fmt.Fprintf(p.output, "\nSelect option (1-%d): ", len(options))

	line, err := bufio.NewReader(p.input).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	line = strings.TrimSpace(line)
	selection, err := strconv.Atoi(line)
	if err != nil {
		return "", fmt.Errorf("invalid selection: %s", line)
	}
	if selection < 1 || selection > len(options) {
		return "", fmt.Errorf("selection out of range: %d", selection)
	}
	return options[selection-1].Value, nil
}

func displayLine(option Option) string {
	if option.Description == "" {
		return option.Value
	}
	return option.Value + optionSeparator + option.Description
}
