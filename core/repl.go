// Package core ties the shell's parse and execute layers to an
// interactive read loop.
package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"

	"github.com/josephlewis42/pipesh/core/config"
	"github.com/josephlewis42/pipesh/core/interp"
	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/josephlewis42/pipesh/core/shell"
)

const (
	EnvHome = "HOME"
	EnvUser = "USER"

	DefaultPrompt = `\u@\h:\w\$ `

	// syntaxErrStatus mirrors the shell convention for misuse errors.
	syntaxErrStatus = 2
)

var (
	colorPrompt = color.New(color.FgGreen, color.Bold)
	colorError  = color.New(color.FgRed)
)

// Shell is the interactive front end: it reads lines, filters
// builtins and blank input, and hands everything else to the parser
// and runner.
type Shell struct {
	Config   *config.Configuration
	Runner   *interp.Runner
	Events   *logger.SessionLogger
	Readline *readline.Instance

	Stdout io.Writer
	Stderr io.Writer

	useColor   bool
	history    []string
	lastStatus int
}

// NewShell builds a shell bound to the process's standard streams.
// When interactive is false no readline instance is created and Run
// must not be used; drive the shell with RunLines instead.
func NewShell(cfg *config.Configuration, events *logger.Logger, interactive bool) (*Shell, error) {
	s := &Shell{
		Config:   cfg,
		Runner:   interp.NewRunner(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		useColor: cfg.ColorEnabled(interactive),
	}
	if events != nil {
		s.Events = events.NewSession()
	}

	if interactive {
		rl, err := readline.NewEx(&readline.Config{
			Stdin:       readline.NewCancelableStdin(os.Stdin),
			Stdout:      os.Stdout,
			Stderr:      os.Stderr,
			HistoryFile: cfg.HistoryPath(),
		})
		if err != nil {
			return nil, err
		}
		s.Readline = rl
	}

	return s, nil
}

// Run drives the interactive loop until EOF or the exit builtin and
// returns the final status.
func (s *Shell) Run() int {
	if s.Config.Motd != "" {
		fmt.Fprintln(s.Stdout, s.Config.Motd)
	}

	for {
		s.Readline.SetPrompt(s.prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return s.lastStatus // input closed, quit

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			continue

		default:
			if _, done := s.Interpret(line); done {
				return s.lastStatus
			}
		}
	}
}

// RunLines interprets every line from r in order, for script mode and
// one-shot execution. The returned status is the last line's status.
func (s *Shell) RunLines(r io.Reader) int {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if _, done := s.Interpret(scanner.Text()); done {
			break
		}
	}
	return s.lastStatus
}

// Interpret handles one input line: builtin dispatch first, then
// parse and execute. It reports whether the session should end.
func (s *Shell) Interpret(line string) (status int, done bool) {
	tokens := shell.Tokenize(line)
	if len(tokens) == 0 {
		return s.lastStatus, false
	}

	s.history = append(s.history, strings.TrimSpace(line))

	switch tokens[0] {
	case "exit":
		return s.lastStatus, true
	case "cd":
		s.lastStatus = s.builtinCd(tokens)
		return s.lastStatus, false
	case "history":
		s.lastStatus = s.builtinHistory(tokens)
		return s.lastStatus, false
	}

	pl, err := shell.Parse(line)
	switch {
	case errors.Is(err, shell.ErrEmptyLine):
		return s.lastStatus, false
	case err != nil:
		s.printError(err)
		s.lastStatus = syntaxErrStatus
		return s.lastStatus, false
	}

	start := time.Now()
	nCmds := len(pl.Cmds)
	status, runErr := s.Runner.Run(pl)
	pl.Release()

	if s.Events != nil {
		if err := s.Events.RecordLine(line, nCmds, status, time.Since(start), runErr); err != nil {
			log.Printf("Error recording event: %v", err)
		}
	}

	if runErr != nil {
		s.printError(runErr)
	}

	s.lastStatus = status
	return s.lastStatus, false
}

func (s *Shell) Close() error {
	if s.Readline != nil {
		return s.Readline.Close()
	}
	return nil
}

func (s *Shell) prompt() string {
	template := s.Config.Prompt
	if template == "" {
		template = DefaultPrompt
	}

	host, _ := os.Hostname()
	wd, _ := os.Getwd()

	expanded := expandPrompt(template, os.Getenv(EnvUser), host, wd, os.Getenv(EnvHome), os.Getuid())
	if s.useColor {
		return colorPrompt.Sprint(expanded)
	}
	return expanded
}

// expandPrompt fills a PS1 style template: \u user, \h host, \w
// working directory with the home prefix shortened to ~, and \$ which
// is "#" for root and "$" for everyone else.
func expandPrompt(template, user, host, wd, home string, uid int) string {
	if home != "" && strings.HasPrefix(wd, home) {
		wd = "~" + strings.TrimPrefix(wd, home)
	}

	out := strings.ReplaceAll(template, `\u`, user)
	out = strings.ReplaceAll(out, `\h`, host)
	out = strings.ReplaceAll(out, `\w`, wd)

	if uid == 0 {
		return strings.ReplaceAll(out, `\$`, "#")
	}
	return strings.ReplaceAll(out, `\$`, "$")
}

func (s *Shell) printError(err error) {
	msg := err.Error()
	if s.useColor {
		msg = colorError.Sprint(msg)
	}
	fmt.Fprintln(s.Stderr, msg)
}

func (s *Shell) builtinCd(args []string) int {
	switch len(args) {
	case 1:
		args = append(args, os.Getenv(EnvHome))
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			fmt.Fprintf(s.Stderr, "%s: %v\n", args[0], err)
			return 1
		}
	default:
		fmt.Fprintf(s.Stderr, "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

func (s *Shell) builtinHistory(args []string) int {
	opts := getopt.New()
	clearList := opts.BoolLong("clear", 'c', "clear the history list")
	lastN := opts.IntLong("lines", 'n', 0, "show only the last N entries")

	if err := opts.Getopt(args, nil); err != nil {
		fmt.Fprintf(s.Stderr, "%s: %v\n", args[0], err)
		return 1
	}

	if *clearList {
		s.history = nil
		return 0
	}

	entries := s.history
	if *lastN > 0 && *lastN < len(entries) {
		entries = entries[len(entries)-*lastN:]
	}

	offset := len(s.history) - len(entries)
	for i, entry := range entries {
		fmt.Fprintf(s.Stdout, "%5d  %s\n", offset+i+1, entry)
	}
	return 0
}
