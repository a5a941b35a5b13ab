package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/babel-cnc/babel"
	"github.com/babel-cnc/babel/grammars/arithmetic"
	"github.com/babel-cnc/babel/grammars/heidenhain"
)

const historyFile = ".babel_history"

// session keeps the state of one language between inputs, so Q
// variables and machine registers carry over from line to line
type session interface {
	run(program babel.Values) (string, error)
}

type exprSession struct{ eval *arithmetic.Evaluator }

func (s *exprSession) run(program babel.Values) (string, error) {
	defer s.eval.Clear()
	if err := s.eval.Run(program); err != nil {
		return "", err
	}
	v, err := s.eval.PopFloat()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%g", v), nil
}

type cncSession struct{ machine *heidenhain.Machine }

func (s *cncSession) run(program babel.Values) (string, error) {
	before := len(s.machine.Snapshots())
	if err := s.machine.Run(program); err != nil {
		return "", err
	}
	var out []string
	for _, snap := range s.machine.Snapshots()[before:] {
		out = append(out, formatSnapshot(snap))
	}
	return strings.Join(out, "\n"), nil
}

func formatSnapshot(s heidenhain.Snapshot) string {
	var items []string
	for r := heidenhain.Register_Compensation; r <= heidenhain.Register_CenterZInc; r++ {
		if v, ok := s[r]; ok {
			items = append(items, fmt.Sprintf("%s=%v", r, v))
		}
	}
	return strings.Join(items, " ")
}

type runner struct {
	grammar    *babel.Grammar
	session    session
	printStack bool
}

func (r *runner) exec(line string) (string, error) {
	res, err := r.grammar.Parse(line)
	if err != nil {
		return "", err
	}
	if !res.Cursor.AtEnd() {
		klog.Warningf("ignoring %q", strings.TrimSpace(res.Cursor.Remaining()))
	}
	out, err := r.session.run(res.Stack)
	if r.printStack {
		out = res.Stack.String() + "\n" + out
	}
	return strings.TrimRight(out, "\n"), err
}

func newRunner(lang string, cfg *babel.Config, printStack bool) (*runner, error) {
	var (
		root babel.Rule
		s    session
	)
	switch lang {
	case "expr":
		root = arithmetic.Statement
		s = &exprSession{eval: arithmetic.NewEvaluator()}
	case "cnc":
		root = heidenhain.Block
		s = &cncSession{machine: heidenhain.NewMachine()}
	default:
		return nil, errors.Errorf("language `%s` not supported", lang)
	}
	g, err := babel.NewGrammar(root, babel.WithConfig(cfg))
	if err != nil {
		return nil, err
	}
	return &runner{grammar: g, session: s, printStack: printStack}, nil
}

func runLines(r *runner, in io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(in)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		out, err := r.exec(line)
		if err != nil {
			return errors.Wrapf(err, "line %d", n)
		}
		if out != "" {
			fmt.Fprintln(w, out)
		}
	}
	return scanner.Err()
}

func repl(r *runner, lang string) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	prompt := lang + "> "
	for {
		line, err := ln.Prompt(prompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			return
		}
		if err != nil {
			klog.Errorf("can't read input: %s", err)
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		out, err := r.exec(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

func main() {
	var (
		lang        = flag.String("lang", "expr", "Input language: expr or cnc")
		inputPath   = flag.String("input", "", "Path to a file with one statement or block per line")
		expression  = flag.String("e", "", "Single statement or block to run")
		interactive = flag.Bool("interactive", false, "Read input from a prompt")
		printStack  = flag.Bool("stack", false, "Print the code emitted for each line")
		trace       = flag.Bool("trace", false, "Log every rule applied while parsing (needs -v=4)")
		requireEOF  = flag.Bool("require-eof", true, "Reject lines with text the grammar doesn't consume")
		showConfig  = flag.Bool("config", false, "Print the parser configuration and exit")
	)
	klog.InitFlags(nil)
	flag.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})
	flag.Parse()
	defer klog.Flush()

	cfg := babel.NewConfig()
	cfg.SetBool("parser.trace", *trace)
	cfg.SetBool("parser.require_eof", *requireEOF)

	if *showConfig {
		cfg.Debug(os.Stdout)
		return
	}

	r, err := newRunner(*lang, cfg, *printStack)
	if err != nil {
		klog.Fatalf("%s", err)
	}

	switch {
	case *interactive:
		repl(r, *lang)
	case *expression != "":
		out, err := r.exec(*expression)
		if err != nil {
			klog.Fatalf("%s", err)
		}
		fmt.Println(out)
	case *inputPath != "":
		f, err := os.Open(*inputPath)
		if err != nil {
			klog.Fatalf("Can't read input file: %s", err)
		}
		defer f.Close()
		if err := runLines(r, f, os.Stdout); err != nil {
			klog.Fatalf("%s: %s", *inputPath, err)
		}
	default:
		if err := runLines(r, os.Stdin, os.Stdout); err != nil {
			klog.Fatalf("%s", err)
		}
	}
}
