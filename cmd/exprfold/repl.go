package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/exprfold"
)

const (
	promptMain = "> "
	promptCont = ". "
)

func repl[T any](ctx context.Context, s *session[T]) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if s.opts.history != "" {
		if f, err := os.Open(s.opts.history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(s.opts.history)
			if err != nil {
				logrus.WithError(err).Debug("Could not save history")
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	for ctx.Err() == nil {
		src, ok := readExpr(ln, s)
		if !ok {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(src)
		switch {
		case line == "":
			continue
		case line == ":quit":
			return 0
		case line == ":vars":
			s.showVars()
		case strings.HasPrefix(line, ":"):
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		default:
			if name, rhs, ok := assignment(line); ok {
				if err := s.define(name, rhs); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
				break
			}
			a, err := s.parse(line)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				break
			}
			s.show(ctx, a)
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
	return 0
}

// readExpr reads lines until they form an expression that is complete or
// wrong. The boolean result is false at the end of input.
func readExpr[T any](ln *liner.State, s *session[T]) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C drops what has been typed so far.
			return "", true
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := strings.TrimSpace(b.String())
		if src == "" || strings.HasPrefix(src, ":") {
			return src, true
		}
		if _, rhs, ok := assignment(src); ok {
			src = rhs
		}
		if !s.incomplete(src) {
			return b.String(), true
		}
	}
}

// incomplete reports whether src parses so far but needs more tokens.
func (s *session[T]) incomplete(src string) bool {
	bl, err := exprfold.Build(strings.NewReader(src), s.opts.preset)
	if err != nil || bl.Empty() {
		return false
	}
	_, err = exprfold.Finalize(bl, s.arith)
	var ie *exprfold.IncompleteError
	return errors.As(err, &ie)
}

// assignment splits a line of the form "name = expr".
func assignment(line string) (name, rhs string, ok bool) {
	name, rhs, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(name), rhs, true
}

func (s *session[T]) showVars() {
	names := make([]string, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	vf := strings.TrimSuffix(s.opts.verb, "\n")
	for _, k := range names {
		fmt.Printf("%s = "+vf+"\n", k, s.vars[k])
	}
}
