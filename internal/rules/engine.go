package rules

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/treepat/treepat/matcher"
	"github.com/treepat/treepat/parser"
	"github.com/treepat/treepat/pattern"
)

// Issue is a rule match against one expression line.
type Issue struct {
	Rule     string
	Filename string
	Line     int
	Message  string
	Captures []any
}

// Engine holds the compiled form of a rule set. Patterns are compiled
// once at construction; checking a file is a pure read.
type Engine struct {
	rules  []compiledRule
	parser *parser.Parser
	logger *zap.Logger
}

type compiledRule struct {
	rule Rule
	m    *matcher.Matcher
}

// NewEngine compiles every rule pattern. A pattern the grammar rejects
// is a configuration failure, reported with the rule's name.
func NewEngine(config *Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{parser: parser.New(), logger: logger}
	for _, r := range config.Rules {
		m, err := matcher.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		e.rules = append(e.rules, compiledRule{rule: r, m: m})
	}
	return e, nil
}

// CheckFile checks every expression in a file, one expression per
// non-blank line; '#' starts a comment line. Lines the expression
// grammar rejects are logged and skipped, not fatal; the file may mix
// dialects the restricted grammar does not cover.
func (e *Engine) CheckFile(ctx context.Context, path string) ([]Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.CheckSource(ctx, path, data)
}

// CheckSource is CheckFile over in-memory content. It stops early when
// the context is canceled or its deadline passes.
func (e *Engine) CheckSource(ctx context.Context, filename string, src []byte) ([]Issue, error) {
	var issues []Issue
	scanner := bufio.NewScanner(bytes.NewReader(src))
	lineno := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := e.parser.Parse(line)
		if err != nil {
			var invalid *pattern.InvalidCodeError
			if errors.As(err, &invalid) {
				e.logger.Warn("line contains pattern meta-syntax, skipping",
					zap.String("file", filename),
					zap.Int("line", lineno),
					zap.String("token", invalid.Token))
			} else {
				e.logger.Warn("unparsable line, skipping",
					zap.String("file", filename),
					zap.Int("line", lineno),
					zap.Error(err))
			}
			continue
		}
		for _, cr := range e.rules {
			res := cr.m.Match(v)
			if !res.Matched {
				continue
			}
			issues = append(issues, Issue{
				Rule:     cr.rule.Name,
				Filename: filename,
				Line:     lineno,
				Message:  cr.rule.Message,
				Captures: res.Captures,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return issues, nil
}
