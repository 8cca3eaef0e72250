package ingredients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Extractor turns a raw ingredient label into a Record.
type Extractor interface {
	Extract(ctx context.Context, label string) (Record, error)
}

// Strategy selects how labels are parsed for a source.
type Strategy string

const (
	StrategyGrammar  Strategy = "grammar"
	StrategyLLM      Strategy = "llm"
	StrategyFallback Strategy = "grammar+llm"
)

// ParseStrategy validates a configuration value.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyGrammar, StrategyLLM, StrategyFallback:
		return st, nil
	case "":
		return StrategyGrammar, nil
	}
	return "", fmt.Errorf("unknown extraction strategy %q", s)
}

// Options configures New.
type Options struct {
	Strategy      Strategy
	Terminator    Terminator
	PercentFormat PercentFormat

	// Generator is required by the llm and grammar+llm strategies.
	Generator  JSONGenerator
	Timeout    time.Duration
	RepairJSON bool
}

// New builds the Extractor described by opts.
func New(opts Options) (Extractor, error) {
	grammar := NewGrammar(opts.Terminator, opts.PercentFormat)

	switch opts.Strategy {
	case StrategyGrammar, "":
		return grammar, nil
	case StrategyLLM, StrategyFallback:
		if opts.Generator == nil {
			return nil, fmt.Errorf("strategy %q needs a structured-extraction client", opts.Strategy)
		}
		llm := &LLMExtractor{
			Generator:   opts.Generator,
			Instruction: DefaultInstruction,
			Timeout:     opts.Timeout,
			RepairJSON:  opts.RepairJSON,
		}
		if opts.Strategy == StrategyLLM {
			return llm, nil
		}
		return &Fallback{Primary: grammar, Secondary: llm}, nil
	}
	return nil, fmt.Errorf("unknown extraction strategy %q", opts.Strategy)
}

// Fallback runs Secondary only when Primary finds no groups.
type Fallback struct {
	Primary   Extractor
	Secondary Extractor
}

func (f *Fallback) Extract(ctx context.Context, label string) (Record, error) {
	record, err := f.Primary.Extract(ctx, label)
	if err != nil && !errors.Is(err, ErrMalformedPercent) {
		return nil, err
	}
	if len(record) > 0 || strings.TrimSpace(label) == "" {
		return record, err
	}

	fallback, ferr := f.Secondary.Extract(ctx, label)
	if ferr != nil {
		return nil, errors.Join(err, ferr)
	}
	return fallback, nil
}
