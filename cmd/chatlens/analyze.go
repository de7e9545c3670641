package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chatlens/chatlens/internal/export"
	"github.com/chatlens/chatlens/internal/model"
	"github.com/chatlens/chatlens/internal/parser"
	"github.com/chatlens/chatlens/internal/stats"
	"github.com/chatlens/chatlens/internal/vocab"
)

var errNoMessages = errors.New("no chat messages could be parsed")

type analyzeOptions struct {
	anonymize bool
	vocabFile string
	format    string
	timezone  string
	teaser    bool
	verbose   bool
}

// analyzeOutput is the document printed by analyze.
type analyzeOutput struct {
	ParseStats model.ParseStats `json:"parseStats" yaml:"parseStats"`
	Teaser     *model.Teaser    `json:"teaser,omitempty" yaml:"teaser,omitempty"`
	Metrics    *model.Metrics   `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

func newAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Compute metrics for an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.anonymize, "anonymize", false, "Replace participant names with Persona A, Persona B, ...")
	cmd.Flags().StringVar(&opts.vocabFile, "vocab", "", "YAML file overriding the default vocabularies")
	cmd.Flags().StringVarP(&opts.format, "format", "o", "json", "Output format: json or yaml")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "", "IANA zone the export was written in (default: local)")
	cmd.Flags().BoolVar(&opts.teaser, "teaser", false, "Print only the teaser")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log parser diagnostics to stderr")

	return cmd
}

func runAnalyze(stdout, stderr io.Writer, path string, opts *analyzeOptions) error {
	format := strings.ToLower(opts.format)
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q (use json or yaml)", opts.format)
	}

	loc := time.Local
	if opts.timezone != "" {
		var err error
		if loc, err = time.LoadLocation(opts.timezone); err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
	}

	vocabulary, err := loadVocabulary(opts.vocabFile)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	text, err := export.Extract(filepath.Base(path), data)
	if err != nil {
		return err
	}

	p, err := parser.New(parser.Config{Vocabulary: vocabulary, Location: loc, Logger: logger})
	if err != nil {
		return err
	}
	engine, err := stats.NewEngine(stats.Config{Vocabulary: vocabulary, Logger: logger})
	if err != nil {
		return err
	}

	chat, parseStats := p.Parse(text)
	if len(chat.Messages) == 0 {
		return errNoMessages
	}

	m := engine.Compute(chat.Messages)
	if opts.anonymize {
		m = stats.ApplyAliases(m, stats.BuildAliasMap(m.Participants))
	}

	out := analyzeOutput{ParseStats: parseStats}
	if opts.teaser {
		teaser := stats.BuildTeaser(m)
		out.Teaser = &teaser
	} else {
		out.Metrics = m
	}

	return encode(stdout, format, out)
}

func loadVocabulary(path string) (*vocab.Vocabulary, error) {
	if path == "" {
		return vocab.Default(), nil
	}
	return vocab.Load(path)
}

func encode(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
