package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-legaldocs/internal/config"
	"github.com/goliatone/go-legaldocs/pkg/drafts"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/renderers/pdf"
)

// app carries the state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	envFile  string
	langFlag string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
	lang   model.Language
}

func (a *app) init(cmd *cobra.Command) error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = strings.ToLower(a.logLevel)
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(a.stderr)

	a.lang = cfg.Language
	if cmd.Flags().Changed("lang") {
		lang, err := model.ParseLanguage(a.langFlag)
		if err != nil {
			return err
		}
		a.lang = lang
	}
	return nil
}

func (a *app) orchestrator() (*orchestrator.Orchestrator, error) {
	font := a.cfg.TamilFont
	if font == "" {
		if found, ok := pdf.FindTamilFont(); ok {
			a.logger.Debug("using system tamil font", "path", found)
			font = found
		}
	}
	pdfOptions := []pdf.Option{
		pdf.WithTamilFontFile(font),
		pdf.WithFingerprint(a.cfg.PDFFingerprint),
	}
	return orchestrator.New(
		orchestrator.WithLogger(a.logger),
		orchestrator.WithPDFOptions(pdfOptions...),
	)
}

func (a *app) draftStore() (*drafts.FileStore, error) {
	return drafts.NewFileStore(a.cfg.DataDir)
}

// valueFlags are the shared ways of supplying form values.
type valueFlags struct {
	file      string
	set       []string
	fromDraft bool
}

func (v *valueFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.file, "values", "", "JSON file of field values")
	cmd.Flags().StringArrayVar(&v.set, "set", nil, "field value as key=value (repeatable)")
	cmd.Flags().BoolVar(&v.fromDraft, "draft", false, "start from the saved draft for the type")
}

// load merges the draft, then the values file, then --set pairs.
func (v *valueFlags) load(cmd *cobra.Command, a *app, key model.DocumentTypeKey) (model.FormValues, error) {
	values := model.FormValues{}
	if v.fromDraft {
		store, err := a.draftStore()
		if err != nil {
			return nil, err
		}
		draft, err := drafts.Load(cmd.Context(), store, key, a.logger)
		if err != nil {
			return nil, err
		}
		values = draft
	}
	if v.file != "" {
		fromFile, err := readValues(v.file)
		if err != nil {
			return nil, err
		}
		for k, val := range fromFile {
			values[k] = val
		}
	}
	for _, pair := range v.set {
		k, val, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", pair)
		}
		values[strings.TrimSpace(k)] = val
	}
	return values, nil
}

func readValues(path string) (model.FormValues, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values model.FormValues
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}
