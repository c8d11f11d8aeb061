package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-legaldocs/internal/server"
	"github.com/goliatone/go-legaldocs/internal/watch"
	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/drafts"
	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/tui"
	"github.com/goliatone/go-legaldocs/pkg/validation"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "legaldocs",
		Short: "Bilingual legal document generator",
		Long: `legaldocs fills English and Tamil legal document templates from form
values and exports them as text, HTML, PDF or DOCX.

Example:
  legaldocs types --lang ta
  legaldocs generate nda --values nda.json
  legaldocs export rental-agreement --values lease.json --format pdf --out out/`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.langFlag, "lang", "", "document language (en or ta)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load settings from this env file instead of .env")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		typesCmd(a),
		fieldsCmd(a),
		generateCmd(a),
		classifyCmd(a),
		exportCmd(a),
		fillCmd(a),
		watchCmd(a),
		serveCmd(a),
	)
	return root
}

func typesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List document types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := catalog.Default()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, doc := range store.Types() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", doc.Key, doc.Name.Get(a.lang), doc.Category)
			}
			return tw.Flush()
		},
	}
}

func fieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <type>",
		Short: "Show the form fields of a document type, grouped by section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := catalog.Default()
			if err != nil {
				return err
			}
			key := model.DocumentTypeKey(args[0])
			doc, ok := store.Type(key)
			if !ok {
				return fmt.Errorf("%w: %q", catalog.ErrUnknownDocumentType, key)
			}
			fmt.Fprintln(a.stdout, doc.Name.Get(a.lang))
			for _, group := range store.Grouped(key) {
				if title := group.Section.Title.Get(a.lang); title != "" {
					fmt.Fprintf(a.stdout, "\n%s\n", title)
				}
				tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
				for _, f := range group.Fields {
					marker := " "
					if f.Required {
						marker = "*"
					}
					note := ""
					if f.ReadOnly {
						note = "read-only"
					}
					fmt.Fprintf(tw, "  %s %s\t%s\t%s\t%s\n", marker, f.ID, f.Label.Get(a.lang), f.Kind, note)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func generateCmd(a *app) *cobra.Command {
	var values valueFlags
	cmd := &cobra.Command{
		Use:   "generate <type>",
		Short: "Print the generated document text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preview, err := a.preview(cmd, &values, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, preview.Text)
			if !preview.Advice.Ready() {
				fmt.Fprintln(a.stderr, preview.Advice.Message)
			}
			return nil
		},
	}
	values.register(cmd)
	return cmd
}

func classifyCmd(a *app) *cobra.Command {
	var values valueFlags
	cmd := &cobra.Command{
		Use:   "classify <type>",
		Short: "Print each generated line with its classification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preview, err := a.preview(cmd, &values, args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, line := range preview.Lines {
				if line.Text == "" {
					continue
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", line.Index, line.Kind, line.Prefix, line.Rest)
			}
			return tw.Flush()
		},
	}
	values.register(cmd)
	return cmd
}

func (a *app) preview(cmd *cobra.Command, flags *valueFlags, rawKey string) (orchestrator.Preview, error) {
	key := model.DocumentTypeKey(rawKey)
	values, err := flags.load(cmd, a, key)
	if err != nil {
		return orchestrator.Preview{}, err
	}
	orch, err := a.orchestrator()
	if err != nil {
		return orchestrator.Preview{}, err
	}
	return orch.Preview(cmd.Context(), orchestrator.Request{Type: key, Language: a.lang, Values: values})
}

// exportOptions are the flags shared by export and watch.
type exportOptions struct {
	format string
	outDir string
	force  bool
}

func (o *exportOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "format", "pdf", "output format (pdf, docx, html, text)")
	cmd.Flags().StringVar(&o.outDir, "out", ".", "output directory")
	cmd.Flags().BoolVar(&o.force, "force", false, "export even when required fields are missing")
}

// writeExport renders one artifact into the output directory and returns its
// path.
func (a *app) writeExport(ctx context.Context, orch *orchestrator.Orchestrator, key model.DocumentTypeKey, values model.FormValues, opts exportOptions) (string, error) {
	if !opts.force {
		advice, err := orch.Advise(key, values, a.lang)
		if err != nil {
			return "", err
		}
		if !advice.Ready() {
			return "", fmt.Errorf("%s (use --force to export anyway)", advice.Message)
		}
	}

	artifact, err := orch.Export(ctx, orchestrator.Request{
		Type:     key,
		Language: a.lang,
		Values:   values,
		Renderer: opts.format,
	})
	if err != nil {
		return "", err
	}

	path, err := securejoin.SecureJoin(opts.outDir, artifact.FileName)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, artifact.Bytes, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func exportCmd(a *app) *cobra.Command {
	var values valueFlags
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export <type>",
		Short: "Render a document to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := model.DocumentTypeKey(args[0])
			vals, err := values.load(cmd, a, key)
			if err != nil {
				return err
			}
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			path, err := a.writeExport(cmd.Context(), orch, key, vals, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
	values.register(cmd)
	opts.register(cmd)
	return cmd
}

func fillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <type>",
		Short: "Fill a document's form interactively and save it as a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := model.DocumentTypeKey(args[0])
			store, err := a.draftStore()
			if err != nil {
				return err
			}
			filler, err := tui.New(tui.WithLanguage(a.lang), tui.WithPromptDriver(tui.NewSurveyDriver(a.stdout)))
			if err != nil {
				return err
			}
			session := drafts.NewSession(store, drafts.WithLogger(a.logger))
			values, err := filler.Fill(cmd.Context(), session, key)
			if err != nil {
				return err
			}

			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			doc := cat.MustType(key)
			advice := validation.Advisory(doc.Fields, values, a.lang, validation.DefaultLimit)
			if !advice.Ready() {
				fmt.Fprintln(a.stdout, advice.Message)
			}
			fmt.Fprintf(a.stdout, "draft saved to %s\n", store.Root())
			return nil
		},
	}
}

func watchCmd(a *app) *cobra.Command {
	var values valueFlags
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "watch <type>",
		Short: "Re-export whenever the values file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if values.file == "" {
				return fmt.Errorf("--values is required")
			}
			key := model.DocumentTypeKey(args[0])
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			rebuild := func(ctx context.Context) error {
				vals, err := values.load(cmd, a, key)
				if err != nil {
					return err
				}
				path, err := a.writeExport(ctx, orch, key, vals, opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, path)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := rebuild(ctx); err != nil {
				a.logger.Error("initial export failed", "error", err)
			}
			w, err := watch.New([]string{values.file},
				watch.WithDebounce(a.cfg.WatchDebounce),
				watch.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "watching %s (Ctrl+C to stop)\n", values.file)
			return w.Run(ctx, rebuild)
		},
	}
	values.register(cmd)
	opts.register(cmd)
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Addr
			}
			if a.cfg.GinMode != "" {
				gin.SetMode(a.cfg.GinMode)
			}
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			store, err := a.draftStore()
			if err != nil {
				return err
			}
			srv, err := server.New(orch,
				server.WithLogger(a.logger),
				server.WithDraftStore(store),
				server.WithLanguage(a.lang),
			)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to LEGALDOCS_ADDR)")
	return cmd
}
