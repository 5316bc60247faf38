package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/objectstore"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Export formats.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatText = "txt"
)

var (
	exportFormat     string
	exportOut        string
	exportAll        bool
	exportWorkers    int
	exportUpload     bool
	exportChromePath string
	exportTemplate   string
)

var exportCmd = &cobra.Command{
	Use:   "export [ref]",
	Short: "Export saved resumes as HTML, PDF or plain text",
	Long: `Render a saved resume (by id, title or #n) to HTML, PDF or plain text.
PDFs are printed with headless Chrome when available and fall back to a
built-in layout. With --all every saved resume is exported concurrently into
the --out directory. With --upload the files are also copied to the S3 bucket
named by S3_BUCKET.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", FormatPDF, "Output format: html, pdf or txt")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file, or directory with --all (default: derived from the title)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every saved resume")
	exportCmd.Flags().IntVar(&exportWorkers, "workers", 4, "Concurrent exports with --all")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "Upload exported files to S3")
	exportCmd.Flags().StringVar(&exportChromePath, "chrome-path", os.Getenv("CHROME_PATH"), "Chrome/Chromium binary for PDF export")
	exportCmd.Flags().StringVar(&exportTemplate, "template", "", "Custom HTML template file")

	rootCmd.AddCommand(exportCmd)
}

// uploader is the part of objectstore.Store used by export.
type uploader interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// exporter renders drafts into the supported formats.
type exporter struct {
	html *rendering.HTMLRenderer
	pdf  rendering.PDFRenderer
}

func newExporter(templatePath, chromePath string) (*exporter, error) {
	var (
		html *rendering.HTMLRenderer
		err  error
	)
	if templatePath != "" {
		html, err = rendering.NewHTMLRendererFromFile(templatePath)
	} else {
		html, err = rendering.NewHTMLRenderer()
	}
	if err != nil {
		return nil, err
	}
	return &exporter{html: html, pdf: rendering.NewPDFRenderer(html, chromePath)}, nil
}

func (e *exporter) render(ctx context.Context, d types.Draft, format string) ([]byte, error) {
	switch format {
	case FormatHTML:
		return e.html.RenderHTML(d)
	case FormatPDF:
		return e.pdf.RenderPDF(ctx, d)
	case FormatText:
		doc, err := e.html.RenderHTML(d)
		if err != nil {
			return nil, err
		}
		text, err := rendering.PlainText(doc)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want html, pdf or txt)", format)
	}
}

// exportResult describes one written export.
type exportResult struct {
	Title string
	Path  string
	URI   string
}

// exportOne renders rec and writes it to path, uploading when up is set.
func (e *exporter) exportOne(ctx context.Context, rec types.SavedResume, format, path string, up uploader) (exportResult, error) {
	res := exportResult{Title: rec.Title, Path: path}
	data, err := e.render(ctx, rec.Content, format)
	if err != nil {
		return res, fmt.Errorf("failed to export %q: %w", rec.Title, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return res, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if up != nil {
		uri, err := up.Put(ctx, filepath.Base(path), data, objectstore.ContentType(format))
		if err != nil {
			return res, err
		}
		res.URI = uri
	}
	return res, nil
}

// exportMany exports every record into dir with at most workers in flight.
// File names are derived from titles and made unique.
func (e *exporter) exportMany(ctx context.Context, recs []types.SavedResume, format, dir string, workers int, up uploader) ([]exportResult, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if workers < 1 {
		workers = 1
	}

	names := uniqueNames(recs, format)
	results := make([]exportResult, len(recs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rec := range recs {
		g.Go(func() error {
			res, err := e.exportOne(gctx, rec, format, filepath.Join(dir, names[i]), up)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func uniqueNames(recs []types.SavedResume, format string) []string {
	taken := make(map[string]bool, len(recs))
	names := make([]string, len(recs))
	for i, rec := range recs {
		base := objectstore.ObjectName(rec.Title, format)
		name := base
		ext := filepath.Ext(base)
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), n, ext)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	format := strings.ToLower(strings.TrimPrefix(exportFormat, "."))

	if exportAll == (len(args) == 1) {
		return fmt.Errorf("pass either a resume reference or --all")
	}

	_, repo, err := openStore(dataDir)
	if err != nil {
		return err
	}
	exp, err := newExporter(exportTemplate, exportChromePath)
	if err != nil {
		return err
	}

	var up uploader
	if exportUpload {
		s, err := objectstore.New(ctx, objectstore.ConfigFromEnv())
		if err != nil {
			return err
		}
		up = s
	}

	if exportAll {
		recs, err := repo.List(ctx)
		if err != nil {
			return err
		}
		dir := exportOut
		if dir == "" {
			dir = "exports"
		}
		results, err := exp.exportMany(ctx, recs, format, dir, exportWorkers, up)
		if err != nil {
			return err
		}
		printExports(cmd.OutOrStdout(), results)
		return nil
	}

	rec, err := resolveResume(ctx, repo, args[0])
	if err != nil {
		return err
	}
	path := exportOut
	if path == "" {
		path = objectstore.ObjectName(rec.Title, format)
	}
	res, err := exp.exportOne(ctx, *rec, format, path, up)
	if err != nil {
		return err
	}
	printExports(cmd.OutOrStdout(), []exportResult{res})
	return nil
}

func printExports(out io.Writer, results []exportResult) {
	for _, r := range results {
		if r.URI != "" {
			fmt.Fprintf(out, "%s -> %s (%s)\n", r.Title, r.Path, r.URI)
			continue
		}
		fmt.Fprintf(out, "%s -> %s\n", r.Title, r.Path)
	}
	log.Printf("[export] wrote %d file(s)", len(results))
}
