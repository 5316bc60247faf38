package rendering

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultPDFTimeout bounds a single headless Chrome render.
const DefaultPDFTimeout = 60 * time.Second

// PDFRenderer produces a PDF for a draft.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, d types.Draft) ([]byte, error)
}

// ChromePDFRenderer prints the HTML rendering through headless Chrome.
type ChromePDFRenderer struct {
	html     *HTMLRenderer
	execPath string
	timeout  time.Duration
}

// NewChromePDFRenderer returns a renderer using the Chrome binary at
// execPath, or chromedp's default lookup when empty.
func NewChromePDFRenderer(html *HTMLRenderer, execPath string) *ChromePDFRenderer {
	return &ChromePDFRenderer{html: html, execPath: execPath, timeout: DefaultPDFTimeout}
}

// RenderPDF renders d to HTML and prints it to an A4 PDF.
func (r *ChromePDFRenderer) RenderPDF(ctx context.Context, d types.Draft) ([]byte, error) {
	doc, err := r.html.RenderHTML(d)
	if err != nil {
		return nil, err
	}
	return r.PrintHTML(ctx, doc)
}

// PrintHTML prints an already rendered HTML document.
func (r *ChromePDFRenderer) PrintHTML(ctx context.Context, doc []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return nil, &RenderError{Format: "pdf", Message: "failed to create temp dir", Cause: err}
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, doc, 0o600); err != nil {
		return nil, &RenderError{Format: "pdf", Message: "failed to write HTML", Cause: err}
	}

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Format: "pdf", Message: "headless Chrome failed", Cause: err}
	}
	return pdf, nil
}

// FallbackPDFRenderer tries a primary renderer and switches to a secondary
// one when the primary fails, e.g. when Chrome is not installed.
type FallbackPDFRenderer struct {
	Primary   PDFRenderer
	Secondary PDFRenderer
}

// RenderPDF implements PDFRenderer.
func (r *FallbackPDFRenderer) RenderPDF(ctx context.Context, d types.Draft) ([]byte, error) {
	out, err := r.Primary.RenderPDF(ctx, d)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	log.Printf("[render] primary PDF renderer failed, using fallback: %v", err)
	return r.Secondary.RenderPDF(ctx, d)
}

// NewPDFRenderer returns Chrome-backed rendering with the built-in layout as fallback.
func NewPDFRenderer(html *HTMLRenderer, chromePath string) PDFRenderer {
	return &FallbackPDFRenderer{
		Primary:   NewChromePDFRenderer(html, chromePath),
		Secondary: NewSimplePDFRenderer(),
	}
}
