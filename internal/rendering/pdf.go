package rendering

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultPDFTimeout bounds a single print run, browser startup included.
const DefaultPDFTimeout = 30 * time.Second

// US Letter, inches.
const (
	paperWidth   = 8.5
	paperHeight  = 11.0
	paperMarginV = 0.4
	paperMarginH = 0.4
)

// RenderPDF renders the resume template to HTML and prints it to PDF in a
// headless browser. Requires Chrome/Chromium to be installed on the system.
func RenderPDF(ctx context.Context, resume *types.Resume, templateName string) ([]byte, error) {
	html, err := RenderHTML(resume, templateName)
	if err != nil {
		return nil, err
	}
	return printHTML(ctx, html)
}

// printHTML loads the HTML into a fresh browser tab and runs Chrome's print
// pipeline.
func printHTML(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, DefaultPDFTimeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(paperMarginV).
				WithMarginBottom(paperMarginV).
				WithMarginLeft(paperMarginH).
				WithMarginRight(paperMarginH).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "headless browser print failed", Cause: err}
	}
	return pdf, nil
}
