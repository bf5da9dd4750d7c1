package knowledge

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/unidoc/unipdf/v3/extractor"
	pdf "github.com/unidoc/unipdf/v3/model"

	"github.com/amal-assist/amal/pkg/eventbus"
	"github.com/amal-assist/amal/pkg/model"
	"github.com/amal-assist/amal/pkg/utils/logging"
)

// Loader assembles the knowledge base text from PDF documents and web
// pages. Assembly happens once at startup; the resulting text is
// immutable afterwards and safe for concurrent readers.
type Loader struct {
	bus    *eventbus.Bus
	client *http.Client
}

func NewLoader(bus *eventbus.Bus) *Loader {
	return &Loader{
		bus: bus,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Build concatenates the text of every reachable source. A source that
// cannot be read is logged, reported to the event bus and contributes
// nothing; a partial knowledge base is acceptable.
func (l *Loader) Build(ctx context.Context, src *Sources) string {
	logger := logging.From(ctx)
	var sb strings.Builder

	for _, path := range src.PDFs {
		text, err := extractPDFText(path)
		if err != nil {
			logger.Warn("skipping unreadable PDF source", "path", path, "error", err)
			l.reportError(ctx, "knowledge_extraction_error", err, path)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	for _, url := range src.URLs {
		text, err := l.fetchURLText(ctx, url)
		if err != nil {
			logger.Warn("skipping unreachable URL source", "url", url, "error", err)
			l.reportError(ctx, "knowledge_extraction_error", err, url)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

func (l *Loader) reportError(ctx context.Context, errType string, err error, source string) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(ctx, model.EventError, map[string]any{
		"error_type":    errType,
		"error_message": err.Error(),
		"module":        "knowledge",
		"source":        source,
	})
}

// extractPDFText pulls the text of every page of a PDF file.
func extractPDFText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open PDF", goerr.V("path", path))
	}
	defer f.Close()

	reader, err := pdf.NewPdfReader(f)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read PDF", goerr.V("path", path))
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", goerr.Wrap(err, "failed to count PDF pages", goerr.V("path", path))
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			continue
		}
		sb.WriteString(strings.TrimSpace(pageText))
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}

// fetchURLText downloads a page and extracts its visible text, dropping
// script and style content.
func (l *Loader) fetchURLText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build request", goerr.V("url", url))
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch URL", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("unexpected status", goerr.V("url", url), goerr.V("status", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse HTML", goerr.V("url", url))
	}

	doc.Find("script, style").Remove()

	return collapseText(doc.Text()), nil
}

// collapseText normalizes scraped page text: one trimmed, non-empty
// chunk per line.
func collapseText(text string) string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if chunk := strings.TrimSpace(phrase); chunk != "" {
				chunks = append(chunks, chunk)
			}
		}
	}
	return strings.Join(chunks, "\n")
}
