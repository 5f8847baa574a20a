package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/connect/pkg/vdom"
)

// RootID is the id of the element the live client swaps rendered HTML into.
const RootID = "root"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content
	Body *vdom.VNode

	// Title is the page title
	Title string

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Styles contains inline CSS styles
	Styles []string

	// LiveURL is the WebSocket path of the live session. When empty the page
	// is static and no client script is injected.
	LiveURL string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if err := r.renderDocumentStart(w, page); err != nil {
		return err
	}
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	if err := r.renderBody(w, page); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</html>\n")
	return err
}

func (r *Renderer) renderDocumentStart(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", escapeAttr(lang))
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n  <meta charset=\"utf-8\">\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

// renderBody renders the root container, its content and the live client.
func (r *Renderer) renderBody(w io.Writer, page PageData) error {
	if page.LiveURL != "" {
		if _, err := fmt.Fprintf(w, "<body>\n<div id=\"%s\" data-live=\"%s\">", RootID, escapeAttr(page.LiveURL)); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "<body>\n<div id=\"%s\">", RootID); err != nil {
			return err
		}
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "</div>\n"); err != nil {
		return err
	}
	if page.LiveURL != "" {
		if _, err := fmt.Fprintf(w, "<script>%s</script>\n", ClientScript); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n")
	return err
}
