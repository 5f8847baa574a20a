package render

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vango-dev/connect/pkg/vdom"
)

func renderString(t *testing.T, r *Renderer, node *vdom.VNode) string {
	t.Helper()
	html, err := r.RenderToString(node)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	return html
}

func TestRenderBasics(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"nil", nil, ""},
		{"text escaped", vdom.Text(`<b>"x"</b>`), "&lt;b&gt;&quot;x&quot;&lt;/b&gt;"},
		{"raw", vdom.Raw("<b>x</b>"), "<b>x</b>"},
		{"void", vdom.Img(vdom.Src("/a.png"), vdom.Alt("a")), `<img alt="a" src="/a.png">`},
		{"sorted attrs", vdom.Div(vdom.ID("z"), vdom.Class("a")), `<div class="a" id="z"></div>`},
		{"boolean attr", vdom.Button(vdom.Disabled()), `<button disabled></button>`},
		{"key hidden", vdom.Li(vdom.Key(1), "x"), `<li>x</li>`},
		{"fragment", vdom.Fragment(vdom.Text("a"), vdom.Text("b")), "ab"},
		{"nested", vdom.Ul(vdom.Li("1"), vdom.Li("2")), "<ul><li>1</li><li>2</li></ul>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderString(t, NewRenderer(RendererConfig{}), tt.node)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderComponentWithProps(t *testing.T) {
	greet := vdom.Func(func(p vdom.Props) *vdom.VNode {
		return vdom.Span(vdom.Textf("hello %s", vdom.Get(p, "name", "nobody")))
	})

	got := renderString(t, NewRenderer(RendererConfig{}), vdom.Div(
		vdom.Comp(greet, vdom.Props{"name": "ada"}),
		greet,
	))
	want := "<div><span>hello ada</span><span>hello nobody</span></div>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHandlersRegisteredByHID(t *testing.T) {
	clicked := 0
	click := func() { clicked++ }
	tree := vdom.Div(
		vdom.P("static"),
		vdom.Button(vdom.OnClick(click), "go"),
	)

	r := NewRenderer(RendererConfig{})
	html := renderString(t, r, tree)

	if !strings.Contains(html, `data-hid="h1"`) {
		t.Fatalf("expected data-hid on button, got %q", html)
	}
	if strings.Count(html, "data-hid") != 1 {
		t.Errorf("only interactive elements get a HID, got %q", html)
	}
	if extractAttrValue(t, html, "data-on-click") != "true" {
		t.Error("missing event marker")
	}
	if strings.Contains(html, "onclick=") {
		t.Error("handler rendered as attribute")
	}

	h, ok := r.Handler("h1", "onclick").(func())
	if !ok {
		t.Fatalf("Handler(h1, onclick) = %T", r.Handler("h1", "onclick"))
	}
	h()
	if clicked != 1 {
		t.Errorf("clicked = %d, want 1", clicked)
	}
	if r.Handler("h2", "onclick") != nil {
		t.Error("unexpected handler for h2")
	}

	r.Reset()
	if len(r.Handlers()) != 0 {
		t.Error("Reset kept handlers")
	}
	html2 := renderString(t, r, tree)
	if html2 != html {
		t.Errorf("render after Reset differs:\n%s\n%s", html, html2)
	}
}

func TestPretty(t *testing.T) {
	r := NewRenderer(RendererConfig{Pretty: true})
	got := renderString(t, r, vdom.Div(vdom.Span("x")))
	want := "<div>\n  <span>x</span>\n</div>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(RendererConfig{})
	err := r.RenderPage(&buf, PageData{
		Title:       "Deck <1>",
		Body:        vdom.H1("hi"),
		StyleSheets: []string{"/assets/deck.css"},
		LiveURL:     "/live",
	})
	if err != nil {
		t.Fatal(err)
	}
	html := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Deck &lt;1&gt;</title>",
		`<link rel="stylesheet" href="/assets/deck.css">`,
		`<div id="root" data-live="/live"><h1>hi</h1></div>`,
		"<script>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
}

func TestRenderPageStatic(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderPage(&buf, PageData{Body: vdom.P("x"), Lang: "de"}); err != nil {
		t.Fatal(err)
	}
	html := buf.String()
	if strings.Contains(html, "<script>") {
		t.Error("static page should not include the live client")
	}
	if !strings.Contains(html, `<html lang="de">`) {
		t.Error("lang not applied")
	}
}

// flushRecorder is an httptest.ResponseRecorder that counts flushes.
type flushRecorder struct {
	*httptest.ResponseRecorder
	flushes int
}

func (f *flushRecorder) Flush() { f.flushes++ }

func TestStreamingRendererFlushes(t *testing.T) {
	rec := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
	s := NewStreamingRenderer(rec, RendererConfig{})
	if err := s.RenderPage(PageData{Body: vdom.P("x")}); err != nil {
		t.Fatal(err)
	}
	if rec.flushes != 2 {
		t.Errorf("flushes = %d, want 2", rec.flushes)
	}
	if !strings.Contains(rec.Body.String(), "<p>x</p>") {
		t.Error("body not written")
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, text, attr string
	}{
		{"plain", "plain", "plain"},
		{`a"b` + "\n&", "a&quot;b\n&amp;", "a&quot;b&#10;&amp;"},
		{"<it's>\t\r", "&lt;it&#39;s&gt;\t\r", "&lt;it&#39;s&gt;&#9;&#13;"},
		{"&amp;", "&amp;amp;", "&amp;amp;"},
	}
	for _, tt := range tests {
		if got := escapeHTML(tt.in); got != tt.text {
			t.Errorf("escapeHTML(%q) = %q, want %q", tt.in, got, tt.text)
		}
		if got := escapeAttr(tt.in); got != tt.attr {
			t.Errorf("escapeAttr(%q) = %q, want %q", tt.in, got, tt.attr)
		}
	}
}
