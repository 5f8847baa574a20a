package render

import "strings"

var textEntities = []string{
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
}

var (
	textEscaper = strings.NewReplacer(textEntities...)

	// Attribute values also encode line breaks and tabs.
	attrEscaper = strings.NewReplacer(append(textEntities,
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)...)
)

func escapeHTML(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
