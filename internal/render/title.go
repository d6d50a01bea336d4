package render

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// ExtractTitle returns the text of the first <h1> in an HTML fragment, or ""
// when there is none.
func ExtractTitle(fragment []byte) string {
	doc, err := html.Parse(bytes.NewReader(fragment))
	if err != nil {
		return ""
	}
	h1 := findElement(doc, "h1")
	if h1 == nil {
		return ""
	}
	return strings.Join(strings.Fields(textContent(h1)), " ")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
