// Package markdown finds the links a CommonMark/GFM parser actually sees in a
// notes document. Unlike the rewriter's textual scan it ignores code spans and
// code blocks, which makes it suitable for auditing links.
package markdown

import (
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ExtractLinks parses body and returns its links in document order, followed
// by reference definitions sorted by label.
func ExtractLinks(body []byte) []Link {
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	lines := newLineIndex(body)

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body)), Line: lines.of(n)})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination), Line: lines.of(n)})
		case *gmast.Link:
			// Reference-style uses arrive here already resolved.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination), Line: lines.of(n)})
		}
		return gmast.WalkContinue, nil
	})

	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReference, Destination: string(ref.Destination())})
	}
	return links
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(body []byte) lineIndex {
	starts := []int{0}
	for i, b := range body {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{starts: starts}
}

// of returns the line of the nearest block ancestor's first line, or 0.
func (li lineIndex) of(n gmast.Node) int {
	for p := n; p != nil; p = p.Parent() {
		if p.Type() != gmast.TypeBlock {
			continue
		}
		segs := p.Lines()
		if segs == nil || segs.Len() == 0 {
			continue
		}
		offset := segs.At(0).Start
		return sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset })
	}
	return 0
}
