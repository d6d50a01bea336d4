package prevnext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	pageHead   = "<html>\n<body>\n<p>content</p>\n  <div id=\"prevnext\">\n"
	pageTail   = "  </div>\n<div>other</div>\n</body>\n</html>\n"
	samplePage = pageHead + "    old stuff\n" + pageTail
)

func prevAnchor(name string) string {
	return `    <a href="` + name + `" class="btn-previous">&laquo; Previous</a>` + "\n"
}

func nextAnchor(name string) string {
	return `    <a href="` + name + `" class="btn-next">Next &raquo;</a>` + "\n"
}

func TestSplice_Positions(t *testing.T) {
	ordered := []string{"a.html", "b.html", "c.html"}
	tests := []struct {
		index int
		want  string
	}{
		{0, pageHead + nextAnchor("b.html") + pageTail},
		{1, pageHead + prevAnchor("a.html") + nextAnchor("c.html") + pageTail},
		{2, pageHead + prevAnchor("b.html") + pageTail},
	}
	for _, tt := range tests {
		got, state := Splice([]byte(samplePage), ordered, tt.index)
		if state != StateReplaced {
			t.Errorf("index %d: state = %v, want replaced", tt.index, state)
		}
		if string(got) != tt.want {
			t.Errorf("index %d:\n got: %q\nwant: %q", tt.index, got, tt.want)
		}
	}
}

func TestSplice_AnchorCounts(t *testing.T) {
	ordered := []string{"p1.html", "p2.html", "p3.html", "p4.html", "p5.html"}
	n := len(ordered)
	for i := range ordered {
		got, _ := Splice([]byte(samplePage), ordered, i)
		prev := strings.Count(string(got), "btn-previous")
		next := strings.Count(string(got), "btn-next")
		assert.Equal(t, i > 0, prev == 1, "previous anchor at %d", i)
		assert.Equal(t, i < n-1, next == 1, "next anchor at %d", i)
		if i > 0 {
			assert.Contains(t, string(got), `href="`+ordered[i-1]+`" class="btn-previous"`)
		}
		if i < n-1 {
			assert.Contains(t, string(got), `href="`+ordered[i+1]+`" class="btn-next"`)
		}
	}
}

func TestSplice_SingleEntryEmptiesRegion(t *testing.T) {
	got, state := Splice([]byte(samplePage), []string{"only.html"}, 0)
	assert.Equal(t, StateReplaced, state)
	assert.Equal(t, pageHead+pageTail, string(got))
}

func TestSplice_NoMarker(t *testing.T) {
	page := "<html><body><div id=\"prevnext\"></div></body></html>\n"
	got, state := Splice([]byte(page), []string{"a.html", "b.html"}, 0)
	assert.Equal(t, StateSeeking, state)
	assert.Equal(t, page, string(got))
}

func TestSplice_WhitespaceTolerated(t *testing.T) {
	page := "x\n\t<div id=\"prevnext\">  \n\t</div>  \ny\n"
	got, state := Splice([]byte(page), []string{"a.html", "b.html"}, 0)
	assert.Equal(t, StateReplaced, state)
	assert.Equal(t, "x\n\t<div id=\"prevnext\">  \n"+nextAnchor("b.html")+"\t</div>  \ny\n", string(got))
}

func TestSplice_OnlyFirstRegion(t *testing.T) {
	second := "<div id=\"prevnext\">\nkeep me\n</div>\n"
	page := samplePage + second
	got, _ := Splice([]byte(page), []string{"a.html", "b.html"}, 1)
	assert.Equal(t, pageHead+prevAnchor("a.html")+pageTail+second, string(got))
}

func TestSplice_Idempotent(t *testing.T) {
	ordered := []string{"a.html", "b.html", "c.html"}
	once, _ := Splice([]byte(samplePage), ordered, 1)
	twice, _ := Splice(once, ordered, 1)
	assert.Equal(t, string(once), string(twice))
}

func TestLocate(t *testing.T) {
	m, state := Locate([]byte(samplePage))
	assert.Equal(t, StateFound, state)
	assert.Equal(t, "    old stuff\n", samplePage[m.Start:m.End])

	_, state = Locate([]byte("no marker"))
	assert.Equal(t, StateSeeking, state)
}

func TestMarker_Replace(t *testing.T) {
	m, state := Locate([]byte(samplePage))
	assert.Equal(t, StateFound, state)

	cases := []struct {
		name, interior, want string
	}{
		{"anchors", nextAnchor("b.html"), pageHead + nextAnchor("b.html") + pageTail},
		{"empty", "", pageHead + pageTail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content := []byte(samplePage)
			assert.Equal(t, tc.want, string(m.Replace(content, tc.interior)))
			assert.Equal(t, samplePage, string(content), "input must not be modified")
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "seeking", StateSeeking.String())
	assert.Equal(t, "found", StateFound.String())
	assert.Equal(t, "replaced", StateReplaced.String())
	assert.Equal(t, "unknown", State(42).String())
}
