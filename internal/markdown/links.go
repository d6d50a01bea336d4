package markdown

// LinkKind classifies how a link was written.
type LinkKind string

const (
	LinkKindInline    LinkKind = "inline"
	LinkKindImage     LinkKind = "image"
	LinkKindAuto      LinkKind = "auto"
	LinkKindReference LinkKind = "reference_definition"
)

// Link is a link destination found by the Markdown parser, with the 1-based
// line of the block that contains it.
type Link struct {
	Kind        LinkKind
	Destination string
	Line        int
}
