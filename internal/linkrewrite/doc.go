// Package linkrewrite rewrites relative links in notes documents before they
// are handed to the Markdown renderer.
//
// Every `[display](target)` construct is located with a single left-to-right
// pass. Its target is classified and resolved by Resolver:
//
//   - notes links (target ends with the notes suffix) become the sibling's
//     converted filename, e.g. "../FS/ProDOS-notes.md" -> "ProDOS.html"
//   - in-page anchors and URLs are left alone
//   - anything else is resolved against the document's directory and
//     prefixed with the canonical source root
//
// All other bytes of the document are copied through unchanged, except for a
// leading byte-order mark which is dropped.
package linkrewrite
