// Package prevnext injects previous/next navigation into generated HTML.
//
// Each page carries a marker region:
//
//	<div id="prevnext">
//	    ...replaced...
//	</div>
//
// The opening tag must sit on its own line and the region ends at the first
// line holding the closing tag; surrounding whitespace is tolerated. Only the
// first region in a file is used. The order of pages comes from a topic list
// (one file name per line) kept next to the pages, and a page is rewritten
// only when its stitched content differs from what is on disk.
package prevnext
