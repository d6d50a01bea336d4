// Package git reads repository state from the working checkout that holds the
// documentation sources. It is used to pin source-tree links to the branch or
// commit the documents were generated from.
package git
