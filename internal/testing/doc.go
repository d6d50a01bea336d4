// Package testing contains helpers shared by package tests: building source
// trees on disk and asserting on the files a run leaves behind.
package testing

const (
	// testDirPermissions is the permission mode for creating test directories.
	testDirPermissions = 0o750

	// testFilePermissions is the permission mode for creating test files.
	testFilePermissions = 0o600
)
