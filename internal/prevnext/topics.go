package prevnext

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

var (
	// ErrEmptyTopicList indicates a topic list without entries.
	ErrEmptyTopicList = errors.New("topic list is empty")
	// ErrDuplicateEntry indicates a file named twice in a topic list.
	ErrDuplicateEntry = errors.New("duplicate topic list entry")
)

// ReadTopicOrder reads dir/listName. Each line names one page; trailing
// whitespace is stripped and blank lines are skipped.
func ReadTopicOrder(dir, listName string) ([]string, error) {
	listPath := filepath.Join(dir, listName)
	data, err := os.ReadFile(listPath)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNavigation, "cannot read topic list").
			WithContext("file", listPath).
			Fatal().
			Build()
	}
	text := strings.TrimPrefix(string(data), "\uFEFF")

	var ordered []string
	for _, line := range strings.Split(text, "\n") {
		name := strings.TrimRightFunc(line, unicode.IsSpace)
		if name == "" {
			continue
		}
		ordered = append(ordered, name)
	}
	if len(ordered) == 0 {
		return nil, derrors.WrapError(ErrEmptyTopicList, derrors.CategoryNavigation, "topic list has no entries").
			WithContext("file", listPath).
			Fatal().
			Build()
	}
	if err := checkOrder(ordered); err != nil {
		return nil, err
	}
	return ordered, nil
}

func checkOrder(ordered []string) error {
	seen := make(map[string]int, len(ordered))
	for i, name := range ordered {
		if first, dup := seen[name]; dup {
			return derrors.WrapError(ErrDuplicateEntry, derrors.CategoryNavigation, "topic list names a file twice").
				WithContext("file", name).
				WithContext("first", first).
				WithContext("index", i).
				Fatal().
				Build()
		}
		seen[name] = i
	}
	return nil
}
