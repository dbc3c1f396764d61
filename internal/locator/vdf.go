package locator

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
)

// Library is one Steam library folder with the app ids installed in it.
type Library struct {
	Path string
	Apps []string
}

// HasApp reports whether appID is installed in the library.
func (l Library) HasApp(appID string) bool {
	return slices.Contains(l.Apps, appID)
}

// ParseLibraryFolders reads Steam's libraryfolders.vdf. Libraries are
// returned in index order.
func ParseLibraryFolders(r io.Reader) ([]Library, error) {
	root, err := vdf.NewParser(r).Parse()
	if err != nil {
		return nil, fmt.Errorf("parsing vdf: %w", err)
	}

	folders, ok := lookup(root, "libraryfolders").(map[string]interface{})
	if !ok {
		return nil, errors.New("missing libraryfolders block")
	}

	keys := make([]string, 0, len(folders))
	for k := range folders {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareIndex)

	var libraries []Library
	for _, k := range keys {
		entry, ok := folders[k].(map[string]interface{})
		if !ok {
			continue
		}
		path, _ := lookup(entry, "path").(string)
		if path == "" {
			continue
		}

		lib := Library{Path: path}
		if apps, ok := lookup(entry, "apps").(map[string]interface{}); ok {
			for id := range apps {
				lib.Apps = append(lib.Apps, id)
			}
			slices.Sort(lib.Apps)
		}
		libraries = append(libraries, lib)
	}
	return libraries, nil
}

// lookup finds key ignoring case, as KeyValues keys are case-insensitive.
func lookup(m map[string]interface{}, key string) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

// compareIndex orders numeric folder keys numerically, others lexically after them.
func compareIndex(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai - bi
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
