package promptress

import (
	"sort"
	"unicode/utf8"
)

// ResolveAliases replaces the longest aliased prefix of path with its
// replacement. Prefixes match whole components only, so "/alias/foo" never
// matches "/alias/foobar". Keys are tried in lexicographic order and a later
// key must be strictly longer to win, which makes ties deterministic.
func ResolveAliases(path string, aliases map[string]string) string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	comps := splitPath(path)
	longest := 0
	var resolved []string
	matched := false
	for _, prefix := range keys {
		n := utf8.RuneCountInString(prefix)
		if n <= longest {
			continue
		}
		rest, ok := trimPrefixComponents(comps, splitPath(prefix))
		if !ok {
			continue
		}
		resolved = append(splitPath(aliases[prefix]), rest...)
		longest = n
		matched = true
	}
	if !matched {
		return path
	}
	return joinPath(resolved)
}
