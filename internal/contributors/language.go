package contributors

import (
	"sort"
	"strings"
)

// languages maps extensions, as returned by Extension, to a language name
var languages = map[string]string{
	"go":    "Go",
	"py":    "Python",
	"js":    "JavaScript",
	"jsx":   "JavaScript",
	"ts":    "TypeScript",
	"tsx":   "TypeScript",
	"java":  "Java",
	"c":     "C",
	"cpp":   "C++",
	"cc":    "C++",
	"cxx":   "C++",
	"h":     "C/C++",
	"hpp":   "C++",
	"cs":    "C#",
	"rb":    "Ruby",
	"php":   "PHP",
	"rs":    "Rust",
	"swift": "Swift",
	"kt":    "Kotlin",
	"scala": "Scala",
	"sh":    "Shell",
	"bash":  "Shell",
	"sql":   "SQL",
	"r":     "R",
	"m":     "Objective-C",
	"pl":    "Perl",
	"lua":   "Lua",
	"vim":   "Vimscript",
	"dart":  "Dart",
	"ex":    "Elixir",
	"exs":   "Elixir",
	"clj":   "Clojure",
	"fs":    "F#",
	"ml":    "OCaml",
	"hs":    "Haskell",
	"md":    "Markdown",
	"yml":   "YAML",
	"yaml":  "YAML",
	"json":  "JSON",
	"toml":  "TOML",
}

// Language names the language for an extension. Unknown extensions fall
// back to the extension itself.
func Language(ext string) string {
	if lang, ok := languages[strings.ToLower(ext)]; ok {
		return lang
	}
	return ext
}

// LanguageBreakdown folds FileTypes by language, e.g. ts and tsx both count
// towards TypeScript. Sorted by count, then name.
func (s *Stats) LanguageBreakdown() []ExtensionCount {
	byLang := make(map[string]int)
	for ext, n := range s.FileTypes {
		byLang[Language(ext)] += n
	}

	out := make([]ExtensionCount, 0, len(byLang))
	for lang, n := range byLang {
		out = append(out, ExtensionCount{Extension: lang, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}
