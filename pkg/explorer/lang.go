package explorer

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// DetectLanguage resolves a display language for a file path using the
// chroma lexer registry. Unknown extensions report "plain".
func DetectLanguage(name string) string {
	lexer := lexers.Match(name)
	if lexer == nil {
		return "plain"
	}
	return strings.ToLower(lexer.Config().Name)
}
