package output

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Values of the --color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ResolveColorMode decides whether output to a writer with the given
// terminal state is styled. auto styles terminals only, and NO_COLOR
// turns it off. An empty mode means auto.
func ResolveColorMode(colorMode string, isTTY bool) (bool, error) {
	switch colorMode {
	case ColorNever:
		return false, nil
	case ColorAlways:
		return true, nil
	case ColorAuto, "":
		if _, set := os.LookupEnv("NO_COLOR"); set {
			return false, nil
		}
		return isTTY, nil
	default:
		return false, fmt.Errorf("invalid --color %q (want %s, %s or %s)", colorMode, ColorAuto, ColorAlways, ColorNever)
	}
}

// IsTTY reports whether writer is an *os.File attached to a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
