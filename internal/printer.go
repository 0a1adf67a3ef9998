package internal

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// GetLocalePrinter returns a printer that groups digits the way the user's
// locale does. Offsets and byte counts go through it.
func GetLocalePrinter() *message.Printer {
	return message.NewPrinter(userLocale(os.Getenv))
}

// PrettyPrintBytes returns a binary-prefixed size such as "1.5 kB"
func PrettyPrintBytes(bytes uint64) string {
	const unit = 1024

	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0

	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	const suffixes = "kMGTPE"

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), suffixes[exp])
}

// userLocale reads LC_ALL, LC_MESSAGES and LANG in that order. POSIX values
// like en_US.UTF-8 are turned into BCP 47 tags first.
func userLocale(getenv func(string) string) language.Tag {
	locale := ""

	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if locale = getenv(name); locale != "" {
			break
		}
	}

	locale, _, _ = strings.Cut(locale, ".")
	locale, _, _ = strings.Cut(locale, "@")
	locale = strings.ReplaceAll(locale, "_", "-")

	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.English
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}

	return tag
}
