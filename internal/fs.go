package internal

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// NameChecker decides whether a file found while walking a directory is used.
type NameChecker func(filename string) bool

func HasSuffixNameChecker(suffix string) NameChecker {
	return func(filename string) bool {
		return strings.HasSuffix(filename, suffix)
	}
}

func ContainsNameChecker(substring string) NameChecker {
	return func(filename string) bool {
		return strings.Contains(filename, substring)
	}
}

// ExpandPaths turns command line arguments into a list of files. Directories
// are walked when recursive is set and rejected otherwise. Files named
// directly are always kept; files found by walking must pass nameChecker
// when one is given. Symlinks found while walking are skipped.
func ExpandPaths(paths []string, recursive bool, nameChecker NameChecker, logger *log.Logger) ([]string, error) {
	var files []string

	for _, path := range paths {
		if path == "-" {
			files = append(files, path)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		if !recursive {
			return nil, fmt.Errorf("%s is a directory", path)
		}

		err = filepath.WalkDir(path, visitWithNameChecker(nameChecker, logger, func(found string) {
			files = append(files, found)
		}))
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func visitWithNameChecker(nameChecker NameChecker, logger *log.Logger, fileHandler func(path string)) fs.WalkDirFunc {
	return func(path string, dirEntry fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error visiting path", "path", path, "error", err)
			return nil
		}

		if !dirEntry.Type().IsRegular() {
			return nil
		}

		if nameChecker != nil && !nameChecker(dirEntry.Name()) {
			return nil
		}

		fileHandler(path)

		return nil
	}
}
