// Package validate provides shared validation functions.
package validate

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/clarity/internal/article"
)

// Source validates an article source: an http(s) URL, "-" for stdin, or a
// readable file.
func Source(source string) error {
	source = strings.TrimSpace(source)
	switch {
	case source == "":
		return errors.New("a URL or path is required")
	case article.IsURL(source), source == article.StdinSource:
		return nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("cannot read %s", source)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", source)
	}
	return nil
}

// SourceField returns a criterio validator for article sources.
func SourceField(field, source string) error {
	return criterio.Run(field, source, Source)
}
