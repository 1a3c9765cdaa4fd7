package config

import (
	"strings"

	ferrors "git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
)

// Validate checks the configuration for values the pipeline cannot work with.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Platform) == "":
		return invalid("platform", "platform name must not be empty")
	case c.SourceExtension == "" || !strings.HasPrefix(c.SourceExtension, "."):
		return invalid("source_extension", "source extension must start with '.'")
	case c.SkipPrefix == "":
		// An empty marker would match every name and skip the whole tree.
		return invalid("skip_prefix", "skip prefix must not be empty")
	case strings.TrimSpace(c.OutputDir) == "":
		return invalid("output_dir", "output directory must not be empty")
	case strings.TrimSpace(c.AnchorDir) == "":
		return invalid("anchor_dir", "anchor directory must not be empty")
	}
	for _, p := range c.IgnorePrefixes {
		if p == "" {
			return invalid("ignore_prefixes", "ignore prefixes must not contain empty entries")
		}
	}
	return nil
}

func invalid(field, msg string) error {
	return ferrors.ValidationError(msg).WithContext("field", field).Build()
}
