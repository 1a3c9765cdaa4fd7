package config

import "path/filepath"

// ignorePrefixes lists dotted-name prefixes excluded from every generated document.
// Matching is a plain string prefix test, so "a.b" also excludes "a.bc".
var ignorePrefixes = []string{
	".git",
	"_",
	"docs",
	"entanglement_theory.Fawzi",
	"entanglement_theory.SeesawLOCC",
	"static_coherence.output_directory",
	"static_coherence.testing",
	"Magic.Magic_Qubit.Test_RobMag",
	"test_files",
}

const (
	DefaultPlatform        = "QRLab"
	DefaultSourceExtension = ".m"
	DefaultSkipPrefix      = "__"
)

// DefaultIgnorePrefixes returns a fresh copy of the compiled-in ignore list.
func DefaultIgnorePrefixes() []string {
	out := make([]string, len(ignorePrefixes))
	copy(out, ignorePrefixes)
	return out
}

// DefaultAnchorDir is where the generator lives relative to the project root.
func DefaultAnchorDir() string {
	return filepath.Join("docs", "api")
}

// DefaultOutputDir is the Sphinx source directory relative to the project root.
func DefaultOutputDir() string {
	return filepath.Join("docs", "api", "sphinx_src")
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Platform:        DefaultPlatform,
		SourceExtension: DefaultSourceExtension,
		SkipPrefix:      DefaultSkipPrefix,
		OutputDir:       DefaultOutputDir(),
		AnchorDir:       DefaultAnchorDir(),
		Site: SiteConfig{
			Title:        "QRLab",
			NavTitle:     "QRLab API Documentation",
			HomeLabel:    "Go to QuAIR Home",
			HomeURL:      "https://quair.github.io/",
			BaseURL:      "https://quair.github.io/QRLab/",
			RepoURL:      "https://github.com/QuAIR/QRLab",
			RepoName:     "QRLab",
			PrimaryColor: "orange",
			Favicon:      "../favicon.svg",
		},
		IgnorePrefixes: DefaultIgnorePrefixes(),
	}
}
