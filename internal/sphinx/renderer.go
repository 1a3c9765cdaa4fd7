package sphinx

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode/utf8"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/scan"
)

const (
	// IndexName is the root document of the site.
	IndexName = "index.rst"
	// ConfName is the Sphinx configuration file.
	ConfName = "conf.py"
)

// FolderDocumentName returns the document name for a dotted folder.
func FolderDocumentName(folder string) string {
	return folder + ".rst"
}

// Document is one generated output file.
type Document struct {
	// Name is the file name inside the output directory.
	Name    string
	Content []byte
}

type templateKind string

const (
	kindIndex  templateKind = "index.rst"
	kindFolder templateKind = "folder.rst"
	kindConf   templateKind = "conf.py"
)

var templateKinds = []templateKind{kindIndex, kindFolder, kindConf}

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Renderer produces documents from scanned entries.
type Renderer struct {
	platform  string
	site      config.SiteConfig
	templates map[templateKind]*template.Template
}

type indexData struct {
	Title     string
	HomeLabel string
	HomeURL   string
	Folders   []string
}

type folderData struct {
	Name      string
	Folders   []string
	Functions []string
}

// NewRenderer parses the document templates. Files named <kind>.tmpl in
// cfg.TemplatesDir replace the embedded defaults.
func NewRenderer(cfg config.Config) (*Renderer, error) {
	r := &Renderer{
		platform:  cfg.Platform,
		site:      cfg.Site,
		templates: make(map[templateKind]*template.Template, len(templateKinds)),
	}
	for _, kind := range templateKinds {
		raw, source, err := loadTemplate(cfg.TemplatesDir, kind)
		if err != nil {
			return nil, err
		}
		tpl, err := template.New(string(kind)).
			Funcs(template.FuncMap{"underline": underline, "py": pyEscape}).
			Option("missingkey=error").
			Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s template (%s): %w", ErrTemplate, kind, source, err)
		}
		r.templates[kind] = tpl
		slog.Debug("Loaded document template", logfields.Name(string(kind)), slog.String("source", source))
	}
	return r, nil
}

func loadTemplate(dir string, kind templateKind) (raw, source string, err error) {
	name := string(kind) + ".tmpl"
	if dir != "" {
		path := filepath.Join(dir, name)
		// #nosec G304 -- template directory is operator supplied
		b, readErr := os.ReadFile(path)
		switch {
		case readErr == nil && strings.TrimSpace(string(b)) != "":
			return string(b), path, nil
		case readErr != nil && !errors.Is(readErr, os.ErrNotExist):
			return "", path, fmt.Errorf("%w: read %s: %w", ErrTemplate, path, readErr)
		}
	}
	b, err := embeddedTemplates.ReadFile("templates/" + name)
	if err != nil {
		return "", "embedded", fmt.Errorf("%w: embedded %s missing: %w", ErrTemplate, name, err)
	}
	return string(b), "embedded", nil
}

// IndexTitle is the banner heading of the index document.
func (r *Renderer) IndexTitle() string {
	return fmt.Sprintf(":hide-footer:\nWelcome to %s's documentation!", r.platform)
}

// Index renders the root document listing every top-level folder.
func (r *Renderer) Index(entries []scan.Entry) (Document, error) {
	data := indexData{
		Title:     r.IndexTitle(),
		HomeLabel: r.site.HomeLabel,
		HomeURL:   r.site.HomeURL,
		Folders:   scan.TopLevel(entries),
	}
	return r.execute(kindIndex, IndexName, data)
}

// Folder renders the document for one folder: child folders in the toctree,
// then one autofunction directive per child file.
func (r *Renderer) Folder(name string, entries []scan.Entry) (Document, error) {
	data := folderData{
		Name:      name,
		Folders:   scan.Names(scan.Children(entries, name, scan.Folder)),
		Functions: scan.Names(scan.Children(entries, name, scan.File)),
	}
	return r.execute(kindFolder, FolderDocumentName(name), data)
}

// Conf renders conf.py. Its content depends only on the site settings.
func (r *Renderer) Conf() (Document, error) {
	return r.execute(kindConf, ConfName, r.site)
}

// RenderAll renders the index, one document per folder in entry order, and conf.py.
func (r *Renderer) RenderAll(entries []scan.Entry) ([]Document, error) {
	folders := scan.Folders(entries)
	docs := make([]Document, 0, len(folders)+2)

	index, err := r.Index(entries)
	if err != nil {
		return nil, err
	}
	docs = append(docs, index)

	for _, f := range folders {
		doc, err := r.Folder(f.Name, entries)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	conf, err := r.Conf()
	if err != nil {
		return nil, err
	}
	return append(docs, conf), nil
}

func (r *Renderer) execute(kind templateKind, name string, data any) (Document, error) {
	var buf bytes.Buffer
	if err := r.templates[kind].Execute(&buf, data); err != nil {
		return Document{}, fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}
	return Document{Name: name, Content: buf.Bytes()}, nil
}

// underline returns a reStructuredText section underline as long as s in characters.
func underline(s string) string {
	return strings.Repeat("=", utf8.RuneCountInString(s))
}

var pyReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
)

// pyEscape escapes s for use inside a quoted Python string literal.
func pyEscape(s string) string {
	return pyReplacer.Replace(s)
}
