package build

import (
	"bytes"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"git.home.luguber.info/inful/apidocgen/internal/sphinx"
)

// Compare reports every rendered document whose on-disk copy is missing or
// differs. Files in the output directory that are not rendered are ignored.
func Compare(writer *sphinx.Writer, docs []sphinx.Document) ([]StaleDocument, error) {
	var stale []StaleDocument
	for _, doc := range docs {
		current, ok, err := writer.Read(doc.Name)
		if err != nil {
			return nil, err
		}
		if ok && bytes.Equal(current, doc.Content) {
			continue
		}
		stale = append(stale, StaleDocument{
			Name:    doc.Name,
			Missing: !ok,
			Diff:    LineDiff(string(current), string(doc.Content)),
		})
	}
	return stale, nil
}

// LineDiff renders a line-oriented diff: removed lines are prefixed with "-",
// added lines with "+" and unchanged lines with a space.
func LineDiff(from, to string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range splitLines(d.Text) {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
