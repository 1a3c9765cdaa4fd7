// Package sphinx renders the reStructuredText stubs and the conf.py that make
// up a sphinxcontrib-matlab API site, and writes them to the output directory.
//
// Rendering and writing are separate steps: a Renderer turns scanned entries
// into in-memory Documents, a Writer persists them. The check command compares
// rendered Documents with the files on disk without writing anything.
package sphinx
