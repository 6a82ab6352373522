// Package pipeline turns Markdown patent specifications into HTML documents
// ready for print rendering.
//
// Stages, in order:
//   - preprocessing: BOM removal, line ending and Unicode normalization
//   - conversion: the line-oriented Transliterator (default) or goldmark
//   - figures: relative <img> paths become file:// URLs (ResolveFigures)
//   - shell: the fragment is wrapped in a minimal HTML document
//   - stylesheet injection: print CSS is placed in a <style> block
//
// Inspect reports on the structure of the produced HTML without failing.
// PDF rendering lives in the root patent2pdf package.
package pipeline
