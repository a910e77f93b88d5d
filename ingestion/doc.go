// Package ingestion turns a directory of documents into index chunks.
//
// A Loader walks a directory in lexical path order, extracts plain text from
// every supported file and cuts it into overlapping fixed-size windows with a
// Chunker. Supported formats:
//
//	.txt .md      read as UTF-8 text
//	.html .htm    text nodes, with script and style removed
//	.pdf          plain text of every page
//	.xlsx         cell values of every sheet, one line per row
//
// Files are read concurrently on a worker pool but the returned chunks are
// always in path order, so rebuilding an index from the same directory
// assigns the same positions. Files that cannot be read are logged and
// skipped.
package ingestion
