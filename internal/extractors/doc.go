// Package extractors provides text extraction from uploaded payloads
// and a registry that dispatches on file extension.
//
// Extractors implement the driven.Extractor port. Unlike a MIME-based
// pipeline, uploads carry only a filename and raw bytes, so the
// extension is the sole dispatch key: .pdf and .txt are supported,
// anything else is rejected before any bytes are inspected.
package extractors
