// Package httpapi exposes the ingestion and question-answering
// services over HTTP with JSON responses.
package httpapi
