package domain

import "context"

// DocumentConverter turns a raw source document (a file path or URI) into
// structured text. Implementations call an external conversion service and
// may fail on corrupt input; callers degrade such failures to a sentinel
// error chunk rather than aborting the document.
type DocumentConverter interface {
	Convert(ctx context.Context, sourcePath string) (*ConvertedDocument, error)
}
