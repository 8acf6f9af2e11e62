package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOC  = "application/msword"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
)

// TextExtractor turns a stored document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, filePath, mediaType string) (string, error)
}

// documentDecoder decodes one file format.
type documentDecoder interface {
	Decode(r io.ReaderAt, size int64) (string, error)
}

type DocumentExtractor struct {
	decoders map[string]documentDecoder
	logger   *zap.Logger
}

// NewDocumentExtractor returns an extractor for PDF, legacy Word, OOXML Word
// and plain text documents.
func NewDocumentExtractor(logger *zap.Logger) *DocumentExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DocumentExtractor{
		decoders: map[string]documentDecoder{
			MediaTypePDF:  pdfParser{},
			MediaTypeDOC:  &docParser{},
			MediaTypeDOCX: &docxParser{},
			MediaTypeText: &plainTextParser{},
		},
		logger: logger,
	}
}

// SupportedMediaType reports whether the extractor can decode mediaType.
func SupportedMediaType(mediaType string) bool {
	switch normalizeMediaType(mediaType) {
	case MediaTypePDF, MediaTypeDOC, MediaTypeDOCX, MediaTypeText:
		return true
	}
	return false
}

// Extract implements TextExtractor.
func (e *DocumentExtractor) Extract(ctx context.Context, filePath, mediaType string) (string, error) {
	decoder, err := e.decoderFor(mediaType)
	if err != nil {
		return "", err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open %s: %v", ErrExtractionFailure, filePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: failed to stat %s: %v", ErrExtractionFailure, filePath, err)
	}

	return e.decode(ctx, decoder, f, info.Size(), mediaType)
}

// ExtractReader decodes an in-memory or already opened document.
func (e *DocumentExtractor) ExtractReader(ctx context.Context, r io.ReaderAt, size int64, mediaType string) (string, error) {
	decoder, err := e.decoderFor(mediaType)
	if err != nil {
		return "", err
	}
	return e.decode(ctx, decoder, r, size, mediaType)
}

func (e *DocumentExtractor) decoderFor(mediaType string) (documentDecoder, error) {
	decoder, ok := e.decoders[normalizeMediaType(mediaType)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, mediaType)
	}
	return decoder, nil
}

func (e *DocumentExtractor) decode(ctx context.Context, decoder documentDecoder, r io.ReaderAt, size int64, mediaType string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Warn("document decoder panicked", zap.String("media_type", mediaType), zap.Any("panic", rec))
			text = ""
			err = fmt.Errorf("%w: decoder panic: %v", ErrExtractionFailure, rec)
		}
	}()

	text, err = decoder.Decode(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailure, err)
	}

	text = cleanText(text)
	if text == "" {
		return "", fmt.Errorf("%w: no text content found", ErrExtractionFailure)
	}

	e.logger.Debug("document text extracted",
		zap.String("media_type", mediaType),
		zap.Int("length", len(text)),
	)

	return text, nil
}

func normalizeMediaType(mediaType string) string {
	if idx := strings.IndexByte(mediaType, ';'); idx != -1 {
		mediaType = mediaType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

type plainTextParser struct{}

func (p *plainTextParser) Decode(r io.ReaderAt, size int64) (string, error) {
	data, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

// cleanText trims every line and drops blank ones.
func cleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
