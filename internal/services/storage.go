package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = errors.New("file exceeds maximum upload size")

var extensionMediaTypes = map[string]string{
	".pdf":  MediaTypePDF,
	".doc":  MediaTypeDOC,
	".docx": MediaTypeDOCX,
	".txt":  MediaTypeText,
}

// StoredFile describes a file written to the upload directory.
type StoredFile struct {
	Filename     string
	OriginalName string
	Path         string
	MediaType    string
}

type StorageService interface {
	SaveFile(file *multipart.FileHeader, prefix string) (*StoredFile, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath  string
	maxFileSize int64
}

func NewStorageService(uploadPath string, maxFileSize int64) StorageService {
	return &storageService{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveFile stores an uploaded pdf, doc, docx or txt file under a unique name.
func (s *storageService) SaveFile(file *multipart.FileHeader, prefix string) (*StoredFile, error) {
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return nil, fmt.Errorf("%s is %d bytes: %w", file.Filename, file.Size, ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := extensionMediaTypes[ext]; !ok {
		return nil, fmt.Errorf("invalid file extension %q: %w", ext, ErrUnsupportedFormat)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	mediaType, err := resolveMediaType(file.Header.Get("Content-Type"), ext, src)
	if err != nil {
		return nil, err
	}

	uniqueFilename := fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredFile{
		Filename:     uniqueFilename,
		OriginalName: file.Filename,
		Path:         filePath,
		MediaType:    mediaType,
	}, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolveMediaType trusts a supported declared type, otherwise sniffs the
// content and finally falls back to the extension. src is rewound.
func resolveMediaType(declared, ext string, src io.ReadSeeker) (string, error) {
	if declared = normalizeMediaType(declared); SupportedMediaType(declared) {
		return declared, nil
	}

	detected, err := mimetype.DetectReader(src)
	if _, seekErr := src.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", seekErr)
	}
	if err == nil {
		for m := detected; m != nil; m = m.Parent() {
			if sniffed := normalizeMediaType(m.String()); SupportedMediaType(sniffed) {
				return sniffed, nil
			}
		}
	}

	return extensionMediaTypes[ext], nil
}

// MediaTypeForFile maps a file name to a supported media type by extension.
func MediaTypeForFile(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if mediaType, ok := extensionMediaTypes[ext]; ok {
		return mediaType, nil
	}
	return "", fmt.Errorf("extension %q: %w", ext, ErrUnsupportedFormat)
}
