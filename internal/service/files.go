package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	KindPassports  = "passports"
	KindReceipts   = "receipts"
	KindQuotations = "quotations"
	KindContracts  = "contracts"

	MaxUploadSize = 5 << 20
)

// FileKinds are the upload directories files are served from.
var FileKinds = []string{KindPassports, KindReceipts, KindQuotations, KindContracts}

var uploadExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// FileStore keeps uploaded and generated documents, one directory per kind.
type FileStore interface {
	// Path returns where a file of the given kind and name lives, creating the directory.
	Path(kind, name string) (string, error)
	Write(kind, name string, r io.Reader) (string, error)
	// Find looks for a base name in every kind directory.
	Find(name string) (string, error)
}

type StoredFile struct {
	Path     string `json:"path"`
	URL      string `json:"url"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type FileService interface {
	Store(kind string, fh *multipart.FileHeader) (*StoredFile, error)
	// Resolve maps a requested file name to a stored file. Directory components are ignored.
	Resolve(requested string) (path, mimeType string, err error)
	URL(path string) string
}

type fileService struct {
	store     FileStore
	urlPrefix string
}

func NewFileService(store FileStore, urlPrefix string) FileService {
	return &fileService{store: store, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

func (s *fileService) Store(kind string, fh *multipart.FileHeader) (*StoredFile, error) {
	if fh == nil {
		return nil, NewValidationError("No file uploaded")
	}
	if fh.Size > MaxUploadSize {
		return nil, NewValidationError("File size exceeds 5MB limit")
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("detect upload type: %w", err)
	}
	ext, ok := uploadExtensions[mt.String()]
	if !ok {
		return nil, NewValidationError("Invalid file type. Allowed: jpg, png, pdf")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	path, err := s.store.Write(kind, uuid.NewString()+ext, src)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return &StoredFile{
		Path:     path,
		URL:      s.URL(path),
		MIMEType: mt.String(),
		Size:     fh.Size,
	}, nil
}

func (s *fileService) Resolve(requested string) (string, string, error) {
	name := filepath.Base(strings.ReplaceAll(requested, "..", ""))
	if name == "." || name == "/" || name == "" {
		return "", "", notFound("File")
	}
	path, err := s.store.Find(name)
	if err != nil {
		return "", "", notFound("File")
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", "", fmt.Errorf("detect file type: %w", err)
	}
	return path, mt.String(), nil
}

func (s *fileService) URL(path string) string {
	if path == "" {
		return ""
	}
	return s.urlPrefix + "/" + filepath.Base(path)
}
