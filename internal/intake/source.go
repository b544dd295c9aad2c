package intake

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// Source is a file handed to intake before its bytes have been read.
type Source interface {
	Name() string
	MIMEType() string
	Open() (io.ReadCloser, error)
}

// FileSource reads a file from disk.
type FileSource struct {
	Path string
	mime string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return filepath.Base(s.Path) }

// MIMEType resolves from the extension first, then sniffs the first 512 bytes.
func (s *FileSource) MIMEType() string {
	if s.mime != "" {
		return s.mime
	}
	if t := mime.TypeByExtension(filepath.Ext(s.Path)); t != "" {
		s.mime = t
		return t
	}
	s.mime = "application/octet-stream"
	f, err := os.Open(s.Path)
	if err != nil {
		return s.mime
	}
	defer f.Close()
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	if n > 0 {
		s.mime = http.DetectContentType(head[:n])
	}
	return s.mime
}

func (s *FileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// BytesSource wraps an in-memory payload, e.g. a multipart upload.
type BytesSource struct {
	FileName string
	Mime     string
	Data     []byte
}

func (s *BytesSource) Name() string { return s.FileName }

func (s *BytesSource) MIMEType() string {
	if s.Mime != "" {
		return s.Mime
	}
	return http.DetectContentType(s.Data)
}

func (s *BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// ReadAll reads the full payload of src.
func ReadAll(src Source) ([]byte, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
