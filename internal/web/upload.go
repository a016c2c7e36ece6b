package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// errNoFile maps to FILE004.
var errNoFile = errors.New("no file provided")

// multipartMemory is how much of a multipart form is held in memory before
// net/http spills it to disk.
const multipartMemory = 8 << 20

// spooledUpload is an uploaded file copied to a temp path. The reader works
// on paths and picks the decoder by extension, so the original extension is
// kept.
type spooledUpload struct {
	Path string
	Name string
	Size int64
}

// Remove deletes the temp file.
func (u *spooledUpload) Remove() {
	if u != nil && u.Path != "" {
		_ = os.Remove(u.Path)
	}
}

// spoolUpload copies the multipart "file" field to a temp file.
func (s *Server) spoolUpload(w http.ResponseWriter, r *http.Request) (*spooledUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("file too large: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	ext := strings.ToLower(filepath.Ext(name))

	tmp, err := os.CreateTemp(s.cfg.Upload.TempDir, "sheetrecon-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create spool file: %w", err)
	}
	up := &spooledUpload{Path: tmp.Name(), Name: name}

	up.Size, err = io.Copy(tmp, file)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		up.Remove()
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	return up, nil
}
