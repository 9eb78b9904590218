package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxUploadSize caps any single uploaded file before the per-form rules apply
const MaxUploadSize = 10 * 1024 * 1024 // 10MB

// ReadUpload reads an uploaded file into a FilePart for field. Files over
// MaxUploadSize are refused without being read in full.
func ReadUpload(field string, fileHeader *multipart.FileHeader) (FilePart, error) {
	if fileHeader.Size > MaxUploadSize {
		return FilePart{}, &ValidationError{Problems: []string{
			fmt.Sprintf("%s exceeds maximum allowed size of %s", fileHeader.Filename, FormatFileSize(MaxUploadSize)),
		}}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return FilePart{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return FilePart{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > MaxUploadSize {
		return FilePart{}, &ValidationError{Problems: []string{
			fmt.Sprintf("%s exceeds maximum allowed size of %s", fileHeader.Filename, FormatFileSize(MaxUploadSize)),
		}}
	}

	return FilePart{
		Field:       field,
		FileName:    filepath.Base(fileHeader.Filename),
		ContentType: UploadContentType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename, data),
		Data:        data,
	}, nil
}

// UploadContentType trusts the declared type unless it is missing or
// generic, then falls back to the extension and finally to sniffing
func UploadContentType(declared, fileName string, data []byte) string {
	declared = strings.TrimSpace(strings.Split(declared, ";")[0])
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if ct := contentTypeForExt(fileName); ct != "application/octet-stream" {
		return ct
	}
	if LooksLikePDF(data) {
		return "application/pdf"
	}
	return http.DetectContentType(data)
}

// LooksLikePDF reports whether data starts with the PDF magic bytes
func LooksLikePDF(data []byte) bool {
	return len(data) >= 4 && string(data[0:4]) == "%PDF"
}
