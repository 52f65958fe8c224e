package domain

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ETLKind identifies the legacy tool an ETL definition was exported from.
type ETLKind string

const (
	ETLKindInformatica ETLKind = "informatica"
	ETLKindDatastage   ETLKind = "datastage"
)

// ValidETLKinds enumerates all recognized ETL kinds.
var ValidETLKinds = []ETLKind{
	ETLKindInformatica,
	ETLKindDatastage,
}

// ParseETLKind accepts any casing of a known kind ("Informatica", "DataStage").
func ParseETLKind(s string) (ETLKind, error) {
	k := ETLKind(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range ValidETLKinds {
		if k == v {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown ETL kind %q (valid: informatica, datastage)", s)
}

// Label is the human-readable name used in prompts and reports.
func (k ETLKind) Label() string {
	switch k {
	case ETLKindInformatica:
		return "Informatica"
	case ETLKindDatastage:
		return "Datastage"
	default:
		return string(k)
	}
}

// FileRole tells which side of the conversion an upload holds.
type FileRole string

const (
	RoleETL     FileRole = "etl-source"
	RolePySpark FileRole = "pyspark-source"
)

// AcceptedExtensions returns the file extensions accepted for a role.
// The ETL role depends on the kind; the PySpark role ignores it.
func AcceptedExtensions(role FileRole, kind ETLKind) []string {
	if role == RolePySpark {
		return []string{".py"}
	}
	switch kind {
	case ETLKindDatastage:
		return []string{".xml", ".dsx", ".txt"}
	default:
		return []string{".xml", ".json", ".txt"}
	}
}

// UploadedFile is a user-supplied file held only for one validation run.
type UploadedFile struct {
	Name string
	Role FileRole
	Data []byte

	// Dir is the absolute directory the file was read from. Browser uploads
	// leave it empty.
	Dir string
}

// NewUploadedFile wraps raw bytes with their declared role.
func NewUploadedFile(name string, role FileRole, data []byte) *UploadedFile {
	return &UploadedFile{Name: name, Role: role, Data: data}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Text decodes the upload as UTF-8, dropping invalid byte sequences and a
// leading byte order mark. It never fails.
func (f *UploadedFile) Text() string {
	data := bytes.TrimPrefix(f.Data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}

// CheckExtension reports ErrUnsupportedFile when the file name does not carry
// one of the extensions accepted for its role.
func (f *UploadedFile) CheckExtension(kind ETLKind) error {
	ext := strings.ToLower(filepath.Ext(f.Name))
	accepted := AcceptedExtensions(f.Role, kind)
	for _, a := range accepted {
		if ext == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s file %q must be one of %s",
		ErrUnsupportedFile, f.Role, f.Name, strings.Join(accepted, ", "))
}
