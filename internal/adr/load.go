package adr

import (
	"os"

	"github.com/photondrift/adrscan/internal/direrr"
	"github.com/photondrift/adrscan/internal/driftmodel"
)

// ParseFile reads path from disk and parses it as an ADR. I/O errors are
// returned as *direrr.ReadError and propagate (per spec §4.1); parse
// diagnostics are returned alongside a still-usable record.
func ParseFile(path string) (*driftmodel.AdrRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &direrr.ReadError{Path: path, Cause: err}
	}
	return Parse(path, data)
}
