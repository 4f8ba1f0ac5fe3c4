// Package pdf validates uploaded PDF files and extracts their page count.
package pdf

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	dErrors "docflow/pkg/domain-errors"
)

// MaxFileSize is the largest accepted upload.
const MaxFileSize = 50 << 20

var magic = []byte("%PDF-")

// Info describes a validated PDF.
type Info struct {
	PageCount int
}

// Inspector validates PDFs with pdfcpu in relaxed mode, which accepts the
// minor spec deviations common in scanner output.
type Inspector struct {
	conf    *model.Configuration
	maxSize int64
}

func NewInspector(maxSize int64) *Inspector {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Inspector{conf: conf, maxSize: maxSize}
}

// MaxSize returns the upload limit in bytes.
func (i *Inspector) MaxSize() int64 {
	return i.maxSize
}

// Inspect validates data and returns its page count.
func (i *Inspector) Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, dErrors.New(dErrors.CodeValidation, "file is empty")
	}
	if int64(len(data)) > i.maxSize {
		return Info{}, dErrors.Newf(dErrors.CodeValidation, "file size exceeds %dMB limit", i.maxSize>>20)
	}
	if !bytes.HasPrefix(data, magic) {
		return Info{}, dErrors.New(dErrors.CodeValidation, "only PDF files are allowed")
	}
	if err := api.Validate(bytes.NewReader(data), i.conf); err != nil {
		return Info{}, dErrors.Wrap(err, dErrors.CodeValidation, "file is not a valid PDF")
	}
	pages, err := api.PageCount(bytes.NewReader(data), i.conf)
	if err != nil {
		return Info{}, dErrors.Wrap(err, dErrors.CodeValidation, "could not read PDF pages")
	}
	return Info{PageCount: pages}, nil
}
