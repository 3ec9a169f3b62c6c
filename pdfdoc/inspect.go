package pdfdoc

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info is what structural inspection learns about a PDF.
type Info struct {
	PageCount int
	// ImagePages lists the 1-based pages that draw image XObjects.
	ImagePages []int
}

// HasImages reports whether any page draws an image. Safe on a nil Info.
func (i *Info) HasImages() bool {
	return i != nil && len(i.ImagePages) > 0
}

// Inspect reads and validates the PDF at path in relaxed mode and reports
// its page count and which pages carry images.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	info := &Info{PageCount: ctx.PageCount}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
			info.ImagePages = append(info.ImagePages, pageNr)
		}
	}
	return info, nil
}
