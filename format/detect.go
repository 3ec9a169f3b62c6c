// Package format maps input files to the extractor that handles them.
package format

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies the handler family for an input file.
type Format int

const (
	// Unknown indicates an unsupported file.
	Unknown Format = iota
	// Spreadsheet indicates an Excel workbook (.xlsx or legacy .xls).
	Spreadsheet
	// Delimited indicates delimited or column-aligned text.
	Delimited
	// JSON indicates a JSON document.
	JSON
	// XML indicates an XML document.
	XML
	// HTML indicates an HTML document with tables.
	HTML
	// Image indicates a scanned image read through OCR.
	Image
	// PDF indicates a PDF document.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Spreadsheet:
		return "Spreadsheet"
	case Delimited:
		return "Delimited"
	case JSON:
		return "JSON"
	case XML:
		return "XML"
	case HTML:
		return "HTML"
	case Image:
		return "Image"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

var extensions = map[string]Format{
	".xlsx": Spreadsheet,
	".xls":  Spreadsheet,
	".csv":  Delimited,
	".txt":  Delimited,
	".tsv":  Delimited,
	".json": JSON,
	".xml":  XML,
	".html": HTML,
	".htm":  HTML,
	".png":  Image,
	".jpg":  Image,
	".jpeg": Image,
	".gif":  Image,
	".bmp":  Image,
	".tif":  Image,
	".tiff": Image,
	".webp": Image,
	".pdf":  PDF,
}

// Detect determines the format from the filename extension, ignoring case.
func Detect(filename string) Format {
	return extensions[strings.ToLower(filepath.Ext(filename))]
}

// Extensions returns the supported extensions for f.
func (f Format) Extensions() []string {
	var out []string
	for ext, g := range extensions {
		if g == f {
			out = append(out, ext)
		}
	}
	return out
}

// Sniff guesses the format from leading content bytes. It returns Unknown
// for plain text and anything it does not recognize. Only extensions
// decide dispatch; Sniff exists to flag mislabeled files.
func Sniff(data []byte) Format {
	if len(data) >= 4 {
		switch {
		case bytes.HasPrefix(data, []byte("%PDF")):
			return PDF
		case bytes.HasPrefix(data, []byte("PK\x03\x04")):
			return Spreadsheet
		case bytes.HasPrefix(data, []byte{0xD0, 0xCF, 0x11, 0xE0}):
			// OLE2 compound file, as used by .xls
			return Spreadsheet
		case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
			return Image
		}
	}

	if strings.HasPrefix(http.DetectContentType(data), "image/") {
		return Image
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return Unknown
	}
	if detectHTMLMagic(trimmed) {
		return HTML
	}
	switch trimmed[0] {
	case '{', '[':
		return JSON
	case '<':
		return XML
	}
	return Unknown
}

// SniffFile reads the start of the file at path and sniffs it.
func SniffFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Unknown, err
	}
	return Sniff(head[:n]), nil
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	upper := strings.ToUpper(string(data[:min(len(data), 512)]))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}
