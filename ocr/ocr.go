//go:build ocr

package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for word-level recognition.
type Client struct {
	client *gosseract.Client
}

// New creates a Tesseract client. An empty language means "eng"; several
// languages may be joined with "+" (e.g. "eng+fra"). psm is a Tesseract
// page segmentation mode in 0..13.
//
// The client should be closed when no longer needed to release resources.
func New(language string, psm int) (*Client, error) {
	c := &Client{client: gosseract.NewClient()}

	if language == "" {
		language = DefaultLanguage
	}
	if err := c.client.SetLanguage(strings.Split(language, "+")...); err != nil {
		c.client.Close()
		return nil, fmt.Errorf("setting OCR language %q: %w", language, err)
	}
	if err := c.client.SetPageSegMode(gosseract.PageSegMode(psm)); err != nil {
		c.client.Close()
		return nil, fmt.Errorf("setting page segmentation mode %d: %w", psm, err)
	}

	return c, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Tokens recognizes imageData and returns one token per word.
func (c *Client) Tokens(imageData []byte) ([]Token, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	tokens := make([]Token, 0, len(boxes))
	for _, b := range boxes {
		tokens = append(tokens, Token{
			Text:       b.Word,
			Confidence: b.Confidence,
			Left:       float64(b.Box.Min.X),
			Top:        float64(b.Box.Min.Y),
			Width:      float64(b.Box.Dx()),
			Height:     float64(b.Box.Dy()),
		})
	}
	return tokens, nil
}
