//go:build !ocr

package ocr

import "errors"

// ErrOCRNotEnabled is returned by the stub client. Image files need a
// binary built with -tags ocr and a local Tesseract installation.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client stands in for the Tesseract client in builds without the ocr tag.
type Client struct{}

// New always fails with ErrOCRNotEnabled.
func New(string, int) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close does nothing. Safe on a nil client.
func (c *Client) Close() error { return nil }

// Tokens always fails with ErrOCRNotEnabled.
func (c *Client) Tokens([]byte) ([]Token, error) {
	return nil, ErrOCRNotEnabled
}
