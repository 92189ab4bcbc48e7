package collection

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding"
)

type Response struct {
	Request     *http.Request
	ContentType string
	CharSet     string
	Body        []byte
	Encoding    encoding.Encoding
	Logger      Logger
}

// applyMetaCharset converts Body when the response header named no charset
// but the document declares one in its head. A charset from the header wins.
func (response *Response) applyMetaCharset() error {
	if response.Encoding != nil || response.CharSet != "" {
		return nil
	}
	if !bytes.Contains(bytes.ToLower(response.Body), []byte("charset")) {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(response.Body))
	if err != nil {
		return err
	}

	charset := ""
	if c, ok := doc.Find("head meta[charset]").Attr("charset"); ok {
		charset = c
	}
	if content, ok := doc.Find("meta[http-equiv]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("http-equiv")
		return strings.EqualFold(v, "content-type")
	}).Attr("content"); ok {
		charset = charsetFromContentType(content)
	}

	encoding := charsetEncoding(charset)
	if encoding == nil {
		return nil
	}
	response.Logger.Printf("converting from %v...\n", encoding)
	b, err := convertEncodingToUtf8(response.Body, encoding)
	if err != nil {
		return err
	}
	response.Body = b
	response.Encoding = encoding
	response.CharSet = charset
	return nil
}

// Text returns the body as UTF-8 text.
func (response *Response) Text() (string, error) {
	if isHTML(response.ContentType, response.Body) {
		if err := response.applyMetaCharset(); err != nil {
			return "", err
		}
	}
	return string(response.Body), nil
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	return contentType == "" && bytes.Contains(bytes.ToLower(body[:min(len(body), 512)]), []byte("<html"))
}
