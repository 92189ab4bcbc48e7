package collection

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	cookiejar "github.com/orirawlings/persistent-cookiejar"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	UserAgent_firefox86 = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:86.0) Gecko/20100101 Firefox/86.0"
	UserAgent_default   = UserAgent_firefox86
)

// Session holds communication and logging options
type Session struct {
	Name               string // directory name to store session files(downloaded pages and cookies)
	client             http.Client
	Encoding           encoding.Encoding // force charset over Content-Type response header
	UserAgent          string            // specify User-Agent
	FilePrefix         string            // prefix to directory of session files
	invokeCount        int
	NotUseNetwork      bool // load from previously recorded session files rather than network access
	SaveToFile         bool // record responses to session directory
	ShowRequestHeader  bool // print request headers with Logger
	ShowResponseHeader bool // print response headers with Logger
	ShowFormPosting    bool // print posting form data, with Logger
	Log                Logger
	jar                *cookiejar.Jar
}

type RequestError struct {
	RequestURL *url.URL
	Err        error
}

func (err RequestError) Error() string {
	return fmt.Sprintf("%v request error: %v", err.RequestURL.String(), err.Err)
}

func (err RequestError) Unwrap() error {
	return err.Err
}

type ResponseError struct {
	RequestURL *url.URL
	Response   *http.Response
}

func (err ResponseError) Error() string {
	return fmt.Sprintf("%v response code: %v", err.RequestURL.String(), err.Response.Status)
}

func NewSession(name string, log Logger) *Session {
	jar, _ := cookiejar.New(nil)
	return &Session{
		Name:      name,
		UserAgent: UserAgent_default,
		client: http.Client{
			Jar: jar,
		},
		Log: log,
		jar: jar,
	}
}

// SetTimeout limits every request of the session. 0 disables the limit.
func (session *Session) SetTimeout(timeout time.Duration) {
	session.client.Timeout = timeout
}

func (session *Session) Printf(format string, a ...interface{}) {
	session.Log.Printf(format, a...)
}

func (session *Session) Cookies(u *url.URL) []*http.Cookie {
	return session.client.Jar.Cookies(u)
}

func (session *Session) SetCookies(u *url.URL, cookies []*http.Cookie) {
	session.client.Jar.SetCookies(u, cookies)
}

func (session *Session) LoadCookie() error {
	filename := fmt.Sprintf("%v/cookie", session.getDirectory())

	jar, err := cookiejar.New(&cookiejar.Options{
		Filename:              filename,
		PersistSessionCookies: true,
	})
	if err == nil {
		session.jar = jar
		session.client.Jar = jar
	}
	return err
}

// SaveCookie stores cookies to a file.
// must call LoadCookie() before call SaveCookie().
func (session *Session) SaveCookie() error {
	return session.jar.Save()
}

// charsetEncoding parses charset string and returns encoding.Encoding.
// nil means the body is UTF-8 already (or unknown).
func charsetEncoding(charset string) encoding.Encoding {
	var encode encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "iso-8859-1", "latin1", "iso8859-1", "l1":
		encode = charmap.ISO8859_1
	case "windows-1252", "cp1252", "x-cp1252":
		encode = charmap.Windows1252
	case "iso-8859-15", "latin-9":
		encode = charmap.ISO8859_15
	case "utf-16":
		encode = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}
	return encode
}

// convertEncodingToUtf8 converts body(given encoding) to UTF-8.
func convertEncodingToUtf8(body []byte, encoding encoding.Encoding) ([]byte, error) {
	if encoding == nil {
		return body, nil
	}
	b, _, err := transform.Bytes(encoding.NewDecoder(), body)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (session *Session) getDirectory() string {
	return fmt.Sprintf("%v%v", session.FilePrefix, session.Name)
}

func (session *Session) getHtmlFilename() string {
	return path.Join(session.getDirectory(), fmt.Sprintf("%v.html", session.invokeCount))
}

var reCharset = regexp.MustCompile(`(?i)charset=\s*"?([^";\s]+)`)

func charsetFromContentType(contentType string) string {
	m := reCharset.FindStringSubmatch(contentType)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

func (session *Session) invoke(req *http.Request) (*Response, error) {
	var body []byte
	var contentType string

	if session.NotUseNetwork || session.SaveToFile {
		dirname := session.getDirectory()
		if _, err := os.Stat(dirname); err != nil && os.IsNotExist(err) {
			if err := os.MkdirAll(dirname, os.FileMode(0744)); err != nil {
				return nil, err
			}
		}
	}

	session.invokeCount++
	filename := session.getHtmlFilename()

	if session.ShowRequestHeader {
		session.Printf("REQUEST: %v %v:\n", req.Method, req.URL.String())
	}

	if !session.NotUseNetwork {
		userAgent := session.UserAgent
		if userAgent == "" {
			userAgent = UserAgent_default
		}
		req.Header.Set("User-agent", userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		if session.ShowRequestHeader {
			session.Printf("Request header:{\n")
			for k, v := range req.Header {
				session.Printf("  %v: %v\n", k, v)
			}
			session.Printf("}\n")
		}

		response, err := session.client.Do(req)
		if err != nil {
			return nil, RequestError{req.URL, err}
		}
		defer response.Body.Close()

		req = response.Request // update req.Url after redirects

		if response.StatusCode/100 != 2 {
			return nil, ResponseError{req.URL, response}
		}

		if session.ShowResponseHeader {
			session.Printf("Response Header:\n")
			for k, v := range response.Header {
				session.Printf("  %v: %v\n", k, v)
			}
		}

		contentType = response.Header.Get("content-type")

		body, err = io.ReadAll(response.Body)
		if err != nil {
			return nil, RequestError{req.URL, err}
		}

		if session.SaveToFile {
			session.Printf("**** SAVE to %v (%v bytes)\n", filename, len(body))
			err = os.WriteFile(filename, body, os.FileMode(0644))
			if err != nil {
				return nil, err
			}
			err = savePageMetadata(filename, PageMetadata{
				URL:         req.URL.String(),
				Method:      req.Method,
				ContentType: contentType,
			})
			if err != nil {
				return nil, err
			}
		}
	} else {
		// load from file
		session.Printf("**** LOAD from %v\n", filename)
		var err error
		body, err = os.ReadFile(filename)
		if err != nil {
			return nil, RetryAndRecordError{filename}
		}

		metadata, err := loadPageMetadata(filename)
		if err != nil {
			return nil, RetryAndRecordError{filename}
		}
		contentType = metadata.ContentType
	}

	if session.ShowResponseHeader {
		session.Printf("Content-type: %v\n", contentType)
	}

	charSet := charsetFromContentType(contentType)

	encode := session.Encoding
	if encode == nil {
		encode = charsetEncoding(charSet)
	}
	if encode != nil {
		if session.ShowResponseHeader {
			session.Printf("converting from %v...\n", encode)
		}
		b, err := convertEncodingToUtf8(body, encode)
		if err != nil {
			return nil, err
		}
		body = b
	}

	return &Response{
		Request:     req,
		ContentType: contentType,
		CharSet:     charSet,
		Body:        body,
		Encoding:    encode,
		Logger:      session,
	}, nil
}

// Post submits form to postUrl as application/x-www-form-urlencoded.
func (session *Session) Post(ctx context.Context, postUrl string, form *Form) (*Response, error) {
	if session.ShowFormPosting {
		printForm(session.Log, form)
	}
	encoded, err := form.Encode(session.Encoding)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", postUrl, strings.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-type", "application/x-www-form-urlencoded")
	req.Header.Set("Content-length", strconv.Itoa(len(encoded)))
	return session.invoke(req)
}

// PostForm submits form and returns the response body as UTF-8 text.
func (session *Session) PostForm(ctx context.Context, postUrl string, form *Form) (string, error) {
	resp, err := session.Post(ctx, postUrl, form)
	if err != nil {
		return "", err
	}
	return resp.Text()
}
