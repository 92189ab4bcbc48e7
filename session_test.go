package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

func Test_charsetEncoding(t *testing.T) {
	type charsetInfo struct {
		encoding encoding.Encoding
		names    []string
	}
	charsets := []charsetInfo{
		{nil, []string{"UTF-8", "unknown", ""}},
		{charmap.ISO8859_1, []string{"ISO-8859-1", "latin1", "iso8859-1", "L1"}},
		{charmap.Windows1252, []string{"windows-1252", "CP1252", "x-cp1252"}},
		{charmap.ISO8859_15, []string{"ISO-8859-15", "latin-9"}},
	}

	type test struct {
		name    string
		charset string
		want    encoding.Encoding
	}
	var tests []test
	for _, charset := range charsets {
		for _, name := range charset.names {
			tests = append(tests, test{name, name, charset.encoding})
		}
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := charsetEncoding(tt.charset); got != tt.want {
				t.Errorf("charsetEncoding() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_charsetFromContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        string
	}{
		{"plain", "text/html", ""},
		{"latin1", "text/html; charset=ISO-8859-1", "ISO-8859-1"},
		{"quoted", `text/html; charset="windows-1252"`, "windows-1252"},
		{"spaced", "text/html;charset= utf-8; format=flowed", "utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := charsetFromContentType(tt.contentType); got != tt.want {
				t.Errorf("charsetFromContentType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSession_PostFormCharset(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{
			"utf-8",
			"text/html; charset=utf-8",
			"<html><body>Café</body></html>",
			"<html><body>Café</body></html>",
		},
		{
			"latin1 header",
			"text/html; charset=iso-8859-1",
			"<html><body>Caf\xe9</body></html>",
			"<html><body>Café</body></html>",
		},
		{
			"meta charset",
			"text/html",
			`<html><head><meta charset="windows-1252"></head><body>5` + "\x80" + `</body></html>`,
			`<html><head><meta charset="windows-1252"></head><body>5€</body></html>`,
		},
		{
			"meta http-equiv",
			"text/html",
			`<html><head><meta http-equiv="content-type" content="text/html; charset=latin1"></head><body>` + "\xe9" + `</body></html>`,
			`<html><head><meta http-equiv="content-type" content="text/html; charset=latin1"></head><body>é</body></html>`,
		},
		{
			"header wins over meta",
			"text/html; charset=UTF-8",
			`<html><head><meta charset="windows-1252"></head><body><td id="crdname1">Bäcker</td></body></html>`,
			`<html><head><meta charset="windows-1252"></head><body><td id="crdname1">Bäcker</td></body></html>`,
		},
		{
			"not html",
			"text/plain",
			`<meta charset="windows-1252">` + "\x80",
			`<meta charset="windows-1252">` + "\x80",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			session := NewSession("session_test", DummyLogger{})
			got, err := session.PostForm(context.Background(), ts.URL, NewForm())
			if err != nil {
				t.Fatalf("PostForm() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got)\n%v", diff)
			}
		})
	}
}

func TestSession_ResponseError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	session := NewSession("session_test", DummyLogger{})
	_, err := session.PostForm(context.Background(), ts.URL+"/index.php", NewForm().Add("s", "new"))

	var responseError ResponseError
	if !errors.As(err, &responseError) {
		t.Fatalf("PostForm() error = %v, want ResponseError", err)
	}
	if responseError.Response.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %v", responseError.Response.StatusCode)
	}
}

func TestSession_RecordAndReplay(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
		_, _ = fmt.Fprintf(w, "saved \xe9 %s", b)
	}))
	defer ts.Close()

	dir := t.TempDir()
	form := AddToCollectionForm("12", "mine", "tester", "secret")
	want := "saved é id=12&action=11&x1=mine&x2=0&user=tester&password=secret&fake=&ut="

	recorder := NewSession("record", DummyLogger{})
	recorder.FilePrefix = dir + "/"
	recorder.SaveToFile = true
	got, err := recorder.PostForm(context.Background(), ts.URL+"/saveCard.php", form)
	if err != nil {
		t.Fatalf("record: PostForm() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record (-want +got)\n%v", diff)
	}

	metadata, err := loadPageMetadata(filepath.Join(dir, "record", "1.html"))
	if err != nil {
		t.Fatal(err)
	}
	wantMetadata := PageMetadata{
		URL:         ts.URL + "/saveCard.php",
		Method:      http.MethodPost,
		ContentType: "text/plain; charset=iso-8859-1",
	}
	if diff := cmp.Diff(wantMetadata, metadata); diff != "" {
		t.Errorf("metadata (-want +got)\n%v", diff)
	}

	player := NewSession("record", DummyLogger{})
	player.FilePrefix = dir + "/"
	player.NotUseNetwork = true
	got, err = player.PostForm(context.Background(), ts.URL+"/saveCard.php", form)
	if err != nil {
		t.Fatalf("replay: PostForm() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("replay (-want +got)\n%v", diff)
	}
	if requests != 1 {
		t.Errorf("server saw %d requests, want 1", requests)
	}

	_, err = player.PostForm(context.Background(), ts.URL+"/saveCard.php", form)
	var retry RetryAndRecordError
	if !errors.As(err, &retry) {
		t.Errorf("extra replay error = %v, want RetryAndRecordError", err)
	}
}

func TestSession_ShowFormPosting(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "ok")
	}))
	defer ts.Close()

	logger := BufferedLogger{}
	session := NewSession("session_test", &logger)
	session.ShowFormPosting = true

	if _, err := session.PostForm(context.Background(), ts.URL, AddToCollectionForm("12", "mine", "tester", "secret")); err != nil {
		t.Fatal(err)
	}

	log := logger.String()
	if strings.Contains(log, "secret") {
		t.Errorf("password leaked into log:\n%v", log)
	}
	for _, line := range []string{"Form Posting:{", " id=12", " x1=mine", " password=********", "}"} {
		if !strings.Contains(log, line+"\n") {
			t.Errorf("log lacks %q:\n%v", line, log)
		}
	}
}

func TestSession_Cookies(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "abc", Path: "/", MaxAge: 3600})
		_, _ = fmt.Fprint(w, "ok")
	}))
	defer ts.Close()

	dir := t.TempDir()
	session := NewSession("cookies", DummyLogger{})
	session.FilePrefix = dir + "/"
	if err := os.MkdirAll(session.getDirectory(), 0744); err != nil {
		t.Fatal(err)
	}
	if err := session.LoadCookie(); err != nil {
		t.Fatal(err)
	}
	if _, err := session.PostForm(context.Background(), ts.URL, NewForm()); err != nil {
		t.Fatal(err)
	}
	if err := session.SaveCookie(); err != nil {
		t.Fatal(err)
	}

	reloaded := NewSession("cookies", DummyLogger{})
	reloaded.FilePrefix = dir + "/"
	if err := reloaded.LoadCookie(); err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	cookies := reloaded.Cookies(u)
	if len(cookies) != 1 || cookies[0].Name != "PHPSESSID" || cookies[0].Value != "abc" {
		t.Errorf("Cookies() = %v", cookies)
	}
}
