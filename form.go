package collection

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

type FormField struct {
	Name  string
	Value string
}

// Form is an application/x-www-form-urlencoded body whose fields keep insertion order.
// The card site's PHP endpoints are posted to in the same field order its own pages use.
type Form struct {
	fields []FormField
}

func NewForm() *Form {
	return &Form{}
}

// Add appends a field. Adding an existing name appends another value, like URLSearchParams.append.
func (form *Form) Add(name string, value string) *Form {
	form.fields = append(form.fields, FormField{name, value})
	return form
}

// Get returns the first value of name.
func (form *Form) Get(name string) (string, bool) {
	for _, f := range form.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func (form *Form) Fields() []FormField {
	return append([]FormField(nil), form.fields...)
}

// Encode returns the urlencoded body. Values are converted to enc first when it is not nil.
func (form *Form) Encode(enc encoding.Encoding) (string, error) {
	var encoder *encoding.Encoder
	if enc != nil {
		encoder = enc.NewEncoder()
	}
	parts := make([]string, 0, len(form.fields))
	for _, f := range form.fields {
		v := f.Value
		if encoder != nil {
			s, _, err := transform.String(encoder, v)
			if err != nil {
				return "", fmt.Errorf("form field %v: %w", f.Name, err)
			}
			v = s
		}
		parts = append(parts, url.QueryEscape(f.Name)+"="+url.QueryEscape(v))
	}
	return strings.Join(parts, "&"), nil
}

// printForm logs the fields with the password masked.
func printForm(log Logger, form *Form) {
	log.Printf("Form Posting:{\n")
	for _, f := range form.fields {
		v := f.Value
		if f.Name == "password" && v != "" {
			v = "********"
		}
		log.Printf(" %v=%v\n", f.Name, v)
	}
	log.Printf("}\n")
}
