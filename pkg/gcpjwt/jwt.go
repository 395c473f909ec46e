// SPDX-License-Identifier: GPL-3.0-or-later

// Package gcpjwt validates Google Cloud service account key files used by the
// cloud monitoring data source.
package gcpjwt

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrInvalidJWT is returned for key files that are not JSON objects or miss required keys.
	ErrInvalidJWT = errors.New("invalid JWT file")
	// ErrOneFile is returned when other than exactly one key file is given.
	ErrOneFile = errors.New("you can only upload one file")
)

// ConfigKeys are the keys every service account key file must carry with a non-empty value.
var ConfigKeys = []string{
	"type",
	"project_id",
	"private_key_id",
	"private_key",
	"client_email",
	"client_id",
	"auth_uri",
	"token_uri",
	"auth_provider_x509_cert_url",
	"client_x509_cert_url",
}

// JWT is the subset of a service account key the data source stores.
type JWT struct {
	TokenURI    string `json:"token_uri" yaml:"token_uri"`
	ClientEmail string `json:"client_email" yaml:"client_email"`
	PrivateKey  string `json:"private_key" yaml:"private_key"`
	ProjectID   string `json:"project_id" yaml:"project_id"`
}

// Parse validates a service account key file and extracts the JWT settings.
func Parse(data []byte) (*JWT, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidJWT)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidJWT)
	}

	var missing []string
	for _, key := range ConfigKeys {
		if v := root.Get(key); !v.Exists() || !truthy(v) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidJWT, strings.Join(missing, ", "))
	}

	return &JWT{
		TokenURI:    root.Get("token_uri").String(),
		ClientEmail: root.Get("client_email").String(),
		PrivateKey:  root.Get("private_key").String(),
		ProjectID:   root.Get("project_id").String(),
	}, nil
}

// ReadFiles parses the key file at paths. Exactly one path is accepted.
func ReadFiles(paths ...string) (*JWT, error) {
	if len(paths) != 1 {
		return nil, ErrOneFile
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return Parse(data)
}

// Redacted returns a copy safe to print: the private key is masked.
func (j JWT) Redacted() JWT {
	if j.PrivateKey != "" {
		j.PrivateKey = "configured"
	}
	return j
}

// KeyLabel returns the display label of a config key, e.g. "project_id" -> "Project Id".
// Words break at separators, between letters and digits and before an upper
// case letter that follows a lower case one: "x509" -> "X 509".
func KeyLabel(key string) string {
	return cases.Title(language.English).String(strings.Join(splitWords(key), " "))
}

func splitWords(s string) []string {
	var words []string
	var word []rune
	var prev rune

	flush := func() {
		if len(word) > 0 {
			words = append(words, string(word))
			word = word[:0]
		}
	}

	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
			prev = 0
			continue
		case prev != 0 && unicode.IsDigit(prev) != unicode.IsDigit(r):
			flush()
		case unicode.IsLower(prev) && unicode.IsUpper(r):
			flush()
		}
		word = append(word, r)
		prev = r
	}
	flush()

	return words
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	default:
		return true
	}
}
