// SPDX-License-Identifier: GPL-3.0-or-later

package gcpjwt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data, err := os.ReadFile("testdata/service_account.json")
	require.NoError(t, err)

	jwt, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "raintank-dev", jwt.ProjectID)
	assert.Equal(t, "monitoring@raintank-dev.iam.gserviceaccount.com", jwt.ClientEmail)
	assert.Equal(t, "https://oauth2.googleapis.com/token", jwt.TokenURI)
	assert.Contains(t, jwt.PrivateKey, "BEGIN PRIVATE KEY")
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]struct {
		input       string
		wantMissing string
	}{
		"not json":     {input: `{"type": `},
		"array":        {input: `["service_account"]`},
		"string":       {input: `"service_account"`},
		"empty object": {input: `{}`, wantMissing: "type, project_id"},
		"empty value":  {input: validWith("project_id", `""`), wantMissing: "project_id"},
		"null value":   {input: validWith("client_email", `null`), wantMissing: "client_email"},
		"false value":  {input: validWith("token_uri", `false`), wantMissing: "token_uri"},
		"removed key":  {input: validWith("client_x509_cert_url", ""), wantMissing: "client_x509_cert_url"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			jwt, err := Parse([]byte(test.input))
			require.ErrorIs(t, err, ErrInvalidJWT)
			assert.Nil(t, jwt)
			if test.wantMissing != "" {
				assert.Contains(t, err.Error(), test.wantMissing)
			}
		})
	}
}

// validWith returns a valid key file with key set to the raw JSON value, or removed if raw is empty.
func validWith(key, raw string) string {
	s := "{"
	for i, k := range ConfigKeys {
		v := `"x"`
		if k == key {
			if raw == "" {
				continue
			}
			v = raw
		}
		if i > 0 && s != "{" {
			s += ","
		}
		s += `"` + k + `":` + v
	}
	return s + "}"
}

func TestReadFiles(t *testing.T) {
	jwt, err := ReadFiles("testdata/service_account.json")
	require.NoError(t, err)
	assert.Equal(t, "raintank-dev", jwt.ProjectID)

	_, err = ReadFiles()
	assert.ErrorIs(t, err, ErrOneFile)

	_, err = ReadFiles("testdata/service_account.json", "testdata/service_account.json")
	assert.ErrorIs(t, err, ErrOneFile)

	_, err = ReadFiles(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidJWT)
}

func TestJWT_Redacted(t *testing.T) {
	jwt := JWT{ProjectID: "p", PrivateKey: "secret"}

	red := jwt.Redacted()

	assert.Equal(t, "configured", red.PrivateKey)
	assert.Equal(t, "p", red.ProjectID)
	assert.Equal(t, "secret", jwt.PrivateKey)
	assert.Empty(t, JWT{}.Redacted().PrivateKey)
}

func TestKeyLabel(t *testing.T) {
	tests := map[string]string{
		"type":                        "Type",
		"project_id":                  "Project Id",
		"private_key_id":              "Private Key Id",
		"auth_provider_x509_cert_url": "Auth Provider X 509 Cert Url",
		"client_x509_cert_url":        "Client X 509 Cert Url",
		"__double__sep":               "Double Sep",
	}

	for key, want := range tests {
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, want, KeyLabel(key))
		})
	}
}
