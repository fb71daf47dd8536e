/*
 * Alpha is a Microsoft Exchange ActiveSync client for hosted mailbox services.
 *
 * Copyright (C) 2016, 2017 Kitae Kim <superkkt@gmail.com>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package autodiscover

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

const responseFixture = `<?xml version="1.0" encoding="utf-8"?>
<Autodiscover xmlns="http://schemas.microsoft.com/exchange/autodiscover/responseschema/2006">
  <Response xmlns="http://schemas.microsoft.com/exchange/autodiscover/mobilesync/responseschema/2006">
    <Culture>en:us</Culture>
    <User>
      <DisplayName>Test User</DisplayName>
      <EMailAddress>user@example.com</EMailAddress>
    </User>
    <Action>
      <Settings>
        <Server>
          <Type>MobileSync</Type>
          <Url>https://eas.example.com/Microsoft-Server-ActiveSync</Url>
          <Name>https://eas.example.com/Microsoft-Server-ActiveSync</Name>
        </Server>
        <Server>
          <Type>CertEnroll</Type>
          <Url>https://cert.example.com/CertEnroll</Url>
        </Server>
      </Settings>
    </Action>
  </Response>
</Autodiscover>`

func TestResolve(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		body, _ := ioutil.ReadAll(req.Body)
		gotBody = string(body)
		w.Write([]byte(responseFixture))
	}))
	defer srv.Close()

	r := NewResolver(0)
	r.hosts = func(domain string) []string {
		assert.Equal(t, "example.com", domain)
		return []string{srv.URL}
	}

	u, err := r.Resolve(context.Background(), "user@example.com", "Basic x")
	require.NoError(t, err)

	assert.Equal(t, "https://eas.example.com/Microsoft-Server-ActiveSync", u)
	assert.Equal(t, "/Autodiscover/Autodiscover.xml", gotPath)
	assert.Contains(t, gotBody, "<EMailAddress>user@example.com</EMailAddress>")
	assert.Contains(t, gotBody, "mobilesync/responseschema/2006")
}

func TestResolveFallsBackToNextHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(responseFixture))
	}))
	defer srv.Close()

	r := NewResolver(0)
	r.hosts = func(domain string) []string {
		// The first candidate does not resolve at all.
		return []string{"https://127.0.0.1:1", srv.URL}
	}

	u, err := r.Resolve(context.Background(), "user@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "https://eas.example.com/Microsoft-Server-ActiveSync", u)
}

func TestResolveInvalidEmail(t *testing.T) {
	r := NewResolver(0)
	for _, email := range []string{"", "plain", "@example.com", "user@"} {
		_, err := r.Resolve(context.Background(), email, "")
		assert.Error(t, err, "email %q", email)
	}
}

func TestResolveMissingMobileSyncServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`<Autodiscover><Response><Action><Settings></Settings></Action></Response></Autodiscover>`))
	}))
	defer srv.Close()

	r := NewResolver(0)
	r.hosts = func(string) []string { return []string{srv.URL} }

	_, err := r.Resolve(context.Background(), "user@example.com", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MobileSync")
}

func TestParseServerURL(t *testing.T) {
	_, err := parseServerURL([]byte("not xml at all <"))
	assert.Error(t, err)

	u, err := parseServerURL([]byte(responseFixture))
	require.NoError(t, err)
	assert.Equal(t, "https://eas.example.com/Microsoft-Server-ActiveSync", u)
}
