/*
 * Alpha is a Microsoft Exchange ActiveSync client for hosted mailbox services.
 *
 * Copyright (C) 2016, 2017 Muzi Katoshi <muzikatoshi@gmail.com>
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

package activesync

import (
	"encoding/xml"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessage = OutgoingMessage{
	From:            "sender@example.com",
	To:              "rcpt@example.com",
	Subject:         "Quarterly report",
	HTMLBody:        "<html><body><h1>Numbers</h1></body></html>",
	SaveInSentItems: true,
}

type parsedSendMail struct {
	XMLName         xml.Name `xml:"SendMail"`
	ClientId        string
	SaveInSentItems *struct{}
	Mime            string
}

func TestNewSendMailRequestEnvelope(t *testing.T) {
	body, clientID, err := NewSendMailRequest(testMessage)
	require.NoError(t, err)
	require.NotEmpty(t, clientID)

	parsed := parsedSendMail{}
	require.NoError(t, xml.Unmarshal(body, &parsed))
	assert.Equal(t, clientID, parsed.ClientId)
	assert.NotNil(t, parsed.SaveInSentItems)

	// The MIME Message-ID carries the ActiveSync ClientId.
	env, err := ParseMessage([]byte(parsed.Mime))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("<%v>", clientID), env.GetHeader("Message-ID"))
	assert.Equal(t, "rcpt@example.com", env.GetHeader("To"))
	assert.Equal(t, "Quarterly report", env.GetHeader("Subject"))
	assert.Contains(t, env.HTML, "<h1>Numbers</h1>")
}

func TestNewSendMailRequestUniqueIdentifiers(t *testing.T) {
	_, first, err := NewSendMailRequest(testMessage)
	require.NoError(t, err)
	_, second, err := NewSendMailRequest(testMessage)
	require.NoError(t, err)

	// Identical input still yields a globally unique message identifier.
	assert.NotEqual(t, first, second)
}

func TestNewSendMailRequestOmitsSaveInSentItems(t *testing.T) {
	msg := testMessage
	msg.SaveInSentItems = false
	body, _, err := NewSendMailRequest(msg)
	require.NoError(t, err)

	assert.NotContains(t, string(body), "SaveInSentItems")
}

func TestNewSendMailRequestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OutgoingMessage)
	}{
		{"empty from", func(m *OutgoingMessage) { m.From = "" }},
		{"invalid from", func(m *OutgoingMessage) { m.From = "not-an-address" }},
		{"empty to", func(m *OutgoingMessage) { m.To = "" }},
		{"invalid to", func(m *OutgoingMessage) { m.To = "rcpt@" }},
		{"empty subject", func(m *OutgoingMessage) { m.Subject = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := testMessage
			tc.mutate(&msg)
			_, _, err := NewSendMailRequest(msg)
			assert.IsType(t, &ValidationError{}, err)
		})
	}
}

func TestComposeMIMELineDiscipline(t *testing.T) {
	raw := composeMIME("a@example.com", "b@example.com", "hi", "<p>body</p>", "id-1")

	// Base64 body lines stay within the 76 column bound.
	body := false
	for _, line := range splitCRLF(raw) {
		if line == "" {
			body = true
			continue
		}
		if body {
			assert.LessOrEqual(t, len(line), 76)
		}
	}
}

func splitCRLF(data []byte) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(data); i++ {
		if data[i] == '\r' && data[i+1] == '\n' {
			out = append(out, string(data[start:i]))
			start = i + 2
		}
	}
	out = append(out, string(data[start:]))

	return out
}

func TestConvertToCRLF(t *testing.T) {
	assert.Equal(t, "a\r\nb", string(convertToCRLF([]byte("a\nb"))))
	assert.Equal(t, "a\r\nb", string(convertToCRLF([]byte("a\r\nb"))))
	assert.Empty(t, convertToCRLF(nil))
}

func TestRemoveBCC(t *testing.T) {
	header := []byte("To: a@example.com\r\nBcc: secret@example.com\r\nSubject: x\r\n")
	out := removeBCC(header)
	assert.NotContains(t, string(out), "secret@example.com")
	assert.Contains(t, string(out), "To: a@example.com")
}
