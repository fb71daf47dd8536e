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
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"
	"time"

	"github.com/jhillyerd/enmime"
)

// ParseMessage parses a raw MIME document back into an envelope. It is the
// inverse of the composer and is mainly useful to inspect what SendMail puts
// on the wire.
func ParseMessage(raw []byte) (*enmime.Envelope, error) {
	return enmime.ReadEnvelope(bytes.NewReader(raw))
}

// composeMIME renders the outgoing message as a single-part HTML MIME
// document. The body is base64 with 76 column folding; the Message-ID header
// field carries the ActiveSync ClientId so the two identifiers stay in sync.
func composeMIME(from, to, subject, htmlBody, clientID string) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %v\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %v\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %v\r\n", subject))
	buf.WriteString(fmt.Sprintf("Message-ID: <%v>\r\n", clientID))
	buf.WriteString(fmt.Sprintf("Date: %v\r\n", time.Now().UTC().Format(time.RFC1123Z)))
	buf.WriteString("Mime-Version: 1.0\r\n")
	buf.WriteString(`Content-Type: text/html; charset="utf-8"` + "\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(addLineBreak(base64.StdEncoding.EncodeToString(convertToCRLF([]byte(htmlBody)))))

	return removeBCC(buf.Bytes())
}

func convertToCRLF(data []byte) []byte {
	if len(data) == 0 {
		return data
	}

	tokens := bytes.Split(data, []byte("\n"))
	out := make([][]byte, len(tokens))
	for i, v := range tokens {
		if len(v) == 0 {
			continue
		}
		switch v[len(v)-1] {
		case '\r':
			out[i] = v[:len(v)-1]
		default:
			out[i] = v
		}
	}

	return bytes.Join(out, []byte("\r\n"))
}

func removeBCC(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	regexp := regexp.MustCompile("(?im)^BCC:.*\\r\\n")
	return regexp.ReplaceAll(data, []byte(""))
}

func addLineBreak(data string) string {
	if len(data) == 0 {
		return ""
	}

	buf := bytes.NewBufferString(data)
	line := make([]byte, 76)
	var out bytes.Buffer
	for {
		n, err := buf.Read(line)
		if err != nil {
			break
		}
		out.Write(line[:n])
		out.WriteString("\r\n")
	}

	return out.String()
}

func validateEmail(email string) bool {
	Re := regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)
	return Re.MatchString(email)
}
