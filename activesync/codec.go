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

package activesync

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/superkkt/logger"
)

// Response is one parsed-on-demand server answer. Ownership is transient:
// each Invoke produces one, and the caller consumes it immediately.
type Response struct {
	Cmd        Command
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Parse unmarshals the response body into dest. A body that does not match
// the expected schema is a ProtocolError, not a transport failure.
func (r *Response) Parse(dest interface{}) error {
	if len(r.Body) == 0 {
		logger.Debug(fmt.Sprintf("Empty %v response body", r.Cmd))
		return &ProtocolError{Cmd: r.Cmd, Err: fmt.Errorf("empty response body")}
	}
	if err := xml.Unmarshal(r.Body, dest); err != nil {
		return &ProtocolError{Cmd: r.Cmd, Err: err}
	}

	return nil
}

// frameDocument prepends the XML declaration and the ActiveSync DOCTYPE that
// the server expects on every request document.
func frameDocument(body []byte) []byte {
	doc := string(body)
	if !strings.HasPrefix(doc, "<?xml") {
		header := `<?xml version="1.0" encoding="utf-8"?>`
		docType := `<!DOCTYPE ActiveSync PUBLIC "-//MICROSOFT//DTD ActiveSync//EN" "http://www.microsoft.com/">`
		doc = header + docType + doc
	}

	return []byte(doc)
}
