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

	"github.com/google/uuid"
)

// OutgoingMessage is one mail to be submitted through SendMail.
type OutgoingMessage struct {
	From    string
	To      string
	Subject string
	// HTMLBody is the message body. It is base64-encoded into the MIME
	// envelope as-is.
	HTMLBody string
	// SaveInSentItems asks the server to file a copy in the Sent Items
	// folder.
	SaveInSentItems bool
}

type emptyTag struct{}

type sendMailReq struct {
	XMLName         xml.Name `xml:"SendMail"`
	NS              string   `xml:"xmlns,attr"`
	ClientId        string
	SaveInSentItems *emptyTag
	Mime            mimeData
}

type mimeData struct {
	Data string `xml:",cdata"`
}

// NewSendMailRequest builds the SendMail envelope. A fresh client identifier
// is minted per call and doubles as the MIME Message-ID, so the returned
// identifier is globally unique across repeated calls with identical input.
func NewSendMailRequest(msg OutgoingMessage) (body []byte, clientID string, err error) {
	if !validateEmail(msg.From) {
		return nil, "", &ValidationError{Field: "From"}
	}
	if !validateEmail(msg.To) {
		return nil, "", &ValidationError{Field: "To"}
	}
	if msg.Subject == "" {
		return nil, "", &ValidationError{Field: "Subject"}
	}

	clientID = uuid.New().String()
	req := sendMailReq{
		NS:       "ComposeMail:",
		ClientId: clientID,
		Mime:     mimeData{Data: string(composeMIME(msg.From, msg.To, msg.Subject, msg.HTMLBody, clientID))},
	}
	if msg.SaveInSentItems {
		req.SaveInSentItems = &emptyTag{}
	}

	body, err = xml.Marshal(req)
	if err != nil {
		return nil, "", err
	}

	return body, clientID, nil
}
