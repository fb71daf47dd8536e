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
	"fmt"
	"net/http"

	"github.com/superkkt/alpha/auth"

	"github.com/superkkt/logger"
	"golang.org/x/net/context"
)

// Client composes the transport, the provisioning handshake, and the command
// builders into the public per-device mailbox operations. It keeps no
// session: the credential and the device identity are supplied per call, and
// the policy key is the only multi-call state, owned by the caller.
type Client struct {
	transport *Transport
}

func NewClient(conf Config) (*Client, error) {
	t, err := NewTransport(conf)
	if err != nil {
		return nil, err
	}

	return &Client{transport: t}, nil
}

// SyncFolders fetches the full folder hierarchy. It does not require
// provisioning: the hierarchy call is read-only.
func (r *Client) SyncFolders(ctx context.Context, cred auth.Credential, device Device) (*FolderSyncResult, error) {
	authorization, err := cred.Authorization()
	if err != nil {
		return nil, &ValidationError{Field: "Credential"}
	}
	body, err := NewFolderSyncRequest(InitialSyncKey)
	if err != nil {
		return nil, err
	}

	resp, err := r.transport.Invoke(ctx, Call{
		Command:       CmdFolderSync,
		Body:          body,
		Authorization: authorization,
		User:          cred.Principal(),
		Device:        device,
	})
	if err != nil {
		return nil, err
	}

	return ParseFolderSync(resp)
}

// SendOptions tunes one SendMessage call. PolicyKey is a pre-established key
// from an earlier enrollment; when it is empty and AutoProvision is set, the
// full handshake runs first using Settings as the advertised device
// information. When both are absent the mail is submitted unprovisioned,
// which policy-enforced tenants reject.
type SendOptions struct {
	PolicyKey     string
	AutoProvision bool
	Settings      DeviceSettings
}

// SendMessage submits one mail through SendMail and returns the message
// identifier, which equals the MIME Message-ID of the submitted envelope.
func (r *Client) SendMessage(ctx context.Context, cred auth.Credential, device Device, msg OutgoingMessage, opt SendOptions) (string, error) {
	authorization, err := cred.Authorization()
	if err != nil {
		return "", &ValidationError{Field: "Credential"}
	}

	policyKey := opt.PolicyKey
	if policyKey == "" && opt.AutoProvision {
		policyKey, err = r.EnrollDevice(ctx, cred, device, opt.Settings)
		if err != nil {
			return "", err
		}
	}

	body, clientID, err := NewSendMailRequest(msg)
	if err != nil {
		return "", err
	}
	_, err = r.transport.Invoke(ctx, Call{
		Command:       CmdSendMail,
		Body:          body,
		Authorization: authorization,
		User:          cred.Principal(),
		Device:        device,
		PolicyKey:     policyKey,
	})
	if err != nil {
		return "", err
	}
	logger.Info(fmt.Sprintf("Sent an outgoing email: To=%v, ClientId=%v", msg.To, clientID))

	return clientID, nil
}

// UpdateDeviceSettings pushes the device information to the server and
// returns the raw response document. All eight attributes are written; an
// unset one clears the server-side value.
func (r *Client) UpdateDeviceSettings(ctx context.Context, cred auth.Credential, device Device, settings DeviceSettings) (*Response, error) {
	authorization, err := cred.Authorization()
	if err != nil {
		return nil, &ValidationError{Field: "Credential"}
	}
	body, err := NewSettingsRequest(settings)
	if err != nil {
		return nil, err
	}

	return r.transport.Invoke(ctx, Call{
		Command:       CmdSettings,
		Body:          body,
		Authorization: authorization,
		User:          cred.Principal(),
		Device:        device,
	})
}

// EnrollDevice runs the two-round provisioning handshake and returns the
// final policy key. The handshake is re-run per device enrollment; the key
// is never cached here.
func (r *Client) EnrollDevice(ctx context.Context, cred auth.Credential, device Device, settings DeviceSettings) (string, error) {
	authorization, err := cred.Authorization()
	if err != nil {
		return "", &ValidationError{Field: "Credential"}
	}

	e := NewEnrollment(r.transport, authorization, cred.Principal(), device, settings)
	return e.Run(ctx)
}

// ProbeCapabilities issues the OPTIONS capability probe and returns all
// response header fields verbatim.
func (r *Client) ProbeCapabilities(ctx context.Context, cred auth.Credential) (http.Header, error) {
	authorization, err := cred.Authorization()
	if err != nil {
		return nil, &ValidationError{Field: "Credential"}
	}

	return r.transport.Probe(ctx, authorization)
}
