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
	"bytes"
	"crypto/tls"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/superkkt/logger"
	"golang.org/x/net/context"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultProbeTimeout = 5 * time.Second
)

// Config carries the endpoint and the timeout bounds of a Transport.
type Config struct {
	// Endpoint is the base URL of the ActiveSync service, e.g.
	// "https://outlook.office365.com". A bare hostname is also accepted.
	Endpoint string
	// Timeout bounds one command exchange. Default 60s.
	Timeout time.Duration
	// ProbeTimeout bounds the lightweight OPTIONS capability probe. Default 5s.
	ProbeTimeout time.Duration
	// Cert supplies a client certificate for tenants that require
	// certificate-based device authentication. Optional.
	Cert CertLoader
}

type CertLoader interface {
	GetClientCertificate(*tls.CertificateRequestInfo) (*tls.Certificate, error)
}

// Transport issues single authenticated exchanges against the ActiveSync
// endpoint. It keeps no state across invocations and is safe for concurrent
// use by multiple goroutines.
type Transport struct {
	endpoint    string
	client      *http.Client
	probeClient *http.Client
}

func NewTransport(conf Config) (*Transport, error) {
	endpoint := strings.TrimSuffix(conf.Endpoint, "/")
	if endpoint == "" {
		return nil, &ValidationError{Field: "Endpoint"}
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, &ValidationError{Field: "Endpoint"}
	}
	timeout := conf.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	probeTimeout := conf.ProbeTimeout
	if probeTimeout == 0 {
		probeTimeout = defaultProbeTimeout
	}
	var rt http.RoundTripper
	if conf.Cert != nil {
		rt = &http.Transport{
			TLSClientConfig: &tls.Config{
				GetClientCertificate: conf.Cert.GetClientCertificate,
			},
		}
	}

	return &Transport{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout, Transport: rt},
		probeClient: &http.Client{Timeout: probeTimeout, Transport: rt},
	}, nil
}

// Call is one command invocation. Authorization is the ready-made value of
// the HTTP Authorization header field; User is the mailbox address used for
// the User URI parameter.
type Call struct {
	Command       Command
	Body          []byte
	Authorization string
	User          string
	Device        Device
	// PolicyKey is attached verbatim via the X-MS-PolicyKey header field
	// when it is not empty.
	PolicyKey string
	// Header holds extra header fields for this call only.
	Header map[string]string
}

// Invoke sends one command request and returns the raw response. A non-2xx
// status or a network failure is a TransportError; interpreting the body is
// left to the caller.
func (r *Transport) Invoke(ctx context.Context, c Call) (*Response, error) {
	if c.Authorization == "" {
		return nil, &ValidationError{Field: "Authorization"}
	}
	if c.User == "" {
		return nil, &ValidationError{Field: "User"}
	}
	if c.Device.ID == "" {
		return nil, &ValidationError{Field: "DeviceId"}
	}
	if c.Device.Type == "" {
		return nil, &ValidationError{Field: "DeviceType"}
	}

	query := url.Values{}
	query.Set("Cmd", c.Command.String())
	query.Set("User", c.User)
	query.Set("DeviceId", c.Device.ID)
	query.Set("DeviceType", c.Device.Type)
	target := fmt.Sprintf("%v%v?%v", r.endpoint, endpointPath, query.Encode())

	req, err := http.NewRequest("POST", target, bytes.NewReader(frameDocument(c.Body)))
	if err != nil {
		return nil, &TransportError{Cmd: c.Command, Err: err}
	}
	req = req.WithContext(ctx)
	req.Header.Set("Authorization", c.Authorization)
	req.Header.Set("MS-ASProtocolVersion", ProtocolVersion)
	req.Header.Set("Content-Type", "text/xml")
	if c.Device.UserAgent != "" {
		req.Header.Set("User-Agent", c.Device.UserAgent)
	}
	if c.PolicyKey != "" {
		req.Header.Set("X-MS-PolicyKey", c.PolicyKey)
	}
	for k, v := range c.Header {
		req.Header.Set(k, v)
	}
	logger.Debug(fmt.Sprintf("CMD: %v, URL: %v, Header: %v", c.Command, target, removeAuthInfo(req.Header)))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &TransportError{Cmd: c.Command, Timeout: isTimeoutErr(ctx, err), Err: err}
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cmd: c.Command, Timeout: isTimeoutErr(ctx, err), Err: err}
	}
	logger.Debug(fmt.Sprintf("CMD: %v, status: %v, body length: %v", c.Command, resp.StatusCode, len(body)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Cmd: c.Command, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP status %v", resp.Status)}
	}

	return &Response{
		Cmd:        c.Command,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Probe issues an OPTIONS request against the base endpoint and returns all
// response header fields verbatim. The server advertises its supported
// protocol versions and commands there.
func (r *Transport) Probe(ctx context.Context, authorization string) (http.Header, error) {
	if authorization == "" {
		return nil, &ValidationError{Field: "Authorization"}
	}

	req, err := http.NewRequest("OPTIONS", r.endpoint+endpointPath, nil)
	if err != nil {
		return nil, &TransportError{Cmd: CmdOptions, Err: err}
	}
	req = req.WithContext(ctx)
	req.Header.Set("Authorization", authorization)

	resp, err := r.probeClient.Do(req)
	if err != nil {
		return nil, &TransportError{Cmd: CmdOptions, Timeout: isTimeoutErr(ctx, err), Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Cmd: CmdOptions, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP status %v", resp.Status)}
	}
	logger.Debug(fmt.Sprintf("OPTIONS probe: versions=%v, commands=%v", resp.Header.Get("MS-ASProtocolVersions"), resp.Header.Get("MS-ASProtocolCommands")))

	return resp.Header, nil
}

func isTimeoutErr(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded {
		return true
	}
	if e, ok := err.(net.Error); ok {
		return e.Timeout()
	}

	return false
}

// removeAuthInfo returns a deep copy of h except the Authorization header field.
func removeAuthInfo(h http.Header) http.Header {
	h2 := make(http.Header, len(h))
	for k, vv := range h {
		// Remove the Authorization header field to hide user's password.
		if k == "Authorization" {
			continue
		}
		vv2 := make([]string, len(vv))
		copy(vv2, vv)
		h2[k] = vv2
	}
	return h2
}
