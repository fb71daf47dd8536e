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

// Package autodiscover resolves the ActiveSync endpoint of a mailbox using
// the v1 XML Autodiscover protocol.
package autodiscover

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/superkkt/logger"
	"golang.org/x/net/context"
)

const (
	requestSchema  = "http://schemas.microsoft.com/exchange/autodiscover/mobilesync/requestschema/2006"
	responseSchema = "http://schemas.microsoft.com/exchange/autodiscover/mobilesync/responseschema/2006"

	defaultTimeout = 10 * time.Second
)

// Resolver looks up the ActiveSync service URL for a mailbox address. The
// core engine accepts the resolved URL as an input; it never resolves
// endpoints itself.
type Resolver struct {
	client *http.Client
	// hosts overrides the candidate host derivation. Tests only.
	hosts func(domain string) []string
}

func NewResolver(timeout time.Duration) *Resolver {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Resolver{
		client: &http.Client{Timeout: timeout},
	}
}

type request struct {
	XMLName xml.Name `xml:"Autodiscover"`
	NS      string   `xml:"xmlns,attr"`
	Request struct {
		EMailAddress             string
		AcceptableResponseSchema string
	}
}

// Resolve posts the Autodiscover envelope for email and returns the
// MobileSync server URL. The mailbox domain and its autodiscover subdomain
// are tried in order.
func (r *Resolver) Resolve(ctx context.Context, email, authorization string) (string, error) {
	idx := strings.LastIndex(email, "@")
	if idx <= 0 || idx == len(email)-1 {
		return "", fmt.Errorf("invalid email address: %v", email)
	}
	domain := email[idx+1:]

	hosts := []string{domain, "autodiscover." + domain}
	if r.hosts != nil {
		hosts = r.hosts(domain)
	}

	var lastErr error
	for _, host := range hosts {
		u, err := r.lookup(ctx, host, email, authorization)
		if err != nil {
			logger.Debug(fmt.Sprintf("Autodiscover lookup failed: host=%v: %v", host, err))
			lastErr = err
			continue
		}
		return u, nil
	}

	return "", fmt.Errorf("autodiscover failed for %v: %v", email, lastErr)
}

func (r *Resolver) lookup(ctx context.Context, host, email, authorization string) (string, error) {
	reqBody := request{NS: requestSchema}
	reqBody.Request.EMailAddress = email
	reqBody.Request.AcceptableResponseSchema = responseSchema
	body, err := xml.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	body = append([]byte(`<?xml version="1.0" encoding="utf-8"?>`), body...)

	target := host
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	target = strings.TrimSuffix(target, "/") + "/Autodiscover/Autodiscover.xml"

	req, err := http.NewRequest("POST", target, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "text/xml")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected HTTP status code: %v", resp.StatusCode)
	}

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return parseServerURL(data)
}

func parseServerURL(data []byte) (string, error) {
	respBody := struct {
		XMLName  xml.Name `xml:"Autodiscover"`
		Response struct {
			Action struct {
				Settings struct {
					Server []struct {
						Type string
						Url  string
					}
				}
			}
		}
	}{}
	if err := xml.Unmarshal(data, &respBody); err != nil {
		return "", fmt.Errorf("malformed Autodiscover response: %v", err)
	}

	for _, v := range respBody.Response.Action.Settings.Server {
		if v.Type != "MobileSync" {
			continue
		}
		if v.Url == "" {
			break
		}
		return v.Url, nil
	}

	return "", fmt.Errorf("missing MobileSync server URL in the Autodiscover response")
}
