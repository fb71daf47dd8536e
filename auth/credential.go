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

// Package auth produces HTTP Authorization header values from caller
// supplied credentials. Exactly one credential variant is supplied per call;
// the variants are mutually exclusive by construction.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
)

type Credential interface {
	// Authorization returns the value of the HTTP Authorization header field.
	Authorization() (string, error)
	// Principal returns the mailbox address of the authenticated user.
	Principal() string
}

// Basic is a username/secret pair rendered as an HTTP Basic header value.
type Basic struct {
	Username string
	Secret   string
}

func (r Basic) Authorization() (string, error) {
	if r.Username == "" {
		return "", errors.New("empty username")
	}
	if r.Secret == "" {
		return "", errors.New("empty secret")
	}

	v := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%v:%v", r.Username, r.Secret)))
	return "Basic " + v, nil
}

func (r Basic) Principal() string {
	return r.Username
}

// Bearer is an OAuth2 access token obtained from an external auth subsystem.
// Address is the mailbox address the token was issued for.
type Bearer struct {
	Address string
	Token   string
}

func (r Bearer) Authorization() (string, error) {
	if r.Token == "" {
		return "", errors.New("empty token")
	}

	return "Bearer " + r.Token, nil
}

func (r Bearer) Principal() string {
	return r.Address
}
