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

import "fmt"

// ValidationError means the caller passed bad or missing input. Nothing is
// sent over the wire when a ValidationError occurs.
type ValidationError struct {
	Field string
}

func (r *ValidationError) Error() string {
	return fmt.Sprintf("empty or invalid %v", r.Field)
}

// TransportError means the HTTP exchange itself failed: network error,
// timeout, or a non-2xx status from the server.
type TransportError struct {
	Cmd Command
	// StatusCode is zero if no HTTP response was received at all.
	StatusCode int
	Timeout    bool
	Err        error
}

func (r *TransportError) Error() string {
	if r.StatusCode != 0 {
		return fmt.Sprintf("%v: unexpected HTTP status code: %v", r.Cmd, r.StatusCode)
	}
	if r.Timeout {
		return fmt.Sprintf("%v: request timed out: %v", r.Cmd, r.Err)
	}
	return fmt.Sprintf("%v: transport failure: %v", r.Cmd, r.Err)
}

// ProtocolError means the server answered with a success status, but the body
// does not match the XML schema we expect for the command.
type ProtocolError struct {
	Cmd Command
	Err error
}

func (r *ProtocolError) Error() string {
	return fmt.Sprintf("%v: malformed server response: %v", r.Cmd, r.Err)
}

// ProvisioningError means a handshake round did not yield a usable policy
// key. Round is either "offer" or "acknowledge".
type ProvisioningError struct {
	Round string
	Err   error
}

func (r *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning %v round failed: %v", r.Round, r.Err)
}

// IsTimeout returns true if err is a transport failure caused by an expired
// deadline. A ProvisioningError that wraps such a failure also reports true.
func IsTimeout(err error) bool {
	if e, ok := err.(*ProvisioningError); ok {
		err = e.Err
	}
	e, ok := err.(*TransportError)
	if !ok {
		return false
	}

	return e.Timeout
}
