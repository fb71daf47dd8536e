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

// Package cert loads the client certificate some tenants require for
// certificate-based device authentication.
package cert

import (
	"crypto/tls"
	"fmt"

	"github.com/superkkt/logger"
)

type Loader struct {
	certFile, keyFile string
	cached            tls.Certificate
}

func NewLoader(certFile, keyFile string) (*Loader, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, err
	}

	return &Loader{
		certFile: certFile,
		keyFile:  keyFile,
		cached:   cert,
	}, nil
}

// GetClientCertificate reloads the key pair on every TLS handshake so that a
// renewed certificate is picked up without restarting the process.
func (r *Loader) GetClientCertificate(*tls.CertificateRequestInfo) (*tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		logger.Error(fmt.Sprintf("cert: failed to read new certifications: %v", err))
		logger.Warning("cert: fallback to the cached certification")
		// Fallback
		return &r.cached, nil
	}
	r.cached = cert

	return &cert, nil
}
