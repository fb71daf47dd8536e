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

// Device identifies the device row the server keeps per mailbox. It is
// immutable once a call chain targets a device.
type Device struct {
	ID   string
	Type string
	// UserAgent is optional and sent as the User-Agent header field when set.
	UserAgent string
}

// DeviceSettings is the device information advertised to the server. All
// fields are optional. An unset field is an explicit instruction to clear
// that attribute server-side, not to leave it unchanged: the Settings and
// Provision envelopes always carry all eight elements, empty ones rendered
// as empty elements.
type DeviceSettings struct {
	Model          string
	IMEI           string
	FriendlyName   string
	OS             string
	OSLanguage     string
	PhoneNumber    string
	MobileOperator string
	UserAgent      string
}

// deviceInformationSet is the Set element shared by the Settings and
// Provision envelopes. No field carries omitempty so that unset settings
// still produce empty elements.
type deviceInformationSet struct {
	Model          string
	IMEI           string
	FriendlyName   string
	OS             string
	OSLanguage     string
	PhoneNumber    string
	MobileOperator string
	UserAgent      string
}

func newDeviceInformationSet(s DeviceSettings) deviceInformationSet {
	return deviceInformationSet{
		Model:          s.Model,
		IMEI:           s.IMEI,
		FriendlyName:   s.FriendlyName,
		OS:             s.OS,
		OSLanguage:     s.OSLanguage,
		PhoneNumber:    s.PhoneNumber,
		MobileOperator: s.MobileOperator,
		UserAgent:      s.UserAgent,
	}
}
