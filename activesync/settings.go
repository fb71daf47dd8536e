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

import "encoding/xml"

type settingsReq struct {
	XMLName           xml.Name `xml:"Settings"`
	NS                string   `xml:"xmlns,attr"`
	DeviceInformation struct {
		Set deviceInformationSet
	}
}

// NewSettingsRequest builds the Settings envelope updating the device
// information. All eight attributes are always emitted; an unset one clears
// the server-side value.
func NewSettingsRequest(settings DeviceSettings) ([]byte, error) {
	req := settingsReq{NS: "Settings:"}
	req.DeviceInformation.Set = newDeviceInformationSet(settings)

	return xml.Marshal(req)
}
