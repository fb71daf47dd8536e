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

const (
	// ProtocolVersion is the ActiveSync protocol version this client speaks.
	ProtocolVersion = "14.1"
	// endpointPath is the fixed ActiveSync request path on the server.
	endpointPath = "/Microsoft-Server-ActiveSync"
	// policyType is the only policy type a 14.x server hands out.
	policyType = "MS-EAS-Provisioning-WBXML"
)

// Command selects the Cmd URI parameter and the expected response envelope.
type Command int

const (
	CmdOptions Command = iota
	CmdFolderSync
	CmdSendMail
	CmdSettings
	CmdProvision
)

func (r Command) String() string {
	switch r {
	case CmdOptions:
		return "OPTIONS"
	case CmdFolderSync:
		return "FolderSync"
	case CmdSendMail:
		return "SendMail"
	case CmdSettings:
		return "Settings"
	case CmdProvision:
		return "Provision"
	default:
		panic(fmt.Sprintf("unexpected command: %v", int(r)))
	}
}
