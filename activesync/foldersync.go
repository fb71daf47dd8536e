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

import "encoding/xml"

// InitialSyncKey requests a full folder hierarchy. Incremental sync key
// chaining is up to the caller.
const InitialSyncKey = "0"

type folderSyncReq struct {
	XMLName xml.Name `xml:"FolderSync"`
	NS      string   `xml:"xmlns,attr"`
	SyncKey string
}

// NewFolderSyncRequest builds the FolderSync envelope for the given sync key.
func NewFolderSyncRequest(syncKey string) ([]byte, error) {
	if syncKey == "" {
		return nil, &ValidationError{Field: "SyncKey"}
	}

	return xml.Marshal(folderSyncReq{NS: "FolderHierarchy:", SyncKey: syncKey})
}

// FolderSyncResult is the parsed FolderSync response. SyncKey is opaque and
// must be replayed verbatim on the next incremental sync.
type FolderSyncResult struct {
	XMLName xml.Name `xml:"FolderSync"`
	Status  int
	SyncKey string
	Changes *FolderChanges
}

type FolderChanges struct {
	Count  int
	Add    []Folder    `xml:"Add"`
	Update []Folder    `xml:"Update"`
	Delete []FolderRef `xml:"Delete"`
}

type Folder struct {
	ServerId    string
	ParentId    string
	DisplayName string
	Type        FolderType
}

type FolderRef struct {
	ServerId string
}

// FolderType is the ActiveSync folder type code.
type FolderType int

const (
	FolderGeneric FolderType = 1
	FolderInbox   FolderType = 2
	FolderDrafts  FolderType = 3
	FolderTrash   FolderType = 4
	FolderSent    FolderType = 5
	FolderOutbox  FolderType = 6
	FolderMail    FolderType = 12
)

func (r FolderType) String() string {
	switch r {
	case FolderGeneric:
		return "Generic"
	case FolderInbox:
		return "Inbox"
	case FolderDrafts:
		return "Drafts"
	case FolderTrash:
		return "Trash"
	case FolderSent:
		return "Sent"
	case FolderOutbox:
		return "Outbox"
	case FolderMail:
		return "Mail"
	default:
		return "Unknown"
	}
}

// ParseFolderSync interprets a FolderSync response. The folder tree is
// returned exactly as the server sent it, except that display names are
// truncated to the protocol's 256 character bound.
func ParseFolderSync(resp *Response) (*FolderSyncResult, error) {
	result := &FolderSyncResult{}
	if err := resp.Parse(result); err != nil {
		return nil, err
	}
	if result.Changes != nil {
		for i, v := range result.Changes.Add {
			result.Changes.Add[i].DisplayName = truncateFolderName(v.DisplayName)
		}
		for i, v := range result.Changes.Update {
			result.Changes.Update[i].DisplayName = truncateFolderName(v.DisplayName)
		}
	}

	return result, nil
}

func truncateFolderName(name string) string {
	v := []rune(name)
	if len(v) <= 256 {
		return name
	}

	return string(v[0:256])
}
