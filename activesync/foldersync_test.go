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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFolderSyncRequest(t *testing.T) {
	body, err := NewFolderSyncRequest(InitialSyncKey)
	require.NoError(t, err)
	assert.Equal(t, `<FolderSync xmlns="FolderHierarchy:"><SyncKey>0</SyncKey></FolderSync>`, string(body))

	_, err = NewFolderSyncRequest("")
	assert.IsType(t, &ValidationError{}, err)
}

const folderSyncFixture = `<FolderSync xmlns="FolderHierarchy:"><Status>1</Status><SyncKey>1</SyncKey><Changes><Count>4</Count><Add><ServerId>1</ServerId><ParentId>0</ParentId><DisplayName>Inbox</DisplayName><Type>2</Type></Add><Add><ServerId>2</ServerId><ParentId>0</ParentId><DisplayName>Sent Items</DisplayName><Type>5</Type></Add><Add><ServerId>3</ServerId><ParentId>0</ParentId><DisplayName>Deleted Items</DisplayName><Type>4</Type></Add><Add><ServerId>4</ServerId><ParentId>1</ParentId><DisplayName>Receipts</DisplayName><Type>12</Type></Add></Changes></FolderSync>`

func TestParseFolderSync(t *testing.T) {
	resp := &Response{Cmd: CmdFolderSync, StatusCode: 200, Body: []byte(folderSyncFixture)}
	result, err := ParseFolderSync(resp)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Status)
	assert.Equal(t, "1", result.SyncKey)
	require.NotNil(t, result.Changes)
	assert.Equal(t, 4, result.Changes.Count)
	require.Len(t, result.Changes.Add, 4)

	assert.Equal(t, Folder{ServerId: "1", ParentId: "0", DisplayName: "Inbox", Type: FolderInbox}, result.Changes.Add[0])
	assert.Equal(t, Folder{ServerId: "2", ParentId: "0", DisplayName: "Sent Items", Type: FolderSent}, result.Changes.Add[1])
	assert.Equal(t, Folder{ServerId: "3", ParentId: "0", DisplayName: "Deleted Items", Type: FolderTrash}, result.Changes.Add[2])
	assert.Equal(t, Folder{ServerId: "4", ParentId: "1", DisplayName: "Receipts", Type: FolderMail}, result.Changes.Add[3])
}

func TestParseFolderSyncDeleteAndUpdate(t *testing.T) {
	fixture := `<FolderSync><Status>1</Status><SyncKey>7</SyncKey><Changes><Count>2</Count><Update><ServerId>4</ServerId><ParentId>0</ParentId><DisplayName>Archive</DisplayName><Type>1</Type></Update><Delete><ServerId>9</ServerId></Delete></Changes></FolderSync>`
	resp := &Response{Cmd: CmdFolderSync, StatusCode: 200, Body: []byte(fixture)}
	result, err := ParseFolderSync(resp)
	require.NoError(t, err)

	require.Len(t, result.Changes.Update, 1)
	assert.Equal(t, "Archive", result.Changes.Update[0].DisplayName)
	require.Len(t, result.Changes.Delete, 1)
	assert.Equal(t, "9", result.Changes.Delete[0].ServerId)
}

func TestParseFolderSyncTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("가", 300)
	fixture := `<FolderSync><Status>1</Status><SyncKey>1</SyncKey><Changes><Count>1</Count><Add><ServerId>1</ServerId><ParentId>0</ParentId><DisplayName>` + long + `</DisplayName><Type>1</Type></Add></Changes></FolderSync>`
	resp := &Response{Cmd: CmdFolderSync, StatusCode: 200, Body: []byte(fixture)}
	result, err := ParseFolderSync(resp)
	require.NoError(t, err)

	assert.Equal(t, 256, len([]rune(result.Changes.Add[0].DisplayName)))
}

func TestFolderTypeString(t *testing.T) {
	assert.Equal(t, "Inbox", FolderInbox.String())
	assert.Equal(t, "Sent", FolderSent.String())
	assert.Equal(t, "Unknown", FolderType(99).String())
}
