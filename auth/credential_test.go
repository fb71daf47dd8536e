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

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicAuthorization(t *testing.T) {
	c := Basic{Username: "user@example.com", Secret: "hunter2"}
	v, err := c.Authorization()
	require.NoError(t, err)

	// base64("user@example.com:hunter2")
	assert.Equal(t, "Basic dXNlckBleGFtcGxlLmNvbTpodW50ZXIy", v)
	assert.Equal(t, "user@example.com", c.Principal())
}

func TestBasicValidation(t *testing.T) {
	_, err := Basic{Secret: "x"}.Authorization()
	assert.Error(t, err)

	_, err = Basic{Username: "u@example.com"}.Authorization()
	assert.Error(t, err)
}

func TestBearerAuthorization(t *testing.T) {
	c := Bearer{Address: "user@example.com", Token: "eyJ0eXAiOiJKV1QifQ"}
	v, err := c.Authorization()
	require.NoError(t, err)

	assert.Equal(t, "Bearer eyJ0eXAiOiJKV1QifQ", v)
	assert.Equal(t, "user@example.com", c.Principal())
}

func TestBearerValidation(t *testing.T) {
	_, err := Bearer{Address: "user@example.com"}.Authorization()
	assert.Error(t, err)
}
