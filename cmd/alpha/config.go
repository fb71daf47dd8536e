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

package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/superkkt/alpha/activesync"
	"github.com/superkkt/alpha/auth"

	"github.com/dlintw/goconf"
	"github.com/superkkt/logger"
)

var (
	defaultConfigFile = flag.String("config", fmt.Sprintf("/usr/local/etc/%v.conf", programName), "absolute path of the configuration file")
)

type Config struct {
	LogLevel   logger.Level
	Endpoint   string
	Timeout    time.Duration
	Credential auth.Credential
	Device     activesync.Device
	Settings   activesync.DeviceSettings
	TLS        struct {
		CertFile string
		KeyFile  string
	}
}

func (r *Config) parseLogLevel(l string) error {
	switch strings.ToUpper(l) {
	case "DEBUG":
		r.LogLevel = logger.LevelDebug
	case "INFO":
		r.LogLevel = logger.LevelInfo
	case "WARNING":
		r.LogLevel = logger.LevelWarning
	case "ERROR":
		r.LogLevel = logger.LevelError
	case "FATAL":
		r.LogLevel = logger.LevelFatal
	default:
		return fmt.Errorf("invalid log level: %v", l)
	}

	return nil
}

func (r *Config) Read(configFile string) error {
	if len(configFile) == 0 {
		configFile = *defaultConfigFile
	}

	c, err := goconf.ReadConfigFile(configFile)
	if err != nil {
		return err
	}
	if err := r.readDefaultSection(c); err != nil {
		return err
	}
	if err := r.readCredentialSection(c); err != nil {
		return err
	}
	if err := r.readDeviceSection(c); err != nil {
		return err
	}
	if err := r.readTLSSection(c); err != nil {
		return err
	}
	r.readSettingsSection(c)

	return nil
}

// readTLSSection reads the optional client certificate used for
// certificate-based device authentication.
func (r *Config) readTLSSection(c *goconf.ConfigFile) error {
	r.TLS.CertFile, _ = c.GetString("tls", "cert_file")
	r.TLS.KeyFile, _ = c.GetString("tls", "key_file")
	if (len(r.TLS.CertFile) == 0) != (len(r.TLS.KeyFile) == 0) {
		return errors.New("tls/cert_file and tls/key_file should be specified together")
	}
	if len(r.TLS.CertFile) > 0 && r.TLS.CertFile[0] != '/' {
		return errors.New("tls/cert_file should be specified as an absolute path")
	}
	if len(r.TLS.KeyFile) > 0 && r.TLS.KeyFile[0] != '/' {
		return errors.New("tls/key_file should be specified as an absolute path")
	}

	return nil
}

func (r *Config) readDefaultSection(c *goconf.ConfigFile) error {
	logLevel, err := c.GetString("default", "log_level")
	if err != nil || len(logLevel) == 0 {
		return errors.New("invalid default/log_level in the config file")
	}
	if err := r.parseLogLevel(logLevel); err != nil {
		return err
	}

	r.Endpoint, err = c.GetString("default", "endpoint")
	if err != nil || len(r.Endpoint) == 0 {
		return errors.New("empty default/endpoint value")
	}

	// Timeout is optional. Zero means the library default.
	if timeout, err := c.GetInt("default", "timeout"); err == nil {
		if timeout <= 0 {
			return errors.New("invalid default/timeout value")
		}
		r.Timeout = time.Duration(timeout) * time.Second
	}

	return nil
}

func (r *Config) readCredentialSection(c *goconf.ConfigFile) error {
	username, _ := c.GetString("credential", "username")
	password, _ := c.GetString("credential", "password")
	token, _ := c.GetString("credential", "bearer_token")
	address, _ := c.GetString("credential", "address")

	// Exactly one credential variant should be configured.
	switch {
	case len(token) > 0:
		if len(username) > 0 || len(password) > 0 {
			return errors.New("credential/bearer_token and credential/username are mutually exclusive")
		}
		if len(address) == 0 {
			return errors.New("empty credential/address value (required with bearer_token)")
		}
		r.Credential = auth.Bearer{Address: address, Token: token}
	case len(username) > 0:
		if len(password) == 0 {
			return errors.New("empty credential/password value")
		}
		r.Credential = auth.Basic{Username: username, Secret: password}
	default:
		return errors.New("missing credential/username or credential/bearer_token value")
	}

	return nil
}

func (r *Config) readDeviceSection(c *goconf.ConfigFile) error {
	var err error

	r.Device.ID, err = c.GetString("device", "id")
	if err != nil || len(r.Device.ID) == 0 {
		return errors.New("empty device/id value")
	}

	r.Device.Type, err = c.GetString("device", "type")
	if err != nil || len(r.Device.Type) == 0 {
		return errors.New("empty device/type value")
	}

	// Optional.
	r.Device.UserAgent, _ = c.GetString("device", "user_agent")

	return nil
}

// readSettingsSection reads the optional device information. A key that is
// absent stays empty, which clears the attribute server-side.
func (r *Config) readSettingsSection(c *goconf.ConfigFile) {
	r.Settings.Model, _ = c.GetString("settings", "model")
	r.Settings.IMEI, _ = c.GetString("settings", "imei")
	r.Settings.FriendlyName, _ = c.GetString("settings", "friendly_name")
	r.Settings.OS, _ = c.GetString("settings", "os")
	r.Settings.OSLanguage, _ = c.GetString("settings", "os_language")
	r.Settings.PhoneNumber, _ = c.GetString("settings", "phone_number")
	r.Settings.MobileOperator, _ = c.GetString("settings", "mobile_operator")
	r.Settings.UserAgent, _ = c.GetString("settings", "user_agent")
}
