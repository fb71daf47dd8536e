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
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/superkkt/alpha/activesync"
	"github.com/superkkt/alpha/autodiscover"
	"github.com/superkkt/alpha/cert"

	"github.com/pkg/profile"
	"github.com/superkkt/logger"
	"golang.org/x/net/context"
)

const (
	programVersion = "0.1.0"
	programName    = "alpha"
)

var (
	showVersion = flag.Bool("version", false, "show program version and exit")
	profileMode = flag.String("profile.mode", "", "enable profiling mode, one of [cpu, mem, block]")
	profiler    interface {
		Stop()
	}
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %v [flags] <command> [args]\n\n", programName)
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  probe                              show supported protocol versions and commands\n")
	fmt.Fprintf(os.Stderr, "  foldersync                         fetch the full folder hierarchy\n")
	fmt.Fprintf(os.Stderr, "  sendmail <to> <subject> <body>     submit an email\n")
	fmt.Fprintf(os.Stderr, "  settings                           push the configured device information\n")
	fmt.Fprintf(os.Stderr, "  provision                          enroll the device and print its policy key\n")
	fmt.Fprintf(os.Stderr, "  autodiscover <email>               resolve the ActiveSync endpoint\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
}

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("%v (Version: %v)\n", programName, programVersion)
		os.Exit(0)
	}
	if *profileMode != "" {
		switch strings.ToUpper(*profileMode) {
		case "CPU":
			profiler = profile.Start(profile.CPUProfile)
		case "MEM":
			profiler = profile.Start(profile.MemProfile)
		case "BLOCK":
			profiler = profile.Start(profile.BlockProfile)
		default:
			logger.Fatal("profile.mode should be one of [cpu, mem, block]")
		}
	}
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	config := new(Config)
	if err := config.Read(*defaultConfigFile); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to read configurations: %v", err))
	}
	initLogger(config)

	ctx, cancel := context.WithCancel(context.Background())
	go signalHandler(cancel)

	if err := run(ctx, config, flag.Args()); err != nil {
		logger.Fatal(fmt.Sprintf("%v failed: %v", flag.Arg(0), err))
	}
	if *profileMode != "" {
		profiler.Stop()
	}
}

// run maps the command line 1:1 onto the client facade. No protocol logic
// lives at this boundary.
func run(ctx context.Context, config *Config, args []string) error {
	conf := activesync.Config{
		Endpoint: config.Endpoint,
		Timeout:  config.Timeout,
	}
	if config.TLS.CertFile != "" {
		loader, err := cert.NewLoader(config.TLS.CertFile, config.TLS.KeyFile)
		if err != nil {
			return fmt.Errorf("failed to load the certification: %v", err)
		}
		conf.Cert = loader
	}
	client, err := activesync.NewClient(conf)
	if err != nil {
		return err
	}

	switch strings.ToLower(args[0]) {
	case "probe":
		header, err := client.ProbeCapabilities(ctx, config.Credential)
		if err != nil {
			return err
		}
		fmt.Printf("Versions: %v\n", header.Get("MS-ASProtocolVersions"))
		fmt.Printf("Commands: %v\n", header.Get("MS-ASProtocolCommands"))
	case "foldersync":
		result, err := client.SyncFolders(ctx, config.Credential, config.Device)
		if err != nil {
			return err
		}
		printFolders(result)
	case "sendmail":
		if len(args) != 4 {
			return fmt.Errorf("usage: %v sendmail <to> <subject> <body>", programName)
		}
		msg := activesync.OutgoingMessage{
			From:            config.Credential.Principal(),
			To:              args[1],
			Subject:         args[2],
			HTMLBody:        args[3],
			SaveInSentItems: true,
		}
		id, err := client.SendMessage(ctx, config.Credential, config.Device, msg, activesync.SendOptions{
			AutoProvision: true,
			Settings:      config.Settings,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Sent: MessageId=%v\n", id)
	case "settings":
		resp, err := client.UpdateDeviceSettings(ctx, config.Credential, config.Device, config.Settings)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", resp.Body)
	case "provision":
		key, err := client.EnrollDevice(ctx, config.Credential, config.Device, config.Settings)
		if err != nil {
			return err
		}
		fmt.Printf("PolicyKey: %v\n", key)
	case "autodiscover":
		if len(args) != 2 {
			return fmt.Errorf("usage: %v autodiscover <email>", programName)
		}
		authorization, err := config.Credential.Authorization()
		if err != nil {
			return err
		}
		u, err := autodiscover.NewResolver(config.Timeout).Resolve(ctx, args[1], authorization)
		if err != nil {
			return err
		}
		fmt.Printf("Endpoint: %v\n", u)
	default:
		return fmt.Errorf("unknown command: %v", args[0])
	}

	return nil
}

func printFolders(result *activesync.FolderSyncResult) {
	fmt.Printf("Status: %v, SyncKey: %v\n", result.Status, result.SyncKey)
	if result.Changes == nil {
		return
	}
	for _, v := range result.Changes.Add {
		fmt.Printf("%v\t%v\t(parent=%v, type=%v)\n", v.ServerId, v.DisplayName, v.ParentId, v.Type)
	}
}

func signalHandler(shutdown context.CancelFunc) {
	c := make(chan os.Signal, 5)
	// Following signals will be transferred to the channel c.
	signal.Notify(c, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP, syscall.SIGPIPE)

	for {
		s := <-c
		switch s {
		case syscall.SIGTERM, syscall.SIGINT:
			logger.Info("Shutting down...")
			shutdown()
		default:
			logger.Warning(fmt.Sprintf("Received %v signal!", s))
		}
	}
}

func initLogger(conf *Config) {
	logger.SetLogger(log.New(os.Stderr, "", log.LstdFlags))
	logger.SetLogLevel(conf.LogLevel)
	logger.SetPrefix(func() string {
		return fmt.Sprintf("TID=%v, ", getGoRoutineID())
	})
}

func getGoRoutineID() string {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))[0]
}
