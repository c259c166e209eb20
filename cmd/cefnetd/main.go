// This file is part of cefnetd-go, a CEFORE-style ICN forwarder daemon.
// Copyright (C) 2019, 2020 Bernd Fix  >Y<
//
// cefnetd-go is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// cefnetd-go is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

package main

import (
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bfix/gospel/logger"

	"cefnetd-go/config"
	"cefnetd-go/face"
)

// tcpAccepted carries a freshly accepted TCP connection from one of the
// per-listener accept goroutines to the single serialized main loop,
// which is the only caller allowed to mutate the Face Manager. The
// Manager itself holds no locks (spec's single-threaded design note);
// this channel is what keeps that true once real concurrency enters
// the picture through net.Listener.Accept blocking in its own goroutine.
type tcpAccepted struct {
	listenFace face.FaceID
	conn       net.Conn
}

func main() {
	defer func() {
		logger.Println(logger.INFO, "[cefnetd] Bye.")
		logger.Flush()
	}()
	logger.Println(logger.INFO, "[cefnetd] Starting forwarder...")

	var (
		cfgFile  string
		logLevel int
	)
	flag.StringVar(&cfgFile, "c", "cefnetd.json", "cefnetd configuration file")
	flag.IntVar(&logLevel, "L", logger.INFO, "log level (default: INFO)")
	flag.Parse()

	if err := config.ParseConfig(cfgFile); err != nil {
		logger.Printf(logger.ERROR, "[cefnetd] invalid configuration file: %s\n", err.Error())
		return
	}
	logger.SetLogLevel(logLevel)

	m := face.NewManager()
	if err := m.Initialize(config.Cfg.Node); err != nil {
		logger.Printf(logger.ERROR, "[cefnetd] initialize failed: %s\n", err.Error())
		return
	}
	defer m.CloseAll()

	accepted := make(chan tcpAccepted, 8)
	node := config.Cfg.Node

	if _, err := m.CreateUdpListener(node.UDPPort); err != nil {
		logger.Printf(logger.ERROR, "[cefnetd] udp listener failed: %s\n", err.Error())
	}
	if node.NdnPort != 0 {
		if _, err := m.CreateNdnListener(node.NdnPort); err != nil {
			logger.Printf(logger.ERROR, "[cefnetd] ndn listener failed: %s\n", err.Error())
		}
	}
	if _, err := m.CreateTcpListener(node.TCPPort); err != nil {
		logger.Printf(logger.ERROR, "[cefnetd] tcp listener failed: %s\n", err.Error())
	} else {
		for _, lf := range []face.FaceID{face.ListenTcpV4, face.ListenTcpV6} {
			if ln, ok := m.Listener(lf); ok {
				go acceptLoop(lf, ln, accepted)
			}
		}
	}
	if node.LocalSock != "" {
		if _, err := m.CreateLocalListener(node.LocalSock, node.LocalSType); err != nil {
			logger.Printf(logger.ERROR, "[cefnetd] local listener failed: %s\n", err.Error())
		}
	}

	sigCh := make(chan os.Signal, 5)
	signal.Notify(sigCh)

	tick := time.NewTicker(5 * time.Minute)
	defer tick.Stop()

loop:
	for {
		select {
		case a := <-accepted:
			id, err := m.RegisterTcpConn(a.conn)
			if err != nil {
				logger.Printf(logger.WARN, "[cefnetd] accept on %s failed: %s\n", a.listenFace, err.Error())
				continue
			}
			logger.Printf(logger.INFO, "[cefnetd] accepted #%s on %s\n", id, a.listenFace)

		case sig := <-sigCh:
			switch sig {
			case syscall.SIGKILL, syscall.SIGINT, syscall.SIGTERM:
				logger.Printf(logger.INFO, "[cefnetd] terminating service (on signal '%s')\n", sig)
				break loop
			case syscall.SIGHUP:
				logger.Println(logger.INFO, "[cefnetd] SIGHUP")
			default:
				logger.Println(logger.INFO, "[cefnetd] unhandled signal: "+sig.String())
			}

		case now := <-tick.C:
			logger.Println(logger.INFO, "[cefnetd] heart beat at "+now.String())
		}
	}
}

// acceptLoop runs the blocking OS-level accept for one TCP listen face
// in its own goroutine and hands each connection to the main loop over
// a channel; it never touches Manager state itself.
func acceptLoop(lf face.FaceID, ln net.Listener, out chan<- tcpAccepted) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			logger.Printf(logger.WARN, "[cefnetd] accept loop on %s stopped: %s\n", lf, err.Error())
			return
		}
		out <- tcpAccepted{listenFace: lf, conn: conn}
	}
}
