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

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/bfix/gospel/logger"
)

///////////////////////////////////////////////////////////////////////
// Node configuration

// Role names the forwarder's operating mode; it selects the Face
// Table's size bound (see NodeConfig.MaxFaces).
type Role string

// Known node roles.
const (
	RoleReceiver  Role = "receiver"
	RolePublisher Role = "publisher"
	RoleRouter    Role = "router"
)

// Default Face Table bounds per role.
const (
	MaxFacesReceiver  = 128
	MaxFacesPublisher = 256
	MaxFacesRouter    = 1024
)

// MaxFaces returns the compile-time Face Table bound for a role, or 0 if
// the role is unknown.
func (r Role) MaxFaces() uint16 {
	switch r {
	case RoleReceiver:
		return MaxFacesReceiver
	case RolePublisher:
		return MaxFacesPublisher
	case RoleRouter:
		return MaxFacesRouter
	default:
		return 0
	}
}

// NodeConfig describes the listening surface of a single forwarder node.
type NodeConfig struct {
	Role       Role   `json:"role"`
	UDPPort    uint16 `json:"udpPort"`
	TCPPort    uint16 `json:"tcpPort"`
	NdnPort    uint16 `json:"ndnPort"`
	LocalSock  string `json:"localSock"`  // path of the UNIX-domain socket
	LocalSType string `json:"localStype"` // "stream", "seqpacket" or "datagram"
}

///////////////////////////////////////////////////////////////////////

// Environ holds substitution variables for string fields in the config.
type Environ map[string]string

// Config is the aggregated configuration for a cefnetd-go instance.
type Config struct {
	Env  Environ     `json:"environ"`
	Node *NodeConfig `json:"node"`
}

// Cfg is the global, process-wide configuration instance.
var Cfg *Config

// ParseConfig reads a JSON-encoded configuration file and populates Cfg.
func ParseConfig(fileName string) (err error) {
	file, err := os.ReadFile(fileName)
	if err != nil {
		return
	}
	return ParseConfigBytes(file)
}

// ParseConfigBytes parses JSON-encoded configuration data into Cfg.
func ParseConfigBytes(data []byte) (err error) {
	Cfg = new(Config)
	if err = json.Unmarshal(data, Cfg); err != nil {
		return
	}
	if Cfg.Node == nil {
		return fmt.Errorf("config: missing 'node' section")
	}
	if Cfg.Node.Role.MaxFaces() == 0 {
		return fmt.Errorf("config: unknown node role %q", Cfg.Node.Role)
	}
	// process all string-based config settings and apply substitutions.
	applySubstitutions(Cfg, Cfg.Env)
	return nil
}

var rx = regexp.MustCompile(`\$\{([^\}]*)\}`)

// substString substitutes "${name}" references with values from env.
func substString(s string, env map[string]string) string {
	matches := rx.FindAllStringSubmatch(s, -1)
	for _, m := range matches {
		if len(m[1]) != 0 {
			subst, ok := env[m[1]]
			if !ok {
				continue
			}
			s = strings.ReplaceAll(s, "${"+m[1]+"}", subst)
		}
	}
	return s
}

// applySubstitutions traverses the configuration data structure and
// applies string substitutions to all string-valued fields.
func applySubstitutions(x interface{}, env map[string]string) {
	var process func(v reflect.Value)
	process = func(v reflect.Value) {
		for i := 0; i < v.NumField(); i++ {
			fld := v.Field(i)
			if !fld.CanSet() {
				continue
			}
			switch fld.Kind() {
			case reflect.String:
				s := fld.String()
				for {
					s1 := substString(s, env)
					if s1 == s {
						break
					}
					logger.Printf(logger.DBG, "[config] %s --> %s\n", s, s1)
					fld.SetString(s1)
					s = s1
				}

			case reflect.Struct:
				process(fld)

			case reflect.Ptr:
				e := fld.Elem()
				if e.IsValid() {
					process(fld.Elem())
				} else {
					logger.Printf(logger.ERROR, "[config] 'nil' pointer encountered")
				}
			}
		}
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Ptr:
		e := v.Elem()
		if e.IsValid() {
			process(e)
		} else {
			logger.Printf(logger.ERROR, "[config] 'nil' pointer encountered")
		}
	case reflect.Struct:
		process(v)
	}
}
