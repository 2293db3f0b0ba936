// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/z5labs/loam"
	"github.com/z5labs/loam/prop"
)

const config = `
server:
  http:
    host: 0.0.0.0
    port: 8080
    read-timeout: 30s
`

type httpConfig struct {
	Host        string
	Port        int
	ReadTimeout time.Duration
}

func main() {
	// Environment variables override the file, so
	// SIMPLE_SERVER_HTTP_PORT=9090 changes the port.
	cfg, err := loam.Bind[httpConfig](
		"server.http",
		prop.FromYaml(strings.NewReader(config)),
		prop.FromEnvPrefix("SIMPLE_"),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("listening on %s:%d (read timeout %s)\n", cfg.Host, cfg.Port, cfg.ReadTimeout)
}
