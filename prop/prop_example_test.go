// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prop

import (
	"fmt"
	"os"
	"strings"
)

func ExampleRead() {
	props, err := Read(
		FromYaml(strings.NewReader("server:\n  port: 8080")),
		Map{"server.PORT": 9090},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	p, ok := props.Lookup(MustParseName("server.port"))
	if !ok {
		fmt.Println("not found")
		return
	}

	fmt.Println(p.Value)
	fmt.Println(p.Origin)
	// Output: 9090
	// map
}

func ExampleParseName() {
	name, err := ParseName("Server.MAX_SIZE")
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(name)
	fmt.Println(name.Canonical())
	// Output: Server.MAX_SIZE
	// server.maxsize
}

func ExampleFromEnvPrefix() {
	os.Setenv("MYAPP_SERVER_HOSTS_0_PORT", "8080")

	props, err := Read(FromEnvPrefix("MYAPP_"))
	if err != nil {
		fmt.Println(err)
		return
	}

	p, ok := props.Lookup(MustParseName("server.hosts[0].port"))
	if !ok {
		fmt.Println("not found")
		return
	}

	fmt.Println(p.Name, "=", p.Value)
	// Output: server.hosts[0].port = 8080
}
