// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/z5labs/loam"
	"github.com/z5labs/loam/condition"
	"github.com/z5labs/loam/prop"
)

const config = `
cache:
  redis:
    addr: localhost:6379
  mem:
    max-entries: 1024
`

type redisCache struct {
	Addr string
}

type memCache struct {
	MaxEntries int
}

type cacheConfig struct {
	Redis *redisCache
	Mem   *memCache
}

func main() {
	cfg, err := loam.Bind[cacheConfig](
		"cache",
		prop.FromYaml(strings.NewReader(config)),
	)
	if err != nil {
		log.Fatal(err)
	}

	// Register whatever the configuration enabled, then let a
	// presence predicate pick the cache the rest of the system uses.
	reg := condition.NewRegistry()
	if cfg.Redis != nil {
		err = reg.Register(condition.Component{
			Name:    "redis",
			Type:    reflect.TypeFor[*redisCache](),
			Primary: true,
		})
		if err != nil {
			log.Fatal(err)
		}
	}
	if cfg.Mem != nil {
		err = reg.Register(condition.Component{
			Name: "mem",
			Type: reflect.TypeFor[*memCache](),
		})
		if err != nil {
			log.Fatal(err)
		}
	}

	outcome, err := condition.OnSingleCandidate(reg, condition.Predicate{
		Types: []reflect.Type{reflect.TypeFor[any]()},
	})
	if err != nil {
		log.Fatal(err)
	}
	if !outcome.Matched {
		log.Fatal(outcome.Reason)
	}

	fmt.Println(outcome.Reason)
}
