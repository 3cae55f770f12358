// cmd/preflight/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hamed0406/sitecheck/internal/config"
	"github.com/hamed0406/sitecheck/internal/probe"
)

func main() {
	path := flag.String("c", "", "configuration file to validate")
	flag.Parse()
	os.Exit(preflight(*path, os.Stdout, os.Stderr))
}

// preflight validates configuration and environment without probing anything.
func preflight(path string, stdout, stderr io.Writer) int {
	failed := false
	fail := func(msg string) {
		fmt.Fprintln(stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	if path == "" {
		fail("no config file given (-c <configfile>)")
		return 1
	}

	rc, err := config.LoadFile(path)
	if err != nil {
		fail(err.Error())
		return 1
	}
	ok(fmt.Sprintf("interval=%ds", rc.IntervalSeconds))

	if len(rc.Sites) == 0 && len(rc.TCPHosts) == 0 {
		warn("no sites and no tcp hosts; sitecheck will exit with nothing to check")
	} else {
		ok(fmt.Sprintf("%d site(s), %d tcp host(s)", len(rc.Sites), len(rc.TCPHosts)))
	}

	for _, h := range rc.TCPHosts {
		host, port := probe.SplitTarget(h)
		if _, err := probe.ParsePort(port); err != nil {
			fail(fmt.Sprintf("tcp host %q: %v (it will always be reported DOWN)", h, err))
			continue
		}
		if host == "" {
			fail(fmt.Sprintf("tcp host %q has no host part", h))
		}
	}

	if rc.NotificationEndpoint == "" {
		warn("no notification endpoint; transitions will only be logged")
	} else {
		ok("notification endpoint present")
	}
	if rc.Identifier == "" {
		warn("identifier is empty; messages will start with ':'")
	}

	env := config.FromEnv()
	ok("LOG_DIR=" + env.LogDir)
	if env.StatusAddr == "" {
		warn("STATUS_ADDR empty; status API disabled")
	} else {
		ok("STATUS_ADDR=" + env.StatusAddr)
		if len(env.APIKeys) == 0 {
			warn("API_KEYS empty; status API is open to anyone who can reach it")
		}
	}
	for _, k := range env.APIKeys {
		if strings.Contains(k, " ") {
			warn("API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
			break
		}
	}

	if failed {
		return 1
	}
	ok("preflight passed")
	return 0
}
