// Command statsdc reads metric commands from standard input and forwards
// them to a statsd server. Grounded on
// statsdmetrics/app/statsdclient.py's StatsdClient.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/farzadghanei/statsd-metrics/statsd"
)

const version = "0.1.0"

const usage = `statsdc version %s

Usage: statsdc [options] [host][:port]

Sends metrics to a statsd server on host (default=localhost) and port
(default=%d).

Metrics are read from standard input, one per line:

    method metric_name [value] [sample_rate]

Supported methods are: increment, decrement, timing, gauge, gauge_delta, set

Example:

    timing db.search.username 3500
    increment login
    decrement connections 2 0.6
    gauge_delta memory -256

Options:
`

// exit codes, matching the BSD sysexits.h values the original reaches for
// via os.EX_OK / os.EX_CONFIG.
const (
	exOK     = 0
	exConfig = 78
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr *os.File) int {
	flags := pflag.NewFlagSet("statsdc", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	showVersion := flags.BoolP("version", "v", false, "show app version")
	prefix := flags.String("prefix", "", "prefix for all metric names")
	flags.Usage = func() {
		fmt.Fprintf(stderr, usage, version, statsd.DefaultPort)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return exOK
		}
		fmt.Fprintf(stderr, "invalid options. %v. see help by -h or --help\n", err)
		return exConfig
	}
	if *showVersion {
		fmt.Fprintln(stdout, version)
		return exOK
	}

	host, port := serverAddress(flags.Args())
	client, err := statsd.NewClient(host, port, *prefix)
	if err != nil {
		fmt.Fprintf(stderr, "cannot create client: %v\n", err)
		return exConfig
	}
	defer client.Close()

	dispatch(client, stdin, stdout, stderr)
	return exOK
}

func serverAddress(args []string) (string, int) {
	host := "localhost"
	port := statsd.DefaultPort
	if len(args) == 0 {
		return host, port
	}
	addr := args[0]
	if h, p, found := strings.Cut(addr, ":"); found {
		if h != "" {
			host = h
		}
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	} else {
		host = addr
	}
	return host, port
}

// parseCount reads the optional count argument to increment/decrement,
// defaulting to 1 when the line omits it (e.g. "increment login").
func parseCount(value string) (int64, error) {
	if value == "" {
		return 1, nil
	}
	return strconv.ParseInt(value, 10, 64)
}

var clientMethods = map[string]func(c *statsd.Client, name string, value string, rate float64) error{
	"increment": func(c *statsd.Client, name, value string, rate float64) error {
		n, err := parseCount(value)
		if err != nil {
			return err
		}
		return c.Count(name, n, rate)
	},
	"decrement": func(c *statsd.Client, name, value string, rate float64) error {
		n, err := parseCount(value)
		if err != nil {
			return err
		}
		return c.Count(name, -n, rate)
	},
	"timing": func(c *statsd.Client, name, value string, rate float64) error {
		ms, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		return c.Timing(name, ms, rate)
	},
	"gauge": func(c *statsd.Client, name, value string, rate float64) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		return c.Gauge(name, v, rate)
	},
	"gauge_delta": func(c *statsd.Client, name, value string, rate float64) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		return c.GaugeDelta(name, v, rate)
	},
	"set": func(c *statsd.Client, name, value string, rate float64) error {
		return c.Set(name, value, rate)
	},
}

// parseLine splits a "method name [value] [rate]" input line into its
// metric name, optional value, and sample rate (defaulting to 1).
func parseLine(tokens []string) (name, value string, rate float64) {
	rate = 1.0
	name = tokens[0]
	if len(tokens) > 1 {
		value = tokens[1]
	}
	if len(tokens) > 2 {
		if r, err := strconv.ParseFloat(tokens[2], 64); err == nil {
			rate = r
		}
	}
	return name, value, rate
}

func dispatch(client *statsd.Client, stdin *os.File, stdout, stderr *os.File) {
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			fmt.Fprintf(stderr, "ignoring invalid input: %q\n", line)
			continue
		}
		methodName, tokens := tokens[0], tokens[1:]
		method, ok := clientMethods[methodName]
		if !ok {
			fmt.Fprintf(stderr, "ignoring invalid method %q\n", methodName)
			continue
		}
		name, value, rate := parseLine(tokens)
		if err := method(client, name, value, rate); err != nil {
			fmt.Fprintf(stderr, "error sending metric: %v\n", err)
			continue
		}
		fmt.Fprint(stdout, ".")
	}
}
