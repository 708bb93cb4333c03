// Package debug holds process-wide debug switches, set from the
// environment at startup: YK_DEBUG_SCAN, YK_DEBUG_PARSE,
// YK_DEBUG_COMPOSE, YK_DEBUG_EMIT.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Scan    bool
	Parse   bool
	Compose bool
	Emit    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Scan = boolEnv("YK_DEBUG_SCAN")
	d.Parse = boolEnv("YK_DEBUG_PARSE")
	d.Compose = boolEnv("YK_DEBUG_COMPOSE")
	d.Emit = boolEnv("YK_DEBUG_EMIT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Scan() bool {
	return d.Scan
}
func Parse() bool {
	return d.Parse
}
func Compose() bool {
	return d.Compose
}
func Emit() bool {
	return d.Emit
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
