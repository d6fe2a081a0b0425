// main.go - Command line front end for the zerocoin engine.
//
// Usage:
//
//	zerocoin params generate --out params.json
//	zerocoin params validate --params params.json
//	zerocoin mint --denomination lovelace --count 4
//	zerocoin demo --snark
//
// Settings come from a JSON config file (created with defaults on first run), overridden by
// ZEROCOIN_* environment variables and then by flags.

package main

import "zerocoin/cmd/zerocoin/cmd"

func main() {
	cmd.Execute()
}
