package main

import "flag"

// Board and lobby defaults. Only the listen address can be overridden, via
// the -addr flag parsed by LoadConfig; the board and room constants are
// fixed at compile time. Mirrors the dedicated-config-file shape of a bot-hoster style config,
// adapted here to the listener itself rather than a remote bot client.
const (
	defaultListenAddr = "0.0.0.0:1922"

	boardWidth   = 11
	boardHeight  = 11
	initialWalls = 5

	soloRoomCapacity   = 1
	versusRoomCapacity = 2

	maxUsernameRunes = 10
)

// Config holds the runtime-tunable knobs for the listener.
type Config struct {
	ListenAddr string
}

// LoadConfig parses flags (if any) and returns the effective configuration.
// Called once from main.go at the module root.
func LoadConfig() *Config {
	addr := flag.String("addr", defaultListenAddr, "TCP address to listen on")
	flag.Parse()
	return &Config{ListenAddr: *addr}
}
