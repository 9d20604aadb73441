package main

import (
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg := LoadConfig()
	state := NewServerState()

	state.Lock()
	state.AddRoom(versusRoomCapacity)
	state.AddRoom(versusRoomCapacity)
	state.Unlock()

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatalf("listen on %s: %v", cfg.ListenAddr, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down, closing listener")
		listener.Close()
	}()

	log.Printf("trap-the-mouse server listening on %s", cfg.ListenAddr)
	acceptLoop(state, listener)
}

// acceptLoop accepts connections, registers each one in the shared state
// before spawning its handler, and returns once the listener is closed
// (normal shutdown path).
func acceptLoop(state *ServerState, listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Printf("accept: %v", err)
			return
		}

		codec := NewCodec(conn)

		state.Lock()
		user := state.AddUser(codec)
		state.Unlock()

		go func() {
			defer conn.Close()
			HandleConnection(state, codec, user.ID)
		}()
	}
}
