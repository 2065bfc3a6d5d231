package main

import (
	"fmt"
	"net"
	"os"
	"sort"
	"time"

	"httpfromtcp/internal/request"
	"httpfromtcp/internal/streambuf"
)

const port = ":42069"

func main() {
	tcp, err := net.Listen("tcp", port)
	if err != nil {
		fmt.Println("ERROR: failed to open.\n", err.Error())
		os.Exit(1)
	}
	defer tcp.Close()

	fmt.Println("Listening for TCP traffic on", port)
	for {
		conn, err := tcp.Accept()
		if err != nil {
			fmt.Println("ERROR: failed to accept.\n", err)
			continue
		}
		go handleConn(conn)
	}
}

func handleConn(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second)) // optional safety

	buf := streambuf.New()
	stream := streambuf.NewFDStream(conn)

	unit, err := request.ParseHead(stream, buf)
	if err != nil {
		fmt.Println("ERROR: failed to parse request:", err)
		return
	}

	fmt.Printf("Request line:\n- Method: %s\n- Target: %s\n- Version: %s\n",
		unit.RequestLine.Method, unit.RequestLine.Path, unit.RequestLine.HTTPVersion)

	fmt.Println("Headers:")
	pairs := unit.Headers.Pairs()
	if len(pairs) == 0 {
		fmt.Println("- (none)")
	} else {
		names := make([]string, len(pairs))
		for i, p := range pairs {
			names[i] = p.Name
		}
		sort.Strings(names)
		for _, n := range names {
			v, _ := unit.Headers.Get(n)
			fmt.Printf("- %s: %s\n", n, v)
		}
	}

	body, err := unit.BodyStream(false)
	if err != nil {
		fmt.Println("ERROR: failed to frame body:", err)
		return
	}
	materialized, err := request.MaterializeBody(body, -1)
	if err != nil {
		fmt.Println("ERROR: failed to read body:", err)
		return
	}

	fmt.Println("Body:")
	if len(materialized) == 0 {
		fmt.Println("- (none)")
	} else {
		fmt.Println(string(materialized))
	}

	resp := "HTTP/1.1 200 OK\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Length: 2\r\n" +
		"Connection: close\r\n" +
		"\r\n" +
		"OK"
	_, _ = conn.Write([]byte(resp))
}
