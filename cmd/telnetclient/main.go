package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHost = "localhost"
	defaultPort = 2540

	stopWord   = "stop"
	replyLines = 20
)

func main() {
	host, port, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "usage: telnetclient [host] [port]")
		os.Exit(2)
	}

	fmt.Println("MyTelnet Client, 1.0.")
	fmt.Println()
	fmt.Printf("Using server: %s, Port: %d\n", host, port)

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), 10*time.Second)
	if err != nil {
		log.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	if err := session(os.Stdin, os.Stdout, conn); err != nil {
		log.Fatalf("session error: %v", err)
	}
}

func parseArgs(args []string) (string, int, error) {
	host, port := defaultHost, defaultPort
	if len(args) > 0 {
		host = args[0]
	}
	if len(args) > 1 {
		p, err := strconv.Atoi(args[1])
		if err != nil || p <= 0 || p > 65535 {
			return "", 0, fmt.Errorf("invalid port %q", args[1])
		}
		port = p
	}
	return host, port, nil
}

// session forwards input lines until one mentions the stop word, then prints
// up to replyLines lines of whatever the server sent back.
func session(in io.Reader, out io.Writer, conn io.ReadWriter) error {
	input := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter text to send to the server, <stop> to end: ")
		if !input.Scan() {
			break
		}
		line := input.Text()
		if strings.Contains(line, stopWord) {
			break
		}
		if _, err := fmt.Fprintf(conn, "%s\r\n", line); err != nil {
			return err
		}
	}
	if err := input.Err(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	reply := bufio.NewScanner(conn)
	for i := 0; i < replyLines && reply.Scan(); i++ {
		fmt.Fprintln(out, reply.Text())
	}
	return nil
}
