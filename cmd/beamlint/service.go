package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"beamlint/internal/extserv"
)

// sidecarStdio adapts a child process stdio pair to io.ReadWriter.
type sidecarStdio struct {
	io.Reader
	io.Writer
}

// startExternalService spawns the analyzer sidecar and returns a client
// speaking the msgpack wire protocol over its stdio.
func startExternalService(command string) (*extserv.Client, func(), error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, nil, fmt.Errorf("empty external service command")
	}
	cmd := exec.Command(parts[0], parts[1:]...) // #nosec G204 -- команда задаётся оператором
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	transport := extserv.NewWireTransport(sidecarStdio{Reader: stdout, Writer: stdin})
	client := extserv.NewClient(transport, func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})
	stop := func() {
		_ = stdin.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
	return client, stop, nil
}
