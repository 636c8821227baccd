// Package extserv talks to the out-of-process analyzer sidecar. Сбой
// сервиса деградирует до «нет внешних диагностик» и попадает в лог.
package extserv

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"beamlint/internal/source"
)

// Format selects the location encoding the sidecar should reply with.
type Format string

// FormatOffset requests byte-offset locations.
const FormatOffset Format = "offset"

// Request identifies one file to analyze.
type Request struct {
	FileID uint32 `msgpack:"file_id"`
	Path   string `msgpack:"path"`
	Text   []byte `msgpack:"text"`
	Format Format `msgpack:"format"`
}

// TextRange is a byte range in the analyzed file.
type TextRange struct {
	Start uint32 `msgpack:"start"`
	End   uint32 `msgpack:"end"`
}

// StartLocation is a line/column pair without an end.
type StartLocation struct {
	Line   uint32 `msgpack:"line"`
	Column uint32 `msgpack:"column"`
}

// Location is the reported position of a parse error. Exactly one of the
// fields is set; все nil означает «позиция неизвестна».
type Location struct {
	Range *TextRange     `msgpack:"range,omitempty"`
	Start *StartLocation `msgpack:"start,omitempty"`
	// Included redirects the error into a file included at the directive.
	Included *IncludedLocation `msgpack:"included,omitempty"`
}

// IncludedLocation points at an include directive and the error inside
// the included file.
type IncludedLocation struct {
	DirectiveLocation TextRange `msgpack:"directive_location"`
	ErrorLocation     TextRange `msgpack:"error_location"`
}

// ParseError is one error or warning reported by the sidecar.
type ParseError struct {
	Code     string    `msgpack:"code"`
	Msg      string    `msgpack:"msg"`
	Location *Location `msgpack:"location,omitempty"`
}

// Response carries the sidecar verdict for one request.
type Response struct {
	Errors   []ParseError `msgpack:"errors"`
	Warnings []ParseError `msgpack:"warnings"`
}

// Transport delivers one request and returns the sidecar response.
type Transport interface {
	RoundTrip(req Request) (Response, error)
}

// Client wraps a transport with the error-to-empty fallback policy.
// Повторных попыток нет.
type Client struct {
	transport Transport
	logf      func(format string, args ...any)
}

// NewClient creates a client. logf may be nil to discard logs.
func NewClient(transport Transport, logf func(format string, args ...any)) *Client {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Client{transport: transport, logf: logf}
}

// Analyze requests diagnostics for one file. On transport failure the
// result is empty and the failure is logged.
func (c *Client) Analyze(id source.FileID, path string, text []byte) Response {
	if c == nil || c.transport == nil {
		return Response{}
	}
	resp, err := c.transport.RoundTrip(Request{
		FileID: uint32(id),
		Path:   path,
		Text:   text,
		Format: FormatOffset,
	})
	if err != nil {
		c.logf("extserv: analyze %s failed: %v", path, err)
		return Response{}
	}
	return resp
}

// WireTransport frames msgpack-encoded requests over a byte stream with
// 4-byte big-endian length prefixes. Подходит для stdio сайдкара.
type WireTransport struct {
	mu sync.Mutex
	rw io.ReadWriter
}

// NewWireTransport wraps a connected stream.
func NewWireTransport(rw io.ReadWriter) *WireTransport {
	return &WireTransport{rw: rw}
}

// RoundTrip writes one frame and reads one frame back.
func (t *WireTransport) RoundTrip(req Request) (Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	payload, err := msgpack.Marshal(&req)
	if err != nil {
		return Response{}, fmt.Errorf("extserv: encode request: %w", err)
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := t.rw.Write(header[:]); err != nil {
		return Response{}, fmt.Errorf("extserv: write header: %w", err)
	}
	if _, err := t.rw.Write(payload); err != nil {
		return Response{}, fmt.Errorf("extserv: write payload: %w", err)
	}

	if _, err := io.ReadFull(t.rw, header[:]); err != nil {
		return Response{}, fmt.Errorf("extserv: read header: %w", err)
	}
	size := binary.BigEndian.Uint32(header[:])
	const maxFrame = 64 << 20
	if size > maxFrame {
		return Response{}, fmt.Errorf("extserv: response frame too large: %d", size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(t.rw, buf); err != nil {
		return Response{}, fmt.Errorf("extserv: read payload: %w", err)
	}
	var resp Response
	if err := msgpack.Unmarshal(buf, &resp); err != nil {
		return Response{}, fmt.Errorf("extserv: decode response: %w", err)
	}
	return resp, nil
}
