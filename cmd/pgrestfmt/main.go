// Command pgrestfmt reads one JSON-encoded translate request per line from
// stdin and writes one JSON-encoded result per line to stdout: either the
// generated {query, params, tables} or {error}. It exists to exercise
// restsql.ParseRequest from the command line without standing up an HTTP
// server, which is out of this module's scope.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/relaysql/pgrestsql/metrics"
	"github.com/relaysql/pgrestsql/parser"
	"github.com/relaysql/pgrestsql/restsql"
	"github.com/relaysql/pgrestsql/slog"
	"github.com/relaysql/pgrestsql/tracing"
)

// inputLine is one line of the NDJSON request stream.
type inputLine struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	QueryString string            `json:"query"`
	Body        json.RawMessage   `json:"body"`
	Headers     map[string]string `json:"headers"`
	TraceID     string            `json:"trace_id"`
}

// outputLine is one line of the NDJSON result stream.
type outputLine struct {
	Query  string   `json:"query,omitempty"`
	Params []any    `json:"params,omitempty"`
	Tables []string `json:"tables,omitempty"`
	Error  string   `json:"error,omitempty"`
}

func main() {
	cfg, err := restsql.LoadConfig("PGRESTFMT")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.MetricsRegistry = prometheus.NewRegistry()

	if err := restsql.Configure(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	metrics.SampleBuildInfo()

	if err := run(os.Stdin, os.Stdout); err != nil {
		slog.Error("pgrestfmt failed", "err", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	writer := bufio.NewWriter(out)
	defer writer.Flush()

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		result := translateLine(lineNo, line)

		enc := json.NewEncoder(writer)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("line %d: encode result: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func translateLine(lineNo int, line []byte) outputLine {
	var in inputLine
	if err := json.Unmarshal(line, &in); err != nil {
		return outputLine{Error: fmt.Sprintf("line %d: invalid JSON: %v", lineNo, err)}
	}

	ctx := tracing.InstrumentCall(context.Background(), in.TraceID)
	log := slog.FromCtx(ctx).With("line", strconv.Itoa(lineNo))

	req := restsql.Request{
		Method:      in.Method,
		Path:        in.Path,
		QueryString: in.QueryString,
		Body:        in.Body,
		Headers:     parser.NewHeaders(in.Headers),
	}

	res, err := restsql.ParseRequest(ctx, req)
	if err != nil {
		log.Debug("translate failed", "err", err)
		return outputLine{Error: err.Error()}
	}
	return outputLine{Query: res.Query, Params: res.Params, Tables: res.Tables}
}
