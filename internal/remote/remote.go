// Package remote runs an analysis on a dagcd server over socket.io.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/SuramyaVimal/dag-cd/internal/ctxlog"
	"github.com/SuramyaVimal/dag-cd/internal/export"
	"github.com/SuramyaVimal/dag-cd/internal/server"
)

// DefaultTimeout applies when Analyze is called with a non-positive timeout.
const DefaultTimeout = 10 * time.Second

// ErrRemote wraps failures reported by the server.
var ErrRemote = errors.New("remote analysis failed")

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	doc *export.Document
	err error
}

// Analyze sends source to the server at serverURL (e.g. http://host:8080)
// and waits for the resulting document.
func Analyze(ctx context.Context, serverURL, source string, timeout time.Duration) (*export.Document, error) {
	logger := ctxlog.FromContext(ctx).With("component", "remote", "url", serverURL)
	logger.Debug("Remote analysis started.")
	defer logger.Debug("Remote analysis finished.")

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsedURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("server URL %q must include scheme and host", serverURL)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	path := strings.TrimSuffix(parsedURL.Path, "/") + server.SocketPath

	opts := socket.DefaultOptions()
	opts.SetPath(path)
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	finish := func(r opResult) {
		select {
		case done <- r:
		default:
		}
	}

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected.", "sid", io.Id())
		if err := io.Emit(server.EventAnalyze, source); err != nil {
			finish(opResult{err: fmt.Errorf("failed to send source: %w", err)})
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		finish(opResult{err: fmt.Errorf("failed to connect: %w", err)})
	})
	io.On(types.EventName(server.EventResult), func(data ...any) {
		if len(data) == 0 {
			finish(opResult{err: fmt.Errorf("%w: empty result", ErrRemote)})
			return
		}
		doc, err := decodeDocument(data[0])
		finish(opResult{doc: doc, err: err})
	})
	io.On(types.EventName(server.EventError), func(data ...any) {
		msg := "unknown error"
		if len(data) > 0 {
			msg = fmt.Sprint(data[0])
		}
		finish(opResult{err: fmt.Errorf("%w: %s", ErrRemote, msg)})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("waiting for %q after connecting: %w", server.EventResult, opCtx.Err())
		}
		return nil, fmt.Errorf("waiting for initial connection: %w", opCtx.Err())
	case res := <-done:
		return res.doc, res.err
	}
}

// decodeDocument converts the generic JSON value delivered by the client
// back into a Document.
func decodeDocument(v any) (*export.Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode result: %w", err)
	}
	var doc export.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &doc, nil
}
