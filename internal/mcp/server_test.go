package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/atelier/adapter/cli"
	"github.com/felixgeelhaar/atelier/pkg/config"
)

func TestNewServer(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)

	srv, err := NewServer(&cli.App{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	listed, err := tc.ListTools()
	require.NoError(t, err)
	assert.NotEmpty(t, listed)
}

func TestServe_Validation(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, Serve(ctx, nil, &cli.App{}, nil))
	assert.Error(t, Serve(ctx, &config.Config{}, nil, nil))
}

func TestMiddlewareStack(t *testing.T) {
	adapter := mcpLogger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	open := middlewareStack(&config.Config{}, adapter)
	secured := middlewareStack(&config.Config{MCPAuthToken: "s3cret"}, adapter)
	assert.Len(t, secured, len(open)+1)
}

func TestFieldsToArgs(t *testing.T) {
	args := fieldsToArgs([]middleware.Field{{Key: "method", Value: "tools/list"}, {Key: "ms", Value: 3}})
	assert.Equal(t, []any{"method", "tools/list", "ms", 3}, args)
}
