package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
)

func sqliteEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvAppEnv, "test")
	t.Setenv(config.EnvUseSQLite, "true")
	t.Setenv(config.EnvSQLitePath, filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv(config.EnvDBDSN, "")
	t.Setenv(config.EnvLogLevel, "error")
}

func invoke(t *testing.T, args ...string) (int, map[string]any) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out), stdout.String())
	return code, out
}

func TestRunInvalidArguments(t *testing.T) {
	sqliteEnv(t)

	for _, args := range [][]string{
		{},
		{"item_ops.getById", "not-json"},
		{"item_ops.getById", "1", "extra"},
		{"nope.getAll"},
		{"item_ops.explode"},
	} {
		code, out := invoke(t, args...)
		assert.Equal(t, 1, code, args)
		assert.Equal(t, map[string]any{"success": false, "error": "Invalid operation"}, out, args)
	}
}

func TestRunCreateAndRead(t *testing.T) {
	sqliteEnv(t)

	code, out := invoke(t, "item_ops.create", `{"name":"Widget","description":"blue","price":9.5,"weight":1.2,"dimensions":"1x1x1"}`)
	require.Equal(t, 0, code, out)
	assert.Equal(t, true, out["success"])

	code, out = invoke(t, "item_ops.getById", "1")
	require.Equal(t, 0, code)
	rows := out["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Widget", rows[0].(map[string]any)["name"])

	code, out = invoke(t, "item_ops.getById", "99")
	assert.Equal(t, 0, code)
	assert.Equal(t, []any{}, out["data"])

	admin := `{"name":"Ops","email":"ops@example.com","password":"hash"}`
	code, _ = invoke(t, "admin_ops.create", admin)
	require.Equal(t, 0, code)
	code, out = invoke(t, "admin_ops.create", admin)
	assert.Equal(t, 1, code)
	assert.Equal(t, false, out["success"])
	assert.NotEmpty(t, out["error"])
}
