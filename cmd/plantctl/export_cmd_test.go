package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plantops/plantops/modules/masterdata/domain/events"
)

func TestParseEntity(t *testing.T) {
	tests := map[string]events.Entity{
		"plants":        events.EntityPlant,
		" Departments ": events.EntityDepartment,
		"work-centers":  events.EntityWorkCenter,
		"cost_center":   events.EntityCostCenter,
	}
	for in, want := range tests {
		got, err := parseEntity(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	_, err := parseEntity("users")
	require.Error(t, err)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"migrate", "user", "export"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, cmd.Name())
	}
}

func TestEncodeJSON_Indents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeJSON(&buf, map[string]int{"a": 1}))
	require.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
