package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/buildbarn/bb-zonestore/pkg/util"
	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type exampleConfiguration struct {
	Name      string `json:"name"`
	ZonePages int    `json:"zonePages"`
}

func TestUnmarshalConfigurationFromSnippet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var configuration exampleConfiguration
		require.NoError(t, util.UnmarshalConfigurationFromSnippet(
			"pool.jsonnet",
			`{ name: 'mp1', zonePages: 2 * 2048 }`,
			&configuration))
		require.Equal(t, exampleConfiguration{Name: "mp1", ZonePages: 4096}, configuration)
	})

	t.Run("ExternalVariable", func(t *testing.T) {
		t.Setenv("ZONESTORE_POOL_NAME", "mp2")
		var configuration exampleConfiguration
		require.NoError(t, util.UnmarshalConfigurationFromSnippet(
			"pool.jsonnet",
			`{ name: std.extVar('ZONESTORE_POOL_NAME') }`,
			&configuration))
		require.Equal(t, "mp2", configuration.Name)
	})

	t.Run("UnknownField", func(t *testing.T) {
		var configuration exampleConfiguration
		err := util.UnmarshalConfigurationFromSnippet(
			"pool.jsonnet",
			`{ name: 'mp1', zonePagez: 4096 }`,
			&configuration)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("SyntaxError", func(t *testing.T) {
		var configuration exampleConfiguration
		err := util.UnmarshalConfigurationFromSnippet("pool.jsonnet", `{ name: `, &configuration)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestUnmarshalConfigurationFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.jsonnet")
	require.NoError(t, os.WriteFile(path, []byte(`{ name: 'mp3', zonePages: 16 }`), 0o644))

	var configuration exampleConfiguration
	require.NoError(t, util.UnmarshalConfigurationFromFile(path, &configuration))
	require.Equal(t, exampleConfiguration{Name: "mp3", ZonePages: 16}, configuration)

	err := util.UnmarshalConfigurationFromFile(filepath.Join(t.TempDir(), "missing.jsonnet"), &configuration)
	require.Error(t, err)
}
