package app

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SuramyaVimal/dag-cd/internal/config"
	"github.com/SuramyaVimal/dag-cd/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. stdin feeds
// the StdinPath input. The returned buffers capture the report and the logs.
func SetupAppTest(t *testing.T, appConfig Config, stdin string) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	if appConfig.Settings == nil {
		appConfig.Settings = config.Default()
	}
	appConfig.Settings.LogLevel = "debug"
	cfg, err := NewConfig(appConfig)
	require.NoError(t, err)

	outBuffer, logBuffer := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	var in io.Reader = strings.NewReader(stdin)
	testApp, err := NewApp(context.Background(), outBuffer, logBuffer, in, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = testApp.Close()
		if os.Getenv("DAGCD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
