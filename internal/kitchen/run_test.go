package kitchen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina-chat/internal/kitchen/app/core"
	xerrors "cantina-chat/internal/xpkg/errors"
)

func TestParseParams(t *testing.T) {
	p, err := parseParams([]string{"--prefetch=5", "--workers=2"})
	require.NoError(t, err)
	assert.Equal(t, &core.SubscriberParams{Prefetch: 5, Workers: 2}, p.subscriberParams)
	assert.Equal(t, "config.yaml", p.configPath)

	_, err = parseParams([]string{"--help"})
	assert.ErrorIs(t, err, xerrors.ErrHelp)

	_, err = parseParams([]string{"--workers=many"})
	assert.ErrorIs(t, err, xerrors.ErrParseCmd)
}

func TestValidateParams(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "full.yaml")
	require.NoError(t, os.WriteFile(full, []byte("database:\n  host: db\nrabbitmq:\n  host: mq\n"), 0o600))
	noBroker := filepath.Join(dir, "nobroker.yaml")
	require.NoError(t, os.WriteFile(noBroker, []byte("database:\n  host: db\n"), 0o600))

	tests := []struct {
		name     string
		prefetch int
		workers  int
		path     string
		wantErr  bool
	}{
		{"ok", 10, 4, full, false},
		{"zero prefetch", 0, 4, full, true},
		{"zero workers", 10, 0, full, true},
		{"no broker", 10, 4, noBroker, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &params{
				subscriberParams: &core.SubscriberParams{Prefetch: tt.prefetch, Workers: tt.workers},
				configPath:       tt.path,
			}
			err := validateParams(p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "received", p.cfg.Chat.InitialStatus)
		})
	}
}
