package launchagent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/autoblock/internal/testutil"
	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		plist *Plist
	}{
		{
			name: "main_agent",
			plist: &Plist{
				Label:   MainLabel,
				Program: "/usr/local/bin/autoblock",
				Args:    []string{"execute"},
				Calendar: []timeutil.Clock{
					timeutil.NewClock(9, 30, 0),
					timeutil.NewClock(20, 0, 0),
				},
				Interval:  30 * time.Second,
				RunAtLoad: true,
			},
		},
		{
			name: "rearm_agent",
			plist: &Plist{
				Label:    RearmLabel,
				Program:  "/Users/jo & co/bin/autoblock",
				Args:     []string{"execute", "--config", "/tmp/<blocks>.yml"},
				Calendar: []timeutil.Clock{timeutil.NewClock(14, 31, 0)},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.plist.Render()
			require.NoError(t, err)

			testutil.CompareGoldenFile(t, tc.name, b)
		})
	}
}

func TestRenderInvalid(t *testing.T) {
	tests := []struct {
		name  string
		plist *Plist
	}{
		{
			name:  "missing label",
			plist: &Plist{Program: "autoblock", Interval: time.Minute},
		},
		{
			name:  "missing program",
			plist: &Plist{Label: MainLabel, Interval: time.Minute},
		},
		{
			name:  "no trigger",
			plist: &Plist{Label: MainLabel, Program: "autoblock"},
		},
		{
			name:  "sub-second interval",
			plist: &Plist{Label: MainLabel, Program: "autoblock", Interval: time.Millisecond},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.plist.Render()
			assert.ErrorIs(t, err, errInvalidPlist)
		})
	}
}
