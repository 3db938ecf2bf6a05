package blocker

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

const runningDump = `2022-12-30 21:25:30.123 org.eyebeam.SelfControl[1234:5678] {
    ActiveApps =     (
    );
    BlockAsWhitelist = 0;
    BlockDuration = 60;
    BlockEndDate = "2022-12-30 22:25:27 +0000";
    BlockIsRunning = 1;
    HostBlacklist =     (
        "news.ycombinator.com",
        "reddit.com"
    );
    Nested = { a = 1; b = "x;y"; };
}
`

func TestParseSettings(t *testing.T) {
	got, err := ParseSettings(runningDump)
	require.NoError(t, err)

	want := map[string]string{
		"ActiveApps":       "()",
		"BlockAsWhitelist": "0",
		"BlockDuration":    "60",
		"BlockEndDate":     `"2022-12-30 22:25:27 +0000"`,
		"BlockIsRunning":   "1",
		"HostBlacklist":    `("news.ycombinator.com","reddit.com")`,
		"Nested":           `{a=1;b="x;y";}`,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseSettings() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSettingsWithoutSpaces(t *testing.T) {
	got, err := ParseSettings(`{BlockIsRunning=1;BlockEndDate="2022-12-3022:25:27+0000";}`)
	require.NoError(t, err)

	assert.Equal(t, "1", got["BlockIsRunning"])
	assert.Equal(t, `"2022-12-3022:25:27+0000"`, got["BlockEndDate"])
}

func TestParseSettingsMalformed(t *testing.T) {
	testCases := map[string]string{
		"no braces":          "BlockIsRunning = 1;",
		"unclosed brace":     "{ BlockIsRunning = 1;",
		"stray closer":       "{ A = (1)); }",
		"missing equals":     "{ BlockIsRunning; }",
		"empty key":          "{ = 1; }",
		"too many equals":    "{ A = 1 = 2; }",
		"unterminated quote": `{ A = "open; }`,
	}

	for name, dump := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSettings(dump)
			assert.ErrorIs(t, err, ErrMalformedOutput)
		})
	}
}

func TestStateFromSettings(t *testing.T) {
	settings, err := ParseSettings(runningDump)
	require.NoError(t, err)

	got, err := StateFromSettings(settings, time.UTC)
	require.NoError(t, err)

	assert.True(t, got.Active)
	assert.Equal(t, timeutil.NewClock(22, 25, 27), got.End)
	assert.True(t, got.Until.Equal(time.Date(2022, time.December, 30, 22, 25, 27, 0, time.UTC)))
	assert.Equal(t, "active until 22:25:27", got.String())
}

func TestStateFromSettingsConvertsToLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	got, err := StateFromSettings(map[string]string{
		"BlockIsRunning": "1",
		"BlockEndDate":   `"2022-12-3022:25:27+0000"`,
	}, loc)
	require.NoError(t, err)

	assert.Equal(t, timeutil.NewClock(0, 25, 27), got.End)
	assert.Equal(t, 31, got.Until.Day())
}

func TestStateFromSettingsInactive(t *testing.T) {
	for _, v := range []string{"0", "NO", "false"} {
		got, err := StateFromSettings(map[string]string{"BlockIsRunning": v}, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, Inactive, got)
	}
}

func TestStateFromSettingsErrors(t *testing.T) {
	testCases := map[string]map[string]string{
		"missing running key": {"BlockEndDate": `"2022-12-30 22:25:27 +0000"`},
		"missing end date":    {"BlockIsRunning": "1"},
		"bad running value":   {"BlockIsRunning": "maybe"},
		"bad end date":        {"BlockIsRunning": "1", "BlockEndDate": `"tomorrow"`},
		"short end date":      {"BlockIsRunning": "1", "BlockEndDate": `"22:25"`},
	}

	for name, settings := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := StateFromSettings(settings, time.UTC)
			assert.ErrorIs(t, err, ErrMalformedOutput)
		})
	}
}

func TestStateCovers(t *testing.T) {
	end := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	s := State{Active: true, Until: end}

	assert.True(t, s.Covers(end))
	assert.True(t, s.Covers(end.Add(-time.Minute)))
	assert.False(t, s.Covers(end.Add(time.Second)))
	assert.False(t, Inactive.Covers(end))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"short"`, quote("short"))

	long := strings.Repeat("é", 39) + "日本"
	got := quote(long)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, `"`+strings.Repeat("é", 39)+`日..."`, got)
}
