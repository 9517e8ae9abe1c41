package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func saveVars(t *testing.T) {
	t.Helper()
	v, bt, gc, gv := Version, BuildTime, GitCommit, GoVersion
	t.Cleanup(func() {
		Version, BuildTime, GitCommit, GoVersion = v, bt, gc, gv
	})
}

func TestSetInfo(t *testing.T) {
	saveVars(t)

	SetInfo("1.2.0", "2026-01-01T00:00:00Z", "f00dbabe", "go1.26")

	info := Get()
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "2026-01-01T00:00:00Z", info.BuildTime)
	assert.Equal(t, "f00dbabe", info.GitCommit)
	assert.Equal(t, "go1.26", info.GoVersion)
}

func TestSetInfo_EmptyValuesKeepCurrent(t *testing.T) {
	saveVars(t)

	Version = "test-version"
	SetInfo("", "", "", "")

	assert.Equal(t, "test-version", Version)
}

func TestShortRevision(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortRevision("0123456789abcdef0123"))
	assert.Equal(t, "abc", shortRevision("abc"))
}

func TestUserAgent(t *testing.T) {
	saveVars(t)

	Version = "9.9.9"

	assert.Equal(t, "DiscordBot (https://github.com/aatumaykin/bearobot, 9.9.9)", UserAgent())
}

func TestString(t *testing.T) {
	saveVars(t)
	SetInfo("2.0.0", "", "", "")

	out := String()

	assert.Contains(t, out, "Version: 2.0.0")
	for _, want := range []string{"Build Time:", "Git Commit:", "Go Version:"} {
		assert.Contains(t, out, want)
	}
}
