package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHome_PrefersUserProfile(t *testing.T) {
	t.Setenv("USERPROFILE", "/profile")
	t.Setenv("HOME", "/home/x")
	home, err := UserHome()
	require.NoError(t, err)
	assert.Equal(t, "/profile", home)

	t.Setenv("USERPROFILE", "")
	home, err = UserHome()
	require.NoError(t, err)
	assert.Equal(t, "/home/x", home)
}

func TestListSteamUIDs(t *testing.T) {
	steam := t.TempDir()
	userdata := filepath.Join(steam, "userdata")
	for _, d := range []string{"222", "111", "anonymous", "12a"} {
		require.NoError(t, os.MkdirAll(filepath.Join(userdata, d), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(userdata, "333"), []byte("file"), 0o644))

	assert.Equal(t, []string{"111", "222"}, ListSteamUIDs(steam))
	assert.Empty(t, ListSteamUIDs(filepath.Join(steam, "missing")))
	assert.Empty(t, ListSteamUIDs(""))
}

func TestSystemEnv_TemplateEnv(t *testing.T) {
	uid := "42"
	e := SystemEnv{
		UserHome:        func() (string, error) { return "/home/x", nil },
		SteamInstallDir: func() (string, error) { return "/steam", nil },
	}
	env := e.TemplateEnv(&uid)
	assert.Equal(t, "/home/x", env.UserFolder)
	require.NotNil(t, env.SteamDir)
	assert.Equal(t, "/steam", *env.SteamDir)
	assert.Equal(t, "42", *env.SteamUID)

	e.UserHome = func() (string, error) { return "", os.ErrNotExist }
	e.SteamInstallDir = func() (string, error) { return "", nil }
	env = e.TemplateEnv(nil)
	assert.Empty(t, env.UserFolder)
	assert.Nil(t, env.SteamDir)
	assert.Nil(t, env.SteamUID)
}
