package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(msg string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprint(append([]any{msg}, args...)...))
}

type fakeTerminal struct {
	interactive bool
	lines       []string
	password    string
	passwordErr error
}

func (f *fakeTerminal) IsTerminal() bool { return f.interactive }

func (f *fakeTerminal) ReadLine() (string, error) {
	if len(f.lines) == 0 {
		return "", errors.New("no input")
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func (f *fakeTerminal) ReadPassword() (string, error) {
	return f.password, f.passwordErr
}

type staticStore struct {
	name  string
	creds map[string]Credentials
	err   error
	calls int
}

func (s *staticStore) Name() string { return s.name }

func (s *staticStore) Lookup(endpoint string) (Credentials, error) {
	s.calls++
	if s.err != nil {
		return Credentials{}, s.err
	}
	c, ok := s.creds[endpoint]
	if !ok {
		return Credentials{}, ErrNotFound
	}
	return c, nil
}

type memorySaver struct {
	saved map[string]Credentials
	err   error
}

func (m *memorySaver) Name() string { return "memory" }

func (m *memorySaver) Save(endpoint string, creds Credentials) error {
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = map[string]Credentials{}
	}
	m.saved[endpoint] = creds
	return nil
}

func writeNetrc(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".netrc")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

const sampleNetrc = `machine urs.earthdata.nasa.gov
  login alice
  password s3cret
machine other.example.com login bob password hunter2
`

func TestNetrcStore_Lookup(t *testing.T) {
	path := writeNetrc(t, sampleNetrc, 0o600)
	store := NewNetrcStore(path, true, nil)

	creds, err := store.Lookup("urs.earthdata.nasa.gov")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "alice", Password: "s3cret"}, creds)

	creds, err = store.Lookup("other.example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", creds.Username)

	_, err = store.Lookup("unknown.example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNetrcStore_MissingFile(t *testing.T) {
	store := NewNetrcStore(filepath.Join(t.TempDir(), "absent"), true, nil)
	_, err := store.Lookup("urs.earthdata.nasa.gov")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNetrcStore_Permissions(t *testing.T) {
	path := writeNetrc(t, sampleNetrc, 0o644)

	t.Run("strict rejects", func(t *testing.T) {
		_, err := NewNetrcStore(path, true, nil).Lookup("urs.earthdata.nasa.gov")
		var perm *InsecurePermissionsError
		require.True(t, errors.As(err, &perm))
		assert.Equal(t, path, perm.Path)
	})

	t.Run("lenient warns", func(t *testing.T) {
		log := &recordingLogger{}
		creds, err := NewNetrcStore(path, false, log).Lookup("urs.earthdata.nasa.gov")
		require.NoError(t, err)
		assert.Equal(t, "alice", creds.Username)
		require.Len(t, log.warnings, 1)
		assert.Contains(t, log.warnings[0], "accessible by other users")
	})
}

func TestDefaultNetrcPath_Env(t *testing.T) {
	t.Setenv("NETRC", "/tmp/custom-netrc")
	p, err := DefaultNetrcPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-netrc", p)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("nrtsync-test", nil)

	_, err := store.Lookup("urs.earthdata.nasa.gov")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save("urs.earthdata.nasa.gov", Credentials{Username: "alice", Password: "pa\nss"}))
	creds, err := store.Lookup("urs.earthdata.nasa.gov")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "alice", Password: "pa\nss"}, creds)

	require.NoError(t, store.Delete("urs.earthdata.nasa.gov"))
	_, err = store.Lookup("urs.earthdata.nasa.gov")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete("urs.earthdata.nasa.gov"), "deleting a missing entry is not an error")

	assert.Error(t, store.Save("x", Credentials{Username: "a\nb", Password: "p"}))
}

func TestKeyringStore_Unavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("no dbus"))
	defer keyring.MockInit()

	_, err := NewKeyringStore("nrtsync-test", nil).Lookup("urs.earthdata.nasa.gov")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrompter(t *testing.T) {
	tests := []struct {
		name        string
		term        *fakeTerminal
		want        Credentials
		wantUnavail bool
		wantErr     bool
	}{
		{
			name: "interactive",
			term: &fakeTerminal{interactive: true, lines: []string{" alice "}, password: "s3cret"},
			want: Credentials{Username: "alice", Password: "s3cret"},
		},
		{
			name:        "not a terminal",
			term:        &fakeTerminal{interactive: false},
			wantUnavail: true,
		},
		{
			name:        "empty password",
			term:        &fakeTerminal{interactive: true, lines: []string{"alice"}},
			wantUnavail: true,
		},
		{
			name:    "password read fails",
			term:    &fakeTerminal{interactive: true, lines: []string{"alice"}, passwordErr: errors.New("eof")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			creds, err := NewPrompter(tt.term, &out).Prompt("urs.earthdata.nasa.gov")
			switch {
			case tt.wantUnavail:
				var unavail *CredentialUnavailableError
				require.True(t, errors.As(err, &unavail), "got %v", err)
				assert.Equal(t, "urs.earthdata.nasa.gov", unavail.Endpoint)
			case tt.wantErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, creds)
				assert.Contains(t, out.String(), "Username for urs.earthdata.nasa.gov")
				assert.NotContains(t, out.String(), tt.want.Password)
			}
		})
	}
}

func TestResolver_StoreOrder(t *testing.T) {
	first := &staticStore{name: "first"}
	second := &staticStore{name: "second", creds: map[string]Credentials{"host": {"bob", "pw"}}}
	term := &fakeTerminal{interactive: true, lines: []string{"never"}, password: "never"}

	r := NewResolver(WithStores(first, second), WithPrompter(NewPrompter(term, &bytes.Buffer{})))
	creds, err := r.Resolve("host")
	require.NoError(t, err)
	assert.Equal(t, "bob", creds.Username)
	assert.Equal(t, 1, first.calls)
	assert.Len(t, term.lines, 1, "prompt must not be used when a store has the entry")
}

func TestResolver_StoreError(t *testing.T) {
	broken := &staticStore{name: "broken", err: &InsecurePermissionsError{Path: "/x", Mode: 0o644}}
	_, err := NewResolver(WithStores(broken)).Resolve("host")
	var perm *InsecurePermissionsError
	assert.True(t, errors.As(err, &perm))
}

func TestResolver_PromptAndRemember(t *testing.T) {
	saver := &memorySaver{}
	term := &fakeTerminal{interactive: true, lines: []string{"carol"}, password: "pw"}
	r := NewResolver(
		WithStores(&staticStore{name: "empty"}),
		WithPrompter(NewPrompter(term, &bytes.Buffer{})),
		WithSaver(saver),
	)
	creds, err := r.Resolve("host")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "carol", Password: "pw"}, creds)
	assert.Equal(t, creds, saver.saved["host"])
}

func TestResolver_SaveFailureIsNotFatal(t *testing.T) {
	log := &recordingLogger{}
	term := &fakeTerminal{interactive: true, lines: []string{"carol"}, password: "pw"}
	r := NewResolver(
		WithPrompter(NewPrompter(term, &bytes.Buffer{})),
		WithSaver(&memorySaver{err: errors.New("locked")}),
		WithLogger(log),
	)
	_, err := r.Resolve("host")
	require.NoError(t, err)
	require.Len(t, log.warnings, 1)
}

func TestResolver_NonInteractive(t *testing.T) {
	t.Run("no prompter", func(t *testing.T) {
		_, err := NewResolver(WithStores(&staticStore{name: "empty"})).Resolve("host")
		var unavail *CredentialUnavailableError
		assert.True(t, errors.As(err, &unavail))
	})
	t.Run("prompter without tty", func(t *testing.T) {
		term := &fakeTerminal{interactive: false}
		_, err := NewResolver(WithPrompter(NewPrompter(term, &bytes.Buffer{}))).Resolve("host")
		var unavail *CredentialUnavailableError
		assert.True(t, errors.As(err, &unavail))
	})
}

func TestNewHTTPClient_AuthOnlyForEndpoint(t *testing.T) {
	var authSeen, cookieSeen bool
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("urs_session"); err == nil && c.Value == "abc" {
			cookieSeen = true
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		authSeen = true
		http.SetCookie(w, &http.Cookie{Name: "urs_session", Value: "abc", Path: "/"})
		w.Write([]byte("granule bytes"))
	}))
	defer auth.Close()

	var dataAuthHeader string
	data := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dataAuthHeader = r.Header.Get("Authorization")
		http.Redirect(w, r, auth.URL+"/oauth/authorize", http.StatusFound)
	}))
	defer data.Close()

	authURL, err := url.Parse(auth.URL)
	require.NoError(t, err)
	client := NewHTTPClient(Credentials{Username: "alice", Password: "s3cret"}, authURL.Host)

	resp, err := client.R().Get(data.URL + "/granule.nc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "granule bytes", string(resp.Body()))
	assert.True(t, authSeen)
	assert.Empty(t, dataAuthHeader, "credentials must not leak to other hosts")

	// The session cookie is kept for later requests in the same run.
	_, err = client.R().Get(auth.URL + "/again")
	require.NoError(t, err)
	assert.True(t, cookieSeen)
}

func TestMatchesHost(t *testing.T) {
	u, _ := url.Parse("https://urs.earthdata.nasa.gov/oauth")
	assert.True(t, matchesHost(u, "urs.earthdata.nasa.gov"))
	u, _ = url.Parse("http://127.0.0.1:8080/x")
	assert.True(t, matchesHost(u, "127.0.0.1:8080"))
	assert.False(t, matchesHost(u, "127.0.0.1:9090"))
	u, _ = url.Parse("https://evil.example.com/urs.earthdata.nasa.gov")
	assert.False(t, matchesHost(u, "urs.earthdata.nasa.gov"))
}
