package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/scoreboard/internal/api"
	"github.com/mcoot/scoreboard/internal/cli"
	"github.com/mcoot/scoreboard/internal/factory"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/credentials"
	"github.com/mcoot/scoreboard/internal/testutil"
)

// cliRunner runs the CLI in-process against one server and token file
type cliRunner struct {
	serverURL string
	tokenFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	return &cliRunner{
		serverURL: serverURL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func (r *cliRunner) runText(args ...string) (string, error) {
	return r.run(append(args, "--output", "text")...)
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	url      string
	shutdown func()
}

func startTestServer(t *testing.T, game model.GameType) *testServer {
	t.Helper()

	ctx := context.Background()
	logger := testutil.NopLogger()

	app, err := factory.New(ctx, factory.Config{
		Game:             game,
		StorageType:      factory.StorageTypeSQLite,
		DatabasePath:     filepath.Join(t.TempDir(), string(game)+".db"),
		CredentialConfig: credentials.Config{BcryptCost: bcrypt.MinCost},
		Logger:           logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		Game:               game,
		CredentialService:  app.CredentialService,
		AuthService:        app.AuthService,
		LedgerService:      app.LedgerService,
		LeaderboardService: app.LeaderboardService,
		Health:             app.Storage,
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := api.NewServer(router, api.DefaultServerConfig(), logger)
	go func() { _ = server.Serve(listener) }()

	url := "http://" + listener.Addr().String()
	waitForServer(t, url+"/healthz")

	ts := &testServer{
		url: url,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
	t.Cleanup(ts.shutdown)
	return ts
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("server at %s did not become ready", url)
}

func TestCLIHealth(t *testing.T) {
	ts := startTestServer(t, model.GameBikeRace)
	runner := newCLIRunner(t, ts.url)

	out, err := runner.run("health")
	require.NoError(t, err, out)

	var result cli.HealthResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "bike-race", result.Game)
}

func TestCLIBikeRaceFlow(t *testing.T) {
	ts := startTestServer(t, model.GameBikeRace)
	runner := newCLIRunner(t, ts.url)

	// Register and login
	out, err := runner.run("register", "--user", "bob", "--email", "b@x.com", "--pass", "pw123")
	require.NoError(t, err, out)

	out, err = runner.run("login", "--user", "bob", "--pass", "pw123")
	require.NoError(t, err, out)
	var login cli.LoginResult
	require.NoError(t, json.Unmarshal([]byte(out), &login))
	assert.Equal(t, "bob", login.Username)
	assert.NotEmpty(t, login.SessionToken)

	// Submit with the saved token
	out, err = runner.run("submit", "--score", "120", "--distance", "450")
	require.NoError(t, err, out)

	// Leaderboard shows bob's run
	out, err = runner.run("leaderboard")
	require.NoError(t, err, out)
	var board cli.Leaderboard
	require.NoError(t, json.Unmarshal([]byte(out), &board))
	require.Len(t, board.Leaderboard, 1)
	assert.Equal(t, "bob", board.Leaderboard[0].Username)
	assert.Equal(t, int64(120), board.Leaderboard[0].Score)
	require.NotNil(t, board.Leaderboard[0].Distance)
	assert.Equal(t, int64(450), *board.Leaderboard[0].Distance)
	assert.Equal(t, int64(120), board.UserBest)
	assert.Equal(t, "bob", board.CurrentUser)

	// Profile lists the run and the login
	out, err = runner.run("profile")
	require.NoError(t, err, out)
	var profile cli.Profile
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, int64(120), profile.BestScore)
	assert.Len(t, profile.RecentScores, 1)
	require.Len(t, profile.RecentLogins, 1)
	assert.Equal(t, "127.0.0.1", profile.RecentLogins[0].IP)

	// Logout forgets the token
	out, err = runner.run("logout")
	require.NoError(t, err, out)

	out, err = runner.run("whoami")
	require.NoError(t, err, out)
	var status cli.SessionStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.False(t, status.LoggedIn)

	_, err = runner.run("submit", "--score", "1", "--distance", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not logged in")
}

func TestCLIStaleTokenRejectedAfterServerLogout(t *testing.T) {
	ts := startTestServer(t, model.GameBikeRace)
	runner := newCLIRunner(t, ts.url)

	_, err := runner.run("register", "--user", "bob", "--email", "b@x.com", "--pass", "pw123")
	require.NoError(t, err)
	out, err := runner.run("login", "--user", "bob", "--pass", "pw123")
	require.NoError(t, err)
	var login cli.LoginResult
	require.NoError(t, json.Unmarshal([]byte(out), &login))

	_, err = runner.run("logout")
	require.NoError(t, err)

	// The old token no longer works even if presented explicitly
	_, err = runner.run("--token", login.SessionToken, "submit", "--score", "5", "--distance", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNAUTHORIZED")
}

func TestCLIErrors(t *testing.T) {
	ts := startTestServer(t, model.GameBikeRace)
	runner := newCLIRunner(t, ts.url)

	_, err := runner.run("register", "--user", "alice", "--email", "a@x.com", "--pass", "rightpass")
	require.NoError(t, err)

	_, err = runner.run("register", "--user", "alice", "--email", "other@x.com", "--pass", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username already exists")

	_, err = runner.run("login", "--user", "alice", "--pass", "wrongpass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")

	_, err = runner.run("login", "--user", "nobody", "--pass", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")

	// Bike race requires a distance
	_, err = runner.run("login", "--user", "alice", "--pass", "rightpass")
	require.NoError(t, err)
	_, err = runner.run("submit", "--score", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distance is required")
}

func TestCLISnakeTextOutput(t *testing.T) {
	ts := startTestServer(t, model.GameSnake)
	runner := newCLIRunner(t, ts.url)

	_, err := runner.run("register", "--user", "sam", "--email", "s@x.com", "--pass", "pw")
	require.NoError(t, err)
	_, err = runner.run("login", "--user", "sam", "--pass", "pw")
	require.NoError(t, err)
	_, err = runner.run("submit", "--score", "42")
	require.NoError(t, err)

	out, err := runner.runText("leaderboard")
	require.NoError(t, err, out)
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "sam")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "Your best (sam): 42")
	assert.NotContains(t, out, "distance")

	out, err = runner.runText("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as sam")
}
