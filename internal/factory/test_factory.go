package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/scoreboard/internal/dependencies/mocks"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/auth"
	"github.com/mcoot/scoreboard/internal/services/credentials"
	"github.com/mcoot/scoreboard/internal/services/leaderboard"
	"github.com/mcoot/scoreboard/internal/storage/memory"
	"github.com/mcoot/scoreboard/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// Concrete stores for inspection
	MemoryStorage  *memory.Storage
	MemorySessions *memory.SessionStore
}

// NewTestApp creates a bike-race App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppForGame(model.GameBikeRace)
}

// NewTestAppForGame creates a test App for the given game
func NewTestAppForGame(game model.GameType) *TestApp {
	store := memory.New()
	sessions := memory.NewSessionStore()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(
		store,
		sessions,
		mockClock,
		mockRandom,
		game,
		credentials.Config{BcryptCost: bcrypt.MinCost},
		auth.DefaultConfig(),
		leaderboard.DefaultConfig(),
		testutil.NopLogger(),
	)

	return &TestApp{
		App:            app,
		MockClock:      mockClock,
		MockRandom:     mockRandom,
		MemoryStorage:  store,
		MemorySessions: sessions,
	}
}
