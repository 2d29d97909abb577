package factory

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/musikspil/internal/dependencies/mocks"
	"github.com/mcoot/musikspil/internal/storage/memory"
	"github.com/mcoot/musikspil/internal/testutil"
)

// TestApp extends App with a fake game server and test controls
type TestApp struct {
	*App

	Server    *testutil.FakeServer
	ServerURL string
	Painter   *testutil.RecordingPainter

	// Mocks for test control
	MockClock  *clockwork.FakeClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App talking to an in-process FakeServer, with a
// fake clock and scripted randomness. The server is closed on test cleanup.
func NewTestApp(t testing.TB, cfg Config) *TestApp {
	t.Helper()

	fake := testutil.NewFakeServer()
	mockClock := mocks.NewMockClock(time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC))
	fake.Now = mockClock.Now
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	return newTestApp(t, cfg, fake, server.URL, mockClock)
}

// NewPeer creates a second client on the same server and clock, as another
// device in the same room would be
func (a *TestApp) NewPeer(t testing.TB, cfg Config) *TestApp {
	t.Helper()
	return newTestApp(t, cfg, a.Server, a.ServerURL, a.MockClock)
}

func newTestApp(t testing.TB, cfg Config, fake *testutil.FakeServer, url string, mockClock *clockwork.FakeClock) *TestApp {
	t.Helper()

	painter := testutil.NewRecordingPainter()
	mockRandom := mocks.NewMockRandom()

	cfg.ServerURL = url
	cfg.Painter = painter
	if cfg.Logger == nil {
		cfg.Logger = testutil.NopLogger()
	}

	app, err := newWithDependencies(context.Background(), cfg, memory.New(), mockClock, mockRandom)
	if err != nil {
		t.Fatalf("failed to wire test app: %v", err)
	}
	t.Cleanup(func() { _ = app.Teardown(context.Background()) })

	return &TestApp{
		App:        app,
		Server:     fake,
		ServerURL:  url,
		Painter:    painter,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
