package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovincyrus/westley/internal/archive"
	"github.com/lovincyrus/westley/internal/credentials"
	"github.com/lovincyrus/westley/internal/cryptoprim"
	"github.com/lovincyrus/westley/internal/datasource"
	"github.com/lovincyrus/westley/internal/envelope"
	"github.com/lovincyrus/westley/internal/westley"
	"github.com/lovincyrus/westley/internal/workspace/savequeue"
)

// failingDatasource always fails Save, used to exercise the failed-save
// dirty-bit contract without touching a real backend.
type failingDatasource struct {
	*datasource.TextDatasource
}

var errSimulatedSaveFailure = errors.New("simulated save failure")

func (f failingDatasource) Save(ctx context.Context, history []string, creds credentials.Credentials) error {
	return errSimulatedSaveFailure
}

var fastEnvCfg = envelope.Config{Params: cryptoprim.Params{Iterations: 1000, SaltLen: cryptoprim.MinSaltLen}}

func testConfig() Config {
	return Config{WestleyConfig: westley.Config{}, FlattenThreshold: 500}
}

func TestWorkspace_SaveThenLoadRoundTrip(t *testing.T) {
	ar := archive.New(westley.Config{})
	g, err := ar.CreateGroup("Banking")
	require.NoError(t, err)
	e, err := g.CreateEntry()
	require.NoError(t, err)
	require.NoError(t, e.SetProperty("username", "alice"))
	require.NoError(t, e.SetProperty("password", "p"))

	ds := datasource.NewTextDatasource(fastEnvCfg)
	creds := credentials.New([]byte("hunter2"))

	ws := New(testConfig())
	ws.SetArchive(ar, ds, creds)

	require.NoError(t, ws.Save(context.Background()))
	assert.False(t, ar.Westley().Dirty(), "dirty bit should clear after a successful save")

	history, err := ds.Load(context.Background(), credentials.New([]byte("hunter2")))
	require.NoError(t, err)

	reloaded, err := archive.CreateFromHistory(westley.Config{}, history)
	require.NoError(t, err)

	groups := reloaded.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "Banking", groups[0].Title())

	entries := groups[0].Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Properties()["username"])
	assert.Equal(t, "p", entries[0].Properties()["password"])
}

func TestWorkspace_WrongPasswordFailsLoadAndLeavesLocalUntouched(t *testing.T) {
	ar := archive.New(westley.Config{})
	_, err := ar.CreateGroup("Banking")
	require.NoError(t, err)

	ds := datasource.NewTextDatasource(fastEnvCfg)
	creds := credentials.New([]byte("hunter2"))

	ws := New(testConfig())
	ws.SetArchive(ar, ds, creds)
	require.NoError(t, ws.Save(context.Background()))

	before := ar.GetHistory()

	_, err = ds.Load(context.Background(), credentials.New([]byte("hunter3")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, envelope.ErrAuthenticationFailure))

	assert.Equal(t, before, ar.GetHistory(), "local archive must be untouched by a failed remote load")
}

func TestWorkspace_UpdateMergesNonConflictingConcurrentEdits(t *testing.T) {
	base := archive.New(westley.Config{})
	g, err := base.CreateGroup("Shared")
	require.NoError(t, err)
	baseHistory := base.GetHistory()
	groupID := g.ID()

	local, err := archive.CreateFromHistory(westley.Config{}, baseHistory)
	require.NoError(t, err)
	remote, err := archive.CreateFromHistory(westley.Config{}, baseHistory)
	require.NoError(t, err)

	localGroup, ok := local.FindGroupByID(groupID)
	require.True(t, ok)
	e1, err := localGroup.CreateEntry()
	require.NoError(t, err)
	require.NoError(t, e1.SetProperty("username", "local-user"))

	remoteGroup, ok := remote.FindGroupByID(groupID)
	require.True(t, ok)
	e2, err := remoteGroup.CreateEntry()
	require.NoError(t, err)
	require.NoError(t, e2.SetProperty("username", "remote-user"))

	ds := datasource.NewTextDatasource(fastEnvCfg)
	creds := credentials.New([]byte("hunter2"))
	require.NoError(t, ds.Save(context.Background(), remote.GetHistory(), creds))

	ws := New(testConfig())
	ws.SetArchive(local, ds, creds)

	require.NoError(t, ws.Update(context.Background()))

	merged, err := ws.Archive()
	require.NoError(t, err)

	mergedGroup, ok := merged.FindGroupByID(groupID)
	require.True(t, ok)
	entries := mergedGroup.Entries()
	require.Len(t, entries, 2, "both concurrent entries should survive the merge")
}

func TestWorkspace_UpdatePrimaryCredentialsZeroesOldPassword(t *testing.T) {
	ar := archive.New(westley.Config{})
	ds := datasource.NewTextDatasource(fastEnvCfg)
	oldCreds := credentials.New([]byte("hunter2"))

	ws := New(testConfig())
	ws.SetArchive(ar, ds, oldCreds)

	ws.UpdatePrimaryCredentials(credentials.New([]byte("hunter3")))

	for _, b := range oldCreds.Password() {
		assert.Equal(t, byte(0), b, "old credentials must be zeroed after rotation")
	}
}

func TestWorkspace_NoArchiveSetReturnsErrNoArchive(t *testing.T) {
	ws := New(testConfig())
	_, err := ws.Archive()
	assert.ErrorIs(t, err, ErrNoArchive)

	err = ws.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoArchive)
}

func TestWorkspace_SaveAssignsArchiveID(t *testing.T) {
	ar := archive.New(westley.Config{})
	_, err := ar.CreateGroup("Banking")
	require.NoError(t, err)
	require.Empty(t, ar.ID(), "archive should start without an ID")

	ds := datasource.NewTextDatasource(fastEnvCfg)
	ws := New(testConfig())
	ws.SetArchive(ar, ds, credentials.New([]byte("hunter2")))

	require.NoError(t, ws.Save(context.Background()))
	assert.NotEmpty(t, ar.ID(), "Save must assign an archive ID on first save")
}

func TestWorkspace_DistinctArchivesUseDistinctSaveQueues(t *testing.T) {
	arA := archive.New(westley.Config{})
	_, err := arA.CreateGroup("A")
	require.NoError(t, err)
	arB := archive.New(westley.Config{})
	_, err = arB.CreateGroup("B")
	require.NoError(t, err)

	wsA := New(testConfig())
	wsA.SetArchive(arA, datasource.NewTextDatasource(fastEnvCfg), credentials.New([]byte("hunter2")))
	wsB := New(testConfig())
	wsB.SetArchive(arB, datasource.NewTextDatasource(fastEnvCfg), credentials.New([]byte("hunter2")))

	require.NoError(t, wsA.Save(context.Background()))
	require.NoError(t, wsB.Save(context.Background()))

	require.NotEmpty(t, arA.ID())
	require.NotEmpty(t, arB.ID())
	assert.NotEqual(t, arA.ID(), arB.ID(), "distinct archives must be assigned distinct IDs")
	assert.NotSame(t, savequeue.For(arA.ID()), savequeue.For(arB.ID()),
		"distinct archives must use distinct save queues, not a shared queue keyed by an empty ID")
}

func TestWorkspace_FailedFlattenedSaveLeavesDirtyTrue(t *testing.T) {
	ar := archive.New(westley.Config{})
	g, err := ar.CreateGroup("Banking")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := g.CreateEntry()
		require.NoError(t, err)
	}
	require.True(t, ar.Westley().Dirty())

	ds := failingDatasource{TextDatasource: datasource.NewTextDatasource(fastEnvCfg)}

	cfg := testConfig()
	cfg.FlattenThreshold = 1 // force the flatten path well below the real history length
	ws := New(cfg)
	ws.SetArchive(ar, ds, credentials.New([]byte("hunter2")))

	err = ws.Save(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errSimulatedSaveFailure)

	assert.True(t, ar.Westley().Dirty(), "a failed save must leave the dirty bit set, even when it took the flatten path")

	bound, err := ws.Archive()
	require.NoError(t, err)
	assert.Same(t, ar, bound, "a failed save must not silently swap in the flattened archive")
}
