package service

import (
	"context"
	"errors"
	"testing"

	"factsongs/internal/adapters/snapshot"
	"factsongs/internal/adapters/spotify"
	"factsongs/internal/adapters/users"
	"factsongs/internal/core/catalog"
	"factsongs/internal/core/paginate"
	perr "factsongs/internal/platform/errors"
	rundomain "factsongs/internal/services/runlog/domain"
)

type fakeTokens struct {
	err   error
	calls int
}

func (f *fakeTokens) Acquire(context.Context) (spotify.Credential, error) {
	f.calls++
	if f.err != nil {
		return spotify.Credential{}, f.err
	}
	return spotify.Credential{AccessToken: "tok", TokenType: "Bearer"}, nil
}

// fakeCatalog serves fixed collections in limit-sized windows
type fakeCatalog struct {
	playlists map[string][]spotify.Playlist
	items     map[string][]spotify.PlaylistItem
	failOn    string // playlist id whose second page fails

	calls []string
}

func window[T any](all []T, limit, offset int) paginate.Page[T] {
	end := min(offset+limit, len(all))
	var p paginate.Page[T]
	if offset < end {
		p.Items = all[offset:end]
	}
	if end < len(all) {
		next := "more"
		p.Next = &next
	}
	return p
}

func (f *fakeCatalog) UserPlaylists(_ context.Context, cred spotify.Credential, userID string, limit, offset int) (paginate.Page[spotify.Playlist], error) {
	if cred.AccessToken != "tok" {
		return paginate.Page[spotify.Playlist]{}, perr.Unauthorizedf("bad credential")
	}
	f.calls = append(f.calls, "user:"+userID)
	return window(f.playlists[userID], limit, offset), nil
}

func (f *fakeCatalog) PlaylistTracks(_ context.Context, _ spotify.Credential, playlistID string, limit, offset int) (paginate.Page[spotify.PlaylistItem], error) {
	f.calls = append(f.calls, "playlist:"+playlistID)
	if playlistID == f.failOn && offset > 0 {
		return paginate.Page[spotify.PlaylistItem]{}, perr.Upstreamf("GET /playlists/%s/tracks: 502", playlistID)
	}
	return window(f.items[playlistID], limit, offset), nil
}

type fakeLedger struct {
	begun    []string
	finished []rundomain.Run
}

func (f *fakeLedger) Begin(_ context.Context, stage, date string) rundomain.Run {
	f.begun = append(f.begun, stage+"@"+date)
	return rundomain.Run{ID: "run-1", Stage: stage, SnapshotDate: date}
}

func (f *fakeLedger) Finish(_ context.Context, r rundomain.Run, counters map[string]int, err error) rundomain.Run {
	r.Counters = counters
	r.Status = rundomain.StatusOK
	if err != nil {
		r.Status = rundomain.StatusError
		r.Error = err.Error()
	}
	f.finished = append(f.finished, r)
	return r
}

func (f *fakeLedger) Recent(context.Context, int) ([]rundomain.Run, error) { return f.finished, nil }

func sp(s string) *string { return &s }

func item(id string, artists ...string) spotify.PlaylistItem {
	tr := &spotify.Track{ID: sp(id), Name: sp("track " + id)}
	for _, a := range artists {
		tr.Artists = append(tr.Artists, spotify.Artist{ID: sp(a), Name: sp("artist " + a)})
	}
	return spotify.PlaylistItem{AddedAt: sp("2024-01-01T00:00:00Z"), Track: tr}
}

func fixture() *fakeCatalog {
	return &fakeCatalog{
		playlists: map[string][]spotify.Playlist{
			"alice": {{ID: "P1", Name: sp("Road"), Owner: &spotify.Owner{ID: "alice"}}},
			"bob": {
				{ID: "P1", Name: sp("Road"), Owner: &spotify.Owner{ID: "alice"}},
				{ID: "P2", Name: sp("Gym"), Owner: &spotify.Owner{ID: "bob"}},
			},
		},
		items: map[string][]spotify.PlaylistItem{
			"P1": {item("T1", "A1", "A2"), {AddedAt: sp("2024-01-02T00:00:00Z")}, item("T2", "A1")},
			"P2": {item("T3")},
		},
	}
}

func newService(t *testing.T, cat *fakeCatalog, tok *fakeTokens, ledger *fakeLedger) (*Service, snapshot.Store) {
	t.Helper()
	st, err := snapshot.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	reg, err := users.ParseStatic("Alice:alice:u1,Bob:bob:u2")
	if err != nil {
		t.Fatalf("ParseStatic: %v", err)
	}
	return New(tok, cat, reg, st, ledger, nil, Config{PageSize: 2}), st
}

func TestRun_LandsBothSnapshots(t *testing.T) {
	t.Parallel()

	cat := fixture()
	ledger := &fakeLedger{}
	svc, st := newService(t, cat, &fakeTokens{}, ledger)

	res, err := svc.Run(context.Background(), "2024-03-05")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Users != 2 || res.Playlists != 3 || res.Tracks != 3 {
		t.Fatalf("counts users=%d playlists=%d tracks=%d", res.Users, res.Playlists, res.Tracks)
	}
	wantKeys := []string{"spotify/playlists/2024-03-05.json", "spotify/tracks/2024-03-05.json"}
	if len(res.Keys) != 2 || res.Keys[0] != wantKeys[0] || res.Keys[1] != wantKeys[1] {
		t.Fatalf("keys=%v want %v", res.Keys, wantKeys)
	}

	// P1 listed by both users is drained once; 3 items at page size 2 is two requests
	p1 := 0
	for _, c := range cat.calls {
		if c == "playlist:P1" {
			p1++
		}
	}
	if p1 != 2 {
		t.Fatalf("P1 fetched %d pages, want 2 (calls %v)", p1, cat.calls)
	}

	b, err := st.Get(context.Background(), wantKeys[0])
	if err != nil {
		t.Fatalf("Get playlists: %v", err)
	}
	pls, err := catalog.DecodePlaylists(b)
	if err != nil {
		t.Fatalf("DecodePlaylists: %v", err)
	}
	if len(pls) != 2 || pls[1].SpotifyID != "bob" || len(pls[1].Playlists) != 2 {
		t.Fatalf("playlist doc = %+v", pls)
	}
	if pls[0].Playlists[0].OwnerID == nil || *pls[0].Playlists[0].OwnerID != "alice" {
		t.Fatalf("owner not carried: %+v", pls[0].Playlists[0])
	}

	b, err = st.Get(context.Background(), wantKeys[1])
	if err != nil {
		t.Fatalf("Get tracks: %v", err)
	}
	trs, err := catalog.DecodeTracks(b)
	if err != nil {
		t.Fatalf("DecodeTracks: %v", err)
	}
	if len(trs) != 2 || trs[0].PlaylistID != "P1" || len(trs[0].Tracks) != 2 {
		t.Fatalf("track doc = %+v", trs)
	}
	if got := len(trs[0].Tracks[0].Artists); got != 2 {
		t.Fatalf("T1 artists=%d want 2", got)
	}

	if len(ledger.finished) != 1 || ledger.finished[0].Status != rundomain.StatusOK {
		t.Fatalf("ledger = %+v", ledger.finished)
	}
	if ledger.finished[0].Counters["tracks"] != 3 {
		t.Fatalf("ledger counters = %v", ledger.finished[0].Counters)
	}
}

func TestRun_FailuresPersistNothing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		tokenErr  error
		failOn    string
		date      string
		wantCode  perr.ErrorCode
		wantFetch bool
	}{
		{name: "token", tokenErr: perr.Unauthorizedf("token: 401"), date: "2024-03-05", wantCode: perr.ErrorCodeUnauthorized},
		{name: "upstream mid drain", failOn: "P1", date: "2024-03-05", wantCode: perr.ErrorCodeUpstream, wantFetch: true},
		{name: "bad date", date: "05/03/2024", wantCode: perr.ErrorCodeInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cat := fixture()
			cat.failOn = tc.failOn
			ledger := &fakeLedger{}
			svc, st := newService(t, cat, &fakeTokens{err: tc.tokenErr}, ledger)

			_, err := svc.Run(context.Background(), tc.date)
			if !perr.IsCode(err, tc.wantCode) {
				t.Fatalf("err=%v code=%v want %v", err, perr.CodeOf(err), tc.wantCode)
			}
			if got := len(cat.calls) > 0; got != tc.wantFetch {
				t.Fatalf("fetched=%v want %v (calls %v)", got, tc.wantFetch, cat.calls)
			}
			docs, lerr := st.List(context.Background(), "spotify/")
			if lerr != nil {
				t.Fatalf("List: %v", lerr)
			}
			if len(docs) != 0 {
				t.Fatalf("expected nothing persisted, got %v", docs)
			}
		})
	}
}

func TestRun_LedgerRecordsFailure(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{}
	svc, _ := newService(t, fixture(), &fakeTokens{err: errors.New("dial tcp: refused")}, ledger)
	if _, err := svc.Run(context.Background(), ""); err == nil {
		t.Fatal("expected error")
	}
	if len(ledger.begun) != 1 || len(ledger.finished) != 1 {
		t.Fatalf("ledger begun=%v finished=%v", ledger.begun, ledger.finished)
	}
	if ledger.finished[0].Status != rundomain.StatusError || ledger.finished[0].Error == "" {
		t.Fatalf("finished run = %+v", ledger.finished[0])
	}
}

func TestRun_NoRegistry(t *testing.T) {
	t.Parallel()

	st, _ := snapshot.NewFS(t.TempDir())
	svc := New(&fakeTokens{}, fixture(), nil, st, nil, nil, Config{})
	if _, err := svc.Run(context.Background(), "2024-03-05"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err=%v want invalid argument", err)
	}
}

type fakeGuard struct {
	held  bool
	names []string
}

func (g *fakeGuard) Do(ctx context.Context, name string, fn func(context.Context) error) error {
	g.names = append(g.names, name)
	if g.held {
		return perr.Conflictf("held")
	}
	return fn(ctx)
}

func TestRun_Guarded(t *testing.T) {
	t.Parallel()

	g := &fakeGuard{}
	svc, _ := newService(t, fixture(), &fakeTokens{}, &fakeLedger{})
	svc.Guard = g
	res, err := svc.Run(context.Background(), "2024-03-05")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(g.names) != 1 || g.names[0] != rundomain.LeaseName || len(res.Keys) != 2 {
		t.Fatalf("guard names=%v keys=%v", g.names, res.Keys)
	}

	tok := &fakeTokens{}
	svc, st := newService(t, fixture(), tok, &fakeLedger{})
	svc.Guard = &fakeGuard{held: true}
	if _, err := svc.Run(context.Background(), "2024-03-05"); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("err=%v want conflict", err)
	}
	if tok.calls != 0 {
		t.Fatalf("token acquired %d times while lease held", tok.calls)
	}
	if _, err := st.Get(context.Background(), snapshot.Key("spotify", catalog.KindPlaylists, "2024-03-05")); err == nil {
		t.Fatal("snapshot written while lease held")
	}
}

func TestRun_DropsPlaylistsWithoutID(t *testing.T) {
	t.Parallel()

	cat := fixture()
	cat.playlists["bob"] = append(cat.playlists["bob"], spotify.Playlist{Name: sp("ghost")})
	svc, st := newService(t, cat, &fakeTokens{}, &fakeLedger{})
	res, err := svc.Run(context.Background(), "2024-03-05")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Playlists != 3 {
		t.Fatalf("playlists=%d want 3", res.Playlists)
	}
	b, err := st.Get(context.Background(), snapshot.Key("spotify", catalog.KindPlaylists, "2024-03-05"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	pls, err := catalog.DecodePlaylists(b)
	if err != nil {
		t.Fatalf("landed snapshot does not decode: %v", err)
	}
	if len(pls[1].Playlists) != 2 {
		t.Fatalf("bob playlists = %+v", pls[1].Playlists)
	}
}
