package users

import (
	"context"
	"errors"
	"testing"

	perr "factsongs/internal/platform/errors"
	"factsongs/internal/platform/store"
	"factsongs/internal/platform/testkit"
)

type fakeRows struct {
	cols []string
	data [][]any
	i    int
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.data) }
func (r *fakeRows) Scan(dst ...any) error {
	for j, d := range dst {
		*(d.(*any)) = r.data[r.i-1][j]
	}
	return nil
}
func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return r.cols }

type fakeDB struct {
	sql  string
	rows *fakeRows
	err  error
}

func (f *fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (f *fakeDB) QueryRow(context.Context, string, ...any) store.Row            { return nil }
func (f *fakeDB) CopyFrom(context.Context, []string, []string, [][]any) (int64, error) {
	return 0, nil
}
func (f *fakeDB) Query(_ context.Context, sql string, _ ...any) (store.Rows, error) {
	f.sql = sql
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func TestPostgresUsers(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{
		cols: []string{"user_id", "spotify_id", "name"},
		data: [][]any{{"1", "sp1", "Bruna"}, {"2", "sp2", nil}},
	}}
	got, err := NewPostgres(db, "").Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	testkit.MustContain(t, db.sql, `FROM "oltp_system"."users"`)
	if len(got) != 2 || got[0].SpotifyID != "sp1" || got[0].Name == nil || *got[0].Name != "Bruna" {
		t.Fatalf("users = %+v", got)
	}
	if got[1].Name != nil || got[1].UserID != "2" {
		t.Fatalf("second user = %+v", got[1])
	}
}

func TestPostgresUsersError(t *testing.T) {
	db := &fakeDB{err: errors.New("relation does not exist")}
	if _, err := NewPostgres(db, "public.people").Users(context.Background()); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v", err)
	}
	testkit.MustContain(t, db.sql, `"public"."people"`)
}

func TestParseStatic(t *testing.T) {
	s, err := ParseStatic(" Bruna:vo3yf , Isaac:721how:42 ,")
	if err != nil {
		t.Fatalf("ParseStatic: %v", err)
	}
	if len(s) != 2 {
		t.Fatalf("entries = %d", len(s))
	}
	if s[0].UserID != "vo3yf" || *s[0].Name != "Bruna" {
		t.Fatalf("first = %+v", s[0])
	}
	if s[1].UserID != "42" || s[1].SpotifyID != "721how" {
		t.Fatalf("second = %+v", s[1])
	}

	for _, bad := range []string{"nobody", "Name:", "a:b:c:d"} {
		if _, err := ParseStatic(bad); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("%q: err = %v", bad, err)
		}
	}
}

func TestNew(t *testing.T) {
	r, err := New(Config{Source: "none"}, nil)
	if err != nil || r != nil {
		t.Fatalf("none = %v, %v", r, err)
	}
	if _, err := New(Config{Source: "postgres"}, &store.Store{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("postgres without db: %v", err)
	}
	r, err = New(Config{Source: "static", Static: "A:a"}, nil)
	if err != nil {
		t.Fatalf("static: %v", err)
	}
	us, _ := r.Users(context.Background())
	if len(us) != 1 {
		t.Fatalf("static users = %v", us)
	}
}
