package module

import (
	"strings"
	"testing"

	phttp "factsongs/internal/platform/net/http"
)

type runner interface{ Run() string }

type runnerImpl struct{ out string }

func (r runnerImpl) Run() string { return r.out }

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string            { return m.name }
func (m fakeModule) Ports() PortSet          { return m.ports }
func (m fakeModule) MountRoutes(phttp.Router) {}

func TestPortsOf(t *testing.T) {
	t.Parallel()

	type bundle struct {
		Runner runner
		Size   int
	}
	type hidden struct {
		runner runner
	}

	cases := []struct {
		name   string
		ports  any
		wantOK bool
		want   string
	}{
		{name: "nil", ports: nil},
		{name: "direct", ports: runner(runnerImpl{"direct"}), wantOK: true, want: "direct"},
		{name: "exported field", ports: bundle{Runner: runnerImpl{"field"}, Size: 2}, wantOK: true, want: "field"},
		{name: "unexported field", ports: hidden{runner: runnerImpl{"nope"}}},
		{name: "non struct", ports: 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PortsOf[runner](fakeModule{name: tc.name, ports: tc.ports})
			if ok != tc.wantOK {
				t.Fatalf("ok=%v want %v", ok, tc.wantOK)
			}
			if ok && got.Run() != tc.want {
				t.Fatalf("Run()=%q want %q", got.Run(), tc.want)
			}
		})
	}
}

func TestMustPortsOf_PanicNamesModule(t *testing.T) {
	t.Parallel()

	defer func() {
		msg, _ := recover().(string)
		if !strings.Contains(msg, "runlog") {
			t.Fatalf("panic should name the module, got %q", msg)
		}
	}()
	_ = MustPortsOf[runner](fakeModule{name: "runlog"})
}
