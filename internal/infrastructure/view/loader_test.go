package view

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

type fakeController struct{ id int }

func newTestLoader(files fstest.MapFS) (*Loader, *int) {
	built := 0
	reg := NewRegistry()
	reg.Register("fake", func() any {
		built++
		return &fakeController{id: built}
	})
	return NewLoader(files, reg, zerolog.Nop()), &built
}

func TestLoader_LoadsScopedDescription(t *testing.T) {
	l, _ := newTestLoader(fstest.MapFS{
		"admin/dashboard.yaml": {Data: []byte("title: Dashboard\ncontroller: fake\nbody: |\n  ## Totals\n")},
	})

	v, err := l.Load(context.Background(), domain.PortalAdmin, "dashboard")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v.Name != "dashboard" || v.Scene.Title != "Dashboard" {
		t.Fatalf("unexpected view %+v", v)
	}
	if !strings.Contains(v.Scene.HTML, "<h2>Totals</h2>") {
		t.Fatalf("body was not rendered: %q", v.Scene.HTML)
	}
	if _, ok := v.Controller.(*fakeController); !ok {
		t.Fatalf("expected controller instance, got %T", v.Controller)
	}
}

func TestLoader_ExposesLinks(t *testing.T) {
	l, _ := newTestLoader(fstest.MapFS{
		"student/home.yaml": {Data: []byte("title: Home\nlinks: [receipt, menu]\n")},
	})
	v, err := l.Load(context.Background(), domain.PortalStudent, "home")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(v.Links) != 2 || v.Links[0] != "receipt" || v.Links[1] != "menu" {
		t.Fatalf("unexpected links %v", v.Links)
	}
}

func TestLoader_PortalsAreScoped(t *testing.T) {
	l, _ := newTestLoader(fstest.MapFS{
		"login.yaml": {Data: []byte("title: General\n")},
	})
	if _, err := l.Load(context.Background(), domain.PortalGeneral, "login"); err != nil {
		t.Fatalf("general portal should read the unscoped file: %v", err)
	}
	if _, err := l.Load(context.Background(), domain.PortalStudent, "login"); !errors.Is(err, domain.ErrViewNotFound) {
		t.Fatalf("student portal must not fall back to the general file, got %v", err)
	}
}

func TestLoader_FreshControllerPerLoad(t *testing.T) {
	l, built := newTestLoader(fstest.MapFS{
		"menu.yaml": {Data: []byte("title: Menu\ncontroller: fake\n")},
	})
	a, _ := l.Load(context.Background(), domain.PortalGeneral, "menu")
	b, _ := l.Load(context.Background(), domain.PortalGeneral, "menu")
	if a.Controller == b.Controller || *built != 2 {
		t.Fatalf("each load must build a new controller")
	}
}

func TestLoader_Failures(t *testing.T) {
	l, _ := newTestLoader(fstest.MapFS{
		"broken.yaml":   {Data: []byte("title: [unterminated\n")},
		"untitled.yaml": {Data: []byte("body: hello\n")},
		"extra.yaml":    {Data: []byte("title: X\ncolour: red\n")},
		"empty.yaml":    {Data: []byte("")},
		"ghost.yaml":    {Data: []byte("title: Ghost\ncontroller: nobody\n")},
		"escape.yaml":   {Data: []byte("title: Escape\nlinks: [../admin/dashboard]\n")},
	})

	cases := []struct {
		name string
		want error
	}{
		{"missing", domain.ErrViewNotFound},
		{"broken", domain.ErrMalformedView},
		{"untitled", domain.ErrMalformedView},
		{"extra", domain.ErrMalformedView},
		{"empty", domain.ErrMalformedView},
		{"ghost", domain.ErrUnknownController},
		{"escape", domain.ErrMalformedView},
		{"", domain.ErrInvalidViewName},
		{"../etc/passwd", domain.ErrInvalidViewName},
		{"admin/login", domain.ErrInvalidViewName},
		{"..", domain.ErrInvalidViewName},
	}
	for _, tc := range cases {
		if _, err := l.Load(context.Background(), domain.PortalGeneral, tc.name); !errors.Is(err, tc.want) {
			t.Errorf("%q: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoader_EscapesRawHTML(t *testing.T) {
	l, _ := newTestLoader(fstest.MapFS{
		"x.yaml": {Data: []byte("title: X\nbody: |\n  <script>alert(1)</script>\n")},
	})
	v, err := l.Load(context.Background(), domain.PortalGeneral, "x")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Contains(v.Scene.HTML, "<script>") {
		t.Fatalf("raw HTML must not pass through: %q", v.Scene.HTML)
	}
}

func TestRegistry_UnknownAndNames(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", func() any { return 1 })
	reg.Register("a", func() any { return 2 })
	if got := reg.Names(); len(got) != 2 || got[0] != "a" {
		t.Fatalf("unexpected names %v", got)
	}
	if _, err := reg.New("c"); !errors.Is(err, domain.ErrUnknownController) {
		t.Fatalf("expected ErrUnknownController, got %v", err)
	}
}

func TestResources_EmbeddedDescriptionsParse(t *testing.T) {
	fsys := Resources("")
	var n int
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		if _, err := parse(raw); err != nil {
			t.Errorf("%s: %v", p, err)
		}
		n++
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if n == 0 {
		t.Fatalf("no embedded descriptions found")
	}
}

func TestResources_EveryHomeViewExists(t *testing.T) {
	fsys := Resources("")
	for _, k := range append([]domain.Kind{domain.KindAdmin}, domain.ManagerKinds...) {
		p, _ := Path(domain.PortalAdmin, domain.HomeView(k))
		if _, err := fs.Stat(fsys, p); err != nil {
			t.Errorf("%s home view missing: %v", k, err)
		}
	}
	p, _ := Path(domain.PortalStudent, domain.HomeView(domain.KindStudent))
	if _, err := fs.Stat(fsys, p); err != nil {
		t.Errorf("student home view missing: %v", err)
	}
	for _, portal := range domain.Portals {
		p, _ := Path(portal, portal.StartView())
		if _, err := fs.Stat(fsys, p); err != nil {
			t.Errorf("%s start view missing: %v", portal, err)
		}
	}
}

func TestResources_LinksStayBehindLogin(t *testing.T) {
	fsys := Resources("")
	for _, portal := range domain.Portals {
		p, _ := Path(portal, portal.StartView())
		raw, _ := fs.ReadFile(fsys, p)
		start, err := parse(raw)
		if err != nil {
			t.Fatalf("%s start view: %v", portal, err)
		}
		if portal != domain.PortalGeneral && len(start.Links) != 0 {
			t.Errorf("%s login must not link anywhere, got %v", portal, start.Links)
		}
	}

	entries, _ := fs.Glob(fsys, "*/*.yaml")
	top, _ := fs.Glob(fsys, "*.yaml")
	for _, p := range append(entries, top...) {
		raw, _ := fs.ReadFile(fsys, p)
		desc, err := parse(raw)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		dir := path.Dir(p)
		for _, link := range desc.Links {
			if link == "login" {
				t.Errorf("%s links back to login; only sign out may return there", p)
			}
			target := path.Join(dir, link+".yaml")
			if _, err := fs.Stat(fsys, target); err != nil {
				t.Errorf("%s links to missing view %s", p, target)
			}
		}
	}
}
