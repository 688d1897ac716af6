package controller

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
	"github.com/cafeteria/portal-system/internal/core/service"
)

type mapRegistrar map[string]func() any

func (m mapRegistrar) Register(name string, f func() any) { m[name] = f }

type fixedDirectory map[domain.Kind]int

func (d fixedDirectory) Counts(context.Context) map[domain.Kind]int { return d }

func TestRegister_EveryControllerName(t *testing.T) {
	reg := mapRegistrar{}
	Register(reg)
	for _, name := range []string{NameLogin, NameWelcome, NameDashboard, NameManagerHome, NameStudentHome, NameRecord} {
		f, ok := reg[name]
		if !ok {
			t.Fatalf("%s not registered", name)
		}
		if f() == f() {
			t.Fatalf("%s factory must return fresh instances", name)
		}
	}
}

func TestManagerHome_AcceptsEveryManagerKind(t *testing.T) {
	d := service.NewPayloadDispatcher(zerolog.Nop())
	payloads := []domain.Payload{
		&domain.MenuManager{Account: domain.Account{UserName: "m"}},
		&domain.OrderManager{Account: domain.Account{UserName: "o"}},
		&domain.StudentManager{Account: domain.Account{UserName: "s"}},
		&domain.PaymentManager{Account: domain.Account{UserName: "p"}},
		&domain.ReportManager{Account: domain.Account{UserName: "r"}},
		&domain.NotificationManager{Account: domain.Account{UserName: "n", Name: "Nia"}},
	}
	for _, p := range payloads {
		c := &ManagerHome{}
		if !d.Dispatch(c, p) {
			t.Fatalf("%s not accepted", p.Kind())
		}
		kind, got := c.Manager()
		if kind != p.Kind() || got != p {
			t.Fatalf("%s: stored %s %v", p.Kind(), kind, got)
		}
	}

	c := &ManagerHome{}
	if d.Dispatch(c, &domain.Admin{}) {
		t.Fatalf("manager home must not accept an admin")
	}
	d.Dispatch(c, payloads[5])
	if got := c.Caption(context.Background()); got != "Signed in as Nia (notification manager)" {
		t.Fatalf("unexpected caption %q", got)
	}
}

func TestDashboard_CaptionReadsCountsLazily(t *testing.T) {
	c := &Dashboard{}
	c.Bind(nil, ports.Services{Accounts: fixedDirectory{domain.KindAdmin: 1, domain.KindMenuManager: 3}})
	c.SetAdmin(&domain.Admin{Account: domain.Account{UserName: "admin", Name: "Administrator"}})

	got := c.Caption(context.Background())
	for _, want := range []string{"Signed in as Administrator", "admin 1", "menu_manager 3", "student 0"} {
		if !strings.Contains(got, want) {
			t.Errorf("caption %q missing %q", got, want)
		}
	}
}

func TestLogin_ShowsNoticeOnly(t *testing.T) {
	c := &Login{}
	c.SetPayload(&domain.Opaque{Label: "receipt", Value: 12})
	if c.Caption(context.Background()) != "" {
		t.Fatalf("non-notice payloads must be ignored")
	}
	c.SetPayload(&domain.Opaque{Label: domain.NoticeLabel, Value: "Session timed out"})
	if got := c.Caption(context.Background()); got != "Session timed out" {
		t.Fatalf("unexpected caption %q", got)
	}
}

func TestStudentHome_TypedSetterWins(t *testing.T) {
	d := service.NewPayloadDispatcher(zerolog.Nop())
	c := &StudentHome{}
	s := &domain.Student{Account: domain.Account{UserName: "s1"}}

	d.Dispatch(c, s)
	d.Dispatch(c, &domain.Opaque{Label: "receipt", Value: "#42"})
	if c.Student() != s {
		t.Fatalf("expected SetStudent to store the student")
	}
	if got := c.Caption(context.Background()); got != "Hello, s1. Latest receipt: #42" {
		t.Fatalf("unexpected caption %q", got)
	}
}

func TestRecord_Caption(t *testing.T) {
	c := &Record{}
	if c.Caption(context.Background()) != "" {
		t.Fatalf("empty record must have no caption")
	}
	c.SetPayload(&domain.OrderManager{Account: domain.Account{UserName: "om"}})
	if got := c.Caption(context.Background()); got != "order_manager account om" {
		t.Fatalf("unexpected caption %q", got)
	}
	c.SetPayload(&domain.Opaque{Label: "order", Value: 7})
	if got := c.Caption(context.Background()); got != "order: 7" {
		t.Fatalf("unexpected caption %q", got)
	}
}

func TestWelcome_ListsKioskPortals(t *testing.T) {
	got := (&Welcome{}).Caption(context.Background())
	if !strings.Contains(got, "student") || !strings.Contains(got, "admin") || strings.Contains(got, "general") {
		t.Fatalf("unexpected caption %q", got)
	}
}
