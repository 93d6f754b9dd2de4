package extension

import (
	"context"
	"errors"
	"testing"

	"media-board/internal/events"
)

type themedExt struct {
	Base
	inits int
}

func (e *themedExt) OnInitExt(context.Context, *events.InitExt) error {
	e.inits++
	return nil
}

type theme struct{ name string }

func TestRegistry_ThemeFor(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(
		Entry{ID: "with-default", New: newThemed, Theme: func() any { return theme{"default"} }},
		Entry{ID: "bare", New: newThemed},
	)

	if got := r.ThemeFor("with-default"); got != (theme{"default"}) {
		t.Errorf("ThemeFor(with-default) = %v", got)
	}
	if got := r.ThemeFor("bare"); got != nil {
		t.Errorf("ThemeFor(bare) = %v, want nil", got)
	}
	if got := r.ThemeFor("unknown"); got != nil {
		t.Errorf("ThemeFor(unknown) = %v, want nil", got)
	}

	r.OverrideTheme("with-default", func() any { return theme{"custom"} })
	r.OverrideTheme("bare", func() any { return theme{"custom-bare"} })

	if got := r.ThemeFor("with-default"); got != (theme{"custom"}) {
		t.Errorf("custom theme should win, got %v", got)
	}
	if got := r.ThemeFor("bare"); got != (theme{"custom-bare"}) {
		t.Errorf("ThemeFor(bare) = %v", got)
	}
}

func newThemed(*Context) (Extension, error) {
	return &themedExt{Base: NewBase("themed")}, nil
}

func TestRegistry_Build(t *testing.T) {
	var built []*themedExt
	factory := func(id string, prio int) Factory {
		return func(ctx *Context) (Extension, error) {
			if ctx.Bus == nil {
				t.Errorf("factory for %s got nil bus", id)
			}
			e := &themedExt{Base: NewBase(id, WithPriority(prio))}
			built = append(built, e)
			return e, nil
		}
	}

	r := NewRegistry()
	r.MustRegister(
		Entry{ID: "late", New: factory("late", 90), Theme: func() any { return theme{"late-default"} }},
		Entry{ID: "early", New: factory("early", 10)},
	)
	r.OverrideTheme("late", func() any { return theme{"late-custom"} })

	bus, err := r.Build(context.Background(), Context{Driver: "sqlite3"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	exts := bus.Extensions()
	if len(exts) != 2 || exts[0].ID() != "early" || exts[1].ID() != "late" {
		t.Fatalf("bus order = %v", exts)
	}
	if bus.Driver() != "sqlite3" {
		t.Errorf("Driver() = %q", bus.Driver())
	}

	for _, e := range built {
		if e.inits != 1 {
			t.Errorf("%s received InitExt %d times, want 1", e.ID(), e.inits)
		}
	}
	if got := built[0].Theme(); got != (theme{"late-custom"}) {
		t.Errorf("late theme = %v, want custom", got)
	}
	if got := built[1].Theme(); got != nil {
		t.Errorf("early theme = %v, want nil", got)
	}
}

func TestRegistry_BuildFactoryError(t *testing.T) {
	cause := errors.New("no converter")
	r := NewRegistry()
	r.MustRegister(Entry{ID: "bad", New: func(*Context) (Extension, error) { return nil, cause }})

	if _, err := r.Build(context.Background(), Context{}); !errors.Is(err, cause) {
		t.Fatalf("Build() error = %v", err)
	}
}

func TestRegistry_RegisterValidation(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Entry{ID: "a", New: newThemed}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(Entry{ID: "a", New: newThemed}); err == nil {
		t.Error("duplicate id accepted")
	}
	if err := r.Register(Entry{ID: "b"}); err == nil {
		t.Error("entry without factory accepted")
	}
	if ids := r.IDs(); len(ids) != 1 || ids[0] != "a" {
		t.Errorf("IDs() = %v", ids)
	}
}

func TestBase_SetThemeOnce(t *testing.T) {
	b := NewBase("x")
	if b.Priority() != DefaultPriority {
		t.Errorf("Priority() = %d, want %d", b.Priority(), DefaultPriority)
	}
	b.SetTheme("first")
	b.SetTheme("second")
	if b.Theme() != "first" {
		t.Errorf("Theme() = %v, want first", b.Theme())
	}
}
