package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgcatalog "github.com/HerbHall/strainwise/pkg/catalog"
	"github.com/HerbHall/strainwise/pkg/llm"
)

func TestLogger_NotNil(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewStore_Usable(t *testing.T) {
	db := NewStore(t)
	if db == nil {
		t.Fatal("expected non-nil store")
	}
	if err := db.DB().PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	p := NewMockProvider("hello")

	resp, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, llm.WithMaxTokens(20))
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Content != "hello" {
		t.Errorf("Content = %q, want hello", resp.Content)
	}
	if _, err := p.Generate(context.Background(), "prompt"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if p.Calls() != 2 {
		t.Fatalf("Calls = %d, want 2", p.Calls())
	}
	if got := p.Options()[0].MaxTokens; got != 20 {
		t.Errorf("MaxTokens = %d, want 20", got)
	}
	if msgs := p.Messages(); len(msgs) != 1 || msgs[0][0].Content != "hi" {
		t.Errorf("Messages = %v", msgs)
	}

	p.Reset()
	if p.Calls() != 0 {
		t.Error("expected no calls after Reset")
	}
}

func TestMockProvider_FailWith(t *testing.T) {
	boom := errors.New("boom")
	p := NewMockProvider("unused").FailWith(boom)
	if _, err := p.Chat(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestMockProvider_HangHonorsContext(t *testing.T) {
	p := NewMockProvider("unused").Hang()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Chat(ctx, nil)
	if llm.CodeOf(err) != llm.ErrCodeTimeout {
		t.Errorf("code = %q, want timeout", llm.CodeOf(err))
	}
}

func TestClock_Advance(t *testing.T) {
	c := NewClock()
	start := c.Now()
	c.Advance(5 * time.Minute)
	if got := c.Now().Sub(start); got != 5*time.Minute {
		t.Errorf("Advance: elapsed = %v, want 5m", got)
	}
}

func TestTickingClock(t *testing.T) {
	c := NewTickingClock(time.Second)
	a, b := c.Now(), c.Now()
	if !a.Equal(Epoch) {
		t.Errorf("first read = %v, want %v", a, Epoch)
	}
	if b.Sub(a) != time.Second {
		t.Errorf("tick = %v, want 1s", b.Sub(a))
	}
}

func TestNewStrain_Defaults(t *testing.T) {
	s := NewStrain("Fixture")
	if s.Type != pkgcatalog.TypeHybrid {
		t.Errorf("Type = %q, want Hybrid", s.Type)
	}
	if err := pkgcatalog.Validate([]pkgcatalog.Strain{s}); err != nil {
		t.Errorf("default fixture should validate: %v", err)
	}
}

func TestNewStrain_WithOptions(t *testing.T) {
	s := NewStrain("Fixture",
		WithType(pkgcatalog.TypeIndica),
		WithEffects("Relaxed", "Sleepy"),
		WithFlavors("Grape"),
		WithTHC("14-18"),
	)
	if s.Type != pkgcatalog.TypeIndica {
		t.Errorf("Type = %q, want Indica", s.Type)
	}
	if len(s.Effects) != 2 || s.Effects[0] != "Relaxed" {
		t.Errorf("Effects = %v", s.Effects)
	}
	if s.Flavors[0] != "Grape" || s.THCContent != "14-18" {
		t.Errorf("Flavors/THC = %v/%q", s.Flavors, s.THCContent)
	}
}
