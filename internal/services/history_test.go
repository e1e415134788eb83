package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HerbHall/strainwise/internal/services"
	"github.com/HerbHall/strainwise/internal/testutil"
)

func newHistoryRepo(t *testing.T) services.HistoryRepository {
	t.Helper()
	store := testutil.NewStore(t)
	clock := testutil.NewTickingClock(time.Second)
	repo, err := services.NewSQLiteHistoryRepository(context.Background(), store, services.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewSQLiteHistoryRepository: %v", err)
	}
	return repo
}

func recs(names ...string) []services.Recommendation {
	out := make([]services.Recommendation, len(names))
	for i, n := range names {
		out[i] = services.Recommendation{StrainName: n, Rank: i + 1, Score: len(names) - i}
	}
	return out
}

func TestSQLiteHistoryRepository_RecordAndPreferences(t *testing.T) {
	repo := newHistoryRepo(t)
	ctx := context.Background()

	stored, err := repo.Record(ctx, services.SessionPreferences{
		SessionID:  "s1",
		Type:       "Indica",
		Effects:    []string{"Relaxed"},
		Experience: "New to cannabis",
	}, recs("Northern Lights", "Bubba Kush"))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored len = %d, want 2", len(stored))
	}
	for _, r := range stored {
		if r.ID == "" {
			t.Error("expected assigned ID")
		}
		if r.SessionID != "s1" {
			t.Errorf("SessionID = %q, want s1", r.SessionID)
		}
		if !r.CreatedAt.Equal(testutil.Epoch) {
			t.Errorf("CreatedAt = %v, want %v", r.CreatedAt, testutil.Epoch)
		}
	}

	p, err := repo.Preferences(ctx, "s1")
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if p.Type != "Indica" || p.Experience != "New to cannabis" {
		t.Errorf("prefs = %+v", p)
	}
	if len(p.Effects) != 1 || p.Effects[0] != "Relaxed" {
		t.Errorf("Effects = %v, want [Relaxed]", p.Effects)
	}
	if len(p.Flavors) != 0 {
		t.Errorf("Flavors = %v, want empty", p.Flavors)
	}
}

func TestSQLiteHistoryRepository_PreferencesUpsert(t *testing.T) {
	repo := newHistoryRepo(t)
	ctx := context.Background()

	if _, err := repo.Record(ctx, services.SessionPreferences{SessionID: "s1", Type: "Indica"}, recs("A")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := repo.Record(ctx, services.SessionPreferences{SessionID: "s1", Type: "Sativa"}, recs("B")); err != nil {
		t.Fatalf("Record again: %v", err)
	}

	p, err := repo.Preferences(ctx, "s1")
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if p.Type != "Sativa" {
		t.Errorf("Type = %q, want latest Sativa", p.Type)
	}
}

func TestSQLiteHistoryRepository_PreferencesNotFound(t *testing.T) {
	repo := newHistoryRepo(t)
	if _, err := repo.Preferences(context.Background(), "nope"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteHistoryRepository_ListNewestFirst(t *testing.T) {
	repo := newHistoryRepo(t)
	ctx := context.Background()

	if _, err := repo.Record(ctx, services.SessionPreferences{SessionID: "s1"}, recs("Old 1", "Old 2")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := repo.Record(ctx, services.SessionPreferences{SessionID: "s1"}, recs("New 1", "New 2")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := repo.Record(ctx, services.SessionPreferences{SessionID: "other"}, recs("Elsewhere")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	res, err := repo.ListBySession(ctx, "s1", services.ListOptions{})
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if res.Total != 4 {
		t.Errorf("Total = %d, want 4", res.Total)
	}
	want := []string{"New 1", "New 2", "Old 1", "Old 2"}
	if len(res.Items) != len(want) {
		t.Fatalf("Items len = %d, want %d", len(res.Items), len(want))
	}
	for i, w := range want {
		if res.Items[i].StrainName != w {
			t.Errorf("Items[%d] = %q, want %q", i, res.Items[i].StrainName, w)
		}
	}

	page, err := repo.ListBySession(ctx, "s1", services.ListOptions{Limit: 1, Offset: 2})
	if err != nil {
		t.Fatalf("ListBySession page: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].StrainName != "Old 1" {
		t.Errorf("page = %+v, want [Old 1]", page.Items)
	}
}

func TestSQLiteHistoryRepository_ListUnknownSession(t *testing.T) {
	repo := newHistoryRepo(t)
	res, err := repo.ListBySession(context.Background(), "nobody", services.ListOptions{})
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if res.Total != 0 || len(res.Items) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
	if res.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestSQLiteHistoryRepository_Rate(t *testing.T) {
	repo := newHistoryRepo(t)
	ctx := context.Background()

	stored, err := repo.Record(ctx, services.SessionPreferences{SessionID: "s1"}, recs("Blue Dream"))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	id := stored[0].ID

	rec, err := repo.Rate(ctx, "s1", id, 4)
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if rec.Rating == nil || *rec.Rating != 4 {
		t.Errorf("Rating = %v, want 4", rec.Rating)
	}

	tests := []struct {
		name    string
		session string
		id      string
		rating  int
		want    error
	}{
		{name: "too low", session: "s1", id: id, rating: 0, want: services.ErrInvalidRating},
		{name: "too high", session: "s1", id: id, rating: 6, want: services.ErrInvalidRating},
		{name: "unknown id", session: "s1", id: "missing", rating: 3, want: services.ErrNotFound},
		{name: "other session", session: "s2", id: id, rating: 3, want: services.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repo.Rate(ctx, tt.session, tt.id, tt.rating); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSQLiteHistoryRepository_RecordRequiresSession(t *testing.T) {
	repo := newHistoryRepo(t)
	if _, err := repo.Record(context.Background(), services.SessionPreferences{}, recs("A")); err == nil {
		t.Fatal("expected error for empty session id")
	}
}
