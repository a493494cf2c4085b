package incidents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brightlines/interference-tracker/internal/data/repos/testutil"
	types "github.com/brightlines/interference-tracker/internal/domain"
)

func strptr(s string) *string { return &s }

func TestIncidentRepoUpsertMerge(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewIncidentRepo(db, testutil.Logger(t))

	full := &types.Incident{
		PostID:       101,
		Title:        "Full title",
		ContentClean: "full content",
		DateText:     "March 2014",
		StartDate:    strptr("2014-03-07"),
		Display:      true,
	}
	if _, err := repo.Upsert(ctx, tx, full); err != nil {
		t.Fatalf("Upsert full: %v", err)
	}

	published := time.Date(2014, 3, 10, 12, 0, 0, 0, time.UTC)
	sparse := &types.Incident{
		PostID:      101,
		Slug:        "full-title",
		Display:     false,
		PublishedAt: &published,
	}
	merged, err := repo.Upsert(ctx, tx, sparse)
	if err != nil {
		t.Fatalf("Upsert sparse: %v", err)
	}

	if merged.Title != "Full title" {
		t.Fatalf("sparse upsert erased title: %q", merged.Title)
	}
	if merged.ContentClean != "full content" {
		t.Fatalf("sparse upsert erased content: %q", merged.ContentClean)
	}
	if merged.Slug != "full-title" {
		t.Fatalf("sparse upsert did not add slug: %q", merged.Slug)
	}
	if merged.StartDate == nil || *merged.StartDate != "2014-03-07" {
		t.Fatalf("sparse upsert changed start_date: %v", merged.StartDate)
	}
	if merged.Display {
		t.Fatalf("display should track the incoming record")
	}
	if merged.PublishedAt == nil {
		t.Fatalf("published_at not set")
	}

	later := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	again, err := repo.Upsert(ctx, tx, &types.Incident{
		PostID:      101,
		Title:       "Updated title",
		Display:     true,
		PublishedAt: &later,
	})
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if again.Title != "Updated title" {
		t.Fatalf("non-empty title should win: %q", again.Title)
	}
	if !again.Display {
		t.Fatalf("display should track the incoming record")
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(published) {
		t.Fatalf("published_at should stick once set: %v", again.PublishedAt)
	}

	var count int64
	if err := tx.Model(&types.Incident{}).Where("post_id = ?", 101).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("expected exactly one row for post 101: err=%v count=%d", err, count)
	}
}

func TestIncidentRepoInvalidPostID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewIncidentRepo(db, testutil.Logger(t))

	for _, postID := range []int64{0, -7} {
		if _, err := repo.Upsert(context.Background(), tx, &types.Incident{PostID: postID, Title: "x"}); !errors.Is(err, ErrInvalidPostID) {
			t.Fatalf("Upsert(post_id=%d) err = %v, want ErrInvalidPostID", postID, err)
		}
	}
}

func TestIncidentRepoDeleteCascade(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	incidents := NewIncidentRepo(db, log)
	countries := NewCountryRepo(db, log)
	links := NewLinkRepo(db, log)

	inc, err := incidents.Upsert(ctx, tx, &types.Incident{PostID: 202, Title: "t", Display: true})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	country, err := countries.Upsert(ctx, tx, &types.Country{Name: "Estonia"})
	if err != nil {
		t.Fatalf("country Upsert: %v", err)
	}
	if err := links.LinkCountry(ctx, tx, inc.ID, country.ID); err != nil {
		t.Fatalf("LinkCountry: %v", err)
	}

	if err := incidents.DeleteByPostID(ctx, tx, 202); err != nil {
		t.Fatalf("DeleteByPostID: %v", err)
	}

	var joins int64
	if err := tx.Model(&types.IncidentCountry{}).Where("incident_id = ?", inc.ID).Count(&joins).Error; err != nil || joins != 0 {
		t.Fatalf("join rows survived delete: err=%v count=%d", err, joins)
	}
	var vocab int64
	if err := tx.Model(&types.Country{}).Where("name = ?", "Estonia").Count(&vocab).Error; err != nil || vocab != 1 {
		t.Fatalf("vocabulary row should survive delete: err=%v count=%d", err, vocab)
	}
}
