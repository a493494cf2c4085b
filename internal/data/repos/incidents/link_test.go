package incidents

import (
	"context"
	"testing"

	"github.com/brightlines/interference-tracker/internal/data/repos/testutil"
	types "github.com/brightlines/interference-tracker/internal/domain"
)

func TestLinkRepoIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	incidents := NewIncidentRepo(db, log)
	countries := NewCountryRepo(db, log)
	actors := NewActorRepo(db, log)
	links := NewLinkRepo(db, log)

	inc, err := incidents.Upsert(ctx, tx, &types.Incident{PostID: 301, Title: "t", Display: true})
	if err != nil {
		t.Fatalf("incident Upsert: %v", err)
	}
	country, err := countries.GetOrCreate(ctx, tx, "Estonia")
	if err != nil {
		t.Fatalf("country GetOrCreate: %v", err)
	}
	actor, err := actors.Upsert(ctx, tx, &types.Actor{TermID: 5, Name: "Russia", Taxonomy: "threat-actor"})
	if err != nil {
		t.Fatalf("actor Upsert: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := links.LinkCountry(ctx, tx, inc.ID, country.ID); err != nil {
			t.Fatalf("LinkCountry pass %d: %v", i, err)
		}
		if err := links.LinkActor(ctx, tx, inc.ID, actor.ID, nil, nil); err != nil {
			t.Fatalf("LinkActor pass %d: %v", i, err)
		}
	}

	var n int64
	if err := tx.Model(&types.IncidentCountry{}).Where("incident_id = ?", inc.ID).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("country links: err=%v count=%d", err, n)
	}
	if err := tx.Model(&types.IncidentActor{}).Where("incident_id = ?", inc.ID).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("actor links: err=%v count=%d", err, n)
	}
}

func TestLinkRepoReplaceSources(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	incidents := NewIncidentRepo(db, log)
	sources := NewSourceRepo(db, log)
	links := NewLinkRepo(db, log)

	inc, err := incidents.Upsert(ctx, tx, &types.Incident{PostID: 302, Title: "t", Display: true})
	if err != nil {
		t.Fatalf("incident Upsert: %v", err)
	}

	var ids []uint
	for _, u := range []string{"https://a.example/1", "https://b.example/2", "https://c.example/3"} {
		s, err := sources.Upsert(ctx, tx, &types.Source{URL: u})
		if err != nil {
			t.Fatalf("source Upsert: %v", err)
		}
		ids = append(ids, s.ID)
	}

	if err := links.ReplaceSources(ctx, tx, inc.ID, ids); err != nil {
		t.Fatalf("ReplaceSources: %v", err)
	}
	if err := links.ReplaceSources(ctx, tx, inc.ID, ids[:1]); err != nil {
		t.Fatalf("ReplaceSources shrink: %v", err)
	}

	var rows []types.IncidentSource
	if err := tx.Where("incident_id = ?", inc.ID).Order("slot_no").Find(&rows).Error; err != nil {
		t.Fatalf("load links: %v", err)
	}
	if len(rows) != 1 || rows[0].SourceID != ids[0] || rows[0].SlotNo != 1 {
		t.Fatalf("replace left wrong links: %+v", rows)
	}
}
