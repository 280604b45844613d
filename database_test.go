package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestLibrary(t *testing.T) *LibraryDB {
	t.Helper()
	db, err := OpenLibrary(filepath.Join(t.TempDir(), "data", "library.db"))
	if err != nil {
		t.Fatalf("OpenLibrary failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLibraryAddComic(t *testing.T) {
	db := openTestLibrary(t)
	ctx := context.Background()

	id, err := db.AddComic(ctx, "/books/a.cbz", "a", "cbz", 100)
	if err != nil {
		t.Fatalf("AddComic failed: %v", err)
	}
	again, err := db.AddComic(ctx, "/books/a.cbz", "a", "cbz", 250)
	if err != nil {
		t.Fatalf("AddComic again failed: %v", err)
	}
	if again != id {
		t.Errorf("Expected the same id for the same path, got %d and %d", id, again)
	}

	rec, err := db.GetComic(ctx, id)
	if err != nil {
		t.Fatalf("GetComic failed: %v", err)
	}
	if rec.SizeBytes != 250 || rec.Status != "unread" || rec.LastReadAt != nil {
		t.Errorf("Unexpected record %+v", rec)
	}

	if _, err := db.GetComic(ctx, id+100); !errors.Is(err, ErrComicNotFound) {
		t.Errorf("Expected ErrComicNotFound, got %v", err)
	}
}

func TestLibrarySaveProgress(t *testing.T) {
	db := openTestLibrary(t)
	ctx := context.Background()

	id, err := db.AddComic(ctx, "/books/a.cbz", "a", "cbz", 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SetPageCount(ctx, id, 20); err != nil {
		t.Fatalf("SetPageCount failed: %v", err)
	}
	if err := db.SaveProgress(ctx, id, 7); err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}

	rec, err := db.GetComic(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if rec.CurrentPage != 7 || rec.PageCount != 20 {
		t.Errorf("Expected page 7 of 20, got %d of %d", rec.CurrentPage, rec.PageCount)
	}
	if rec.Status != "reading" || rec.LastReadAt == nil {
		t.Errorf("Expected a comic being read, got status %q last read %v", rec.Status, rec.LastReadAt)
	}

	if err := db.SaveProgress(ctx, id+1, 1); !errors.Is(err, ErrComicNotFound) {
		t.Errorf("Expected ErrComicNotFound, got %v", err)
	}
	if err := db.SetPageCount(ctx, id+1, 1); !errors.Is(err, ErrComicNotFound) {
		t.Errorf("Expected ErrComicNotFound, got %v", err)
	}
}

func TestLibraryPageActions(t *testing.T) {
	db := openTestLibrary(t)
	ctx := context.Background()

	id, err := db.AddComic(ctx, "/books/a.cbz", "a", "cbz", 1)
	if err != nil {
		t.Fatal(err)
	}

	steps := []PageActionUpdate{
		{IsFavorite: boolPtr(true)},
		{Note: stringPtr("panel 3")},
		{IsFavorite: boolPtr(false)},
	}
	for _, u := range steps {
		if err := db.UpsertPageAction(ctx, id, 4, u); err != nil {
			t.Fatalf("UpsertPageAction failed: %v", err)
		}
	}
	if err := db.UpsertPageAction(ctx, id, 9, PageActionUpdate{IsFavorite: boolPtr(true)}); err != nil {
		t.Fatal(err)
	}

	actions, err := db.PageActions(ctx, id)
	if err != nil {
		t.Fatalf("PageActions failed: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("Expected 2 annotated pages, got %d", len(actions))
	}
	if a := actions.Get(4); a.IsFavorite || a.NoteText() != "panel 3" {
		t.Errorf("Expected page 4 note kept and favourite cleared, got %+v", a)
	}
	if a := actions.Get(9); !a.IsFavorite || a.HasNote() {
		t.Errorf("Expected page 9 favourite without note, got %+v", a)
	}

	// an empty note reads back as no note
	if err := db.UpsertPageAction(ctx, id, 4, PageActionUpdate{Note: stringPtr("")}); err != nil {
		t.Fatal(err)
	}
	actions, err = db.PageActions(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if actions.Get(4).HasNote() {
		t.Error("Expected cleared note")
	}
}

func TestLibraryListComics(t *testing.T) {
	db := openTestLibrary(t)
	ctx := context.Background()

	for _, title := range []string{"c", "a", "b"} {
		if _, err := db.AddComic(ctx, "/books/"+title+".cbz", title, "cbz", 1); err != nil {
			t.Fatal(err)
		}
	}
	comics, err := db.ListComics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var titles []string
	for _, c := range comics {
		titles = append(titles, c.Title)
	}
	if len(titles) != 3 || titles[0] != "a" || titles[1] != "b" || titles[2] != "c" {
		t.Errorf("Expected unread comics by title, got %v", titles)
	}

	// the one being read comes first
	if err := db.SaveProgress(ctx, comics[2].ID, 1); err != nil {
		t.Fatal(err)
	}
	comics, err = db.ListComics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if comics[0].Title != "c" {
		t.Errorf("Expected 'c' first after reading it, got %q", comics[0].Title)
	}
}
