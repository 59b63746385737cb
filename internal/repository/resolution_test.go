package repository

import (
	"path/filepath"
	"stconflict/internal/db"
	"stconflict/internal/model"
	"testing"
	"time"
)

func setupDB(t *testing.T) *ResolutionRepository {
	t.Helper()
	if err := db.Init(filepath.Join(t.TempDir(), "history.db")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewResolutionRepository()
}

func seed(t *testing.T, repo *ResolutionRepository) time.Time {
	t.Helper()
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	records := []model.Resolution{
		{Status: model.StatusSuccess, BasePath: "/sync/docs/a.txt", KeptPath: "/sync/docs/a.txt", ResolvedAt: base},
		{Status: model.StatusFailed, BasePath: "/sync/docs/b.txt", KeptPath: "/sync/docs/b.txt.sync-conflict-x", ErrMsg: "permission denied", ResolvedAt: base.Add(time.Minute)},
		{Status: model.StatusSuccess, BasePath: "/sync/docs/a.txt", KeptPath: "/sync/docs/a.txt.sync-conflict-y", ResolvedAt: base.Add(2 * time.Minute)},
		{Status: model.StatusSuccess, BasePath: "/sync/docs_old/c.txt", KeptPath: "/sync/docs_old/c.txt", ResolvedAt: base.Add(3 * time.Minute)},
		{Status: model.StatusSuccess, BasePath: "/other/d.txt", KeptPath: "/other/d.txt", ResolvedAt: base.Add(4 * time.Minute)},
	}
	for _, r := range records {
		r.ArchiveDir = filepath.Join(filepath.Dir(r.BasePath), ".stconflict-archive")
		if err := repo.Save(r); err != nil {
			t.Fatal(err)
		}
	}
	return base
}

func TestFind(t *testing.T) {
	repo := setupDB(t)
	seed(t, repo)

	tests := []struct {
		name string
		q    Query
		kept []string
	}{
		{"recent", Query{Limit: 2}, []string{"/other/d.txt", "/sync/docs_old/c.txt"}},
		{"root excludes sibling prefix", Query{Root: "/sync/docs"}, []string{"/sync/docs/a.txt.sync-conflict-y", "/sync/docs/b.txt.sync-conflict-x", "/sync/docs/a.txt"}},
		{"root with trailing separator", Query{Root: "/sync/docs/", Limit: 1}, []string{"/sync/docs/a.txt.sync-conflict-y"}},
		{"one file", Query{Base: "/sync/docs/a.txt"}, []string{"/sync/docs/a.txt.sync-conflict-y", "/sync/docs/a.txt"}},
		{"failed under root", Query{Root: "/sync", Status: model.StatusFailed}, []string{"/sync/docs/b.txt.sync-conflict-x"}},
		{"wildcards in root are literal", Query{Root: "/sync/doc_"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Find(tt.q)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.kept) {
				t.Fatalf("got %d resolutions, want %d: %+v", len(got), len(tt.kept), got)
			}
			for i, r := range got {
				if r.KeptPath != tt.kept[i] {
					t.Errorf("[%d] kept %q, want %q", i, r.KeptPath, tt.kept[i])
				}
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	repo := setupDB(t)
	base := seed(t, repo)

	stats, err := repo.GetStats("/sync/docs")
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Total: 3, Success: 2, Failed: 1, Files: 2}
	if stats.Total != want.Total || stats.Success != want.Success || stats.Failed != want.Failed || stats.Files != want.Files {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	if !stats.Last.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("last = %v", stats.Last)
	}

	all, err := repo.GetStats("")
	if err != nil {
		t.Fatal(err)
	}
	if all.Total != 5 || all.Files != 4 {
		t.Errorf("all = %+v", all)
	}

	empty, err := repo.GetStats("/nowhere")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Total != 0 || !empty.Last.IsZero() {
		t.Errorf("empty = %+v", empty)
	}
}
