package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"snake-arcade/pace"
	"snake-arcade/stats"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	stores := make(map[string]Store)
	for _, kind := range []string{"json", "sqlite"} {
		s, err := Open(kind, t.TempDir())
		if err != nil {
			t.Fatalf("Open(%s): %v", kind, err)
		}
		t.Cleanup(func() { s.Close() })
		stores[kind] = s
	}
	return stores
}

func TestEmptyStoreDefaults(t *testing.T) {
	for kind, s := range openStores(t) {
		p, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("%s: LoadPreferences: %v", kind, err)
		}
		if p != DefaultPreferences() {
			t.Errorf("%s: prefs = %+v", kind, p)
		}
		high, err := s.HighScore()
		if err != nil || high != 0 {
			t.Errorf("%s: high = %d, %v", kind, high, err)
		}
		games, err := s.Games()
		if err != nil || len(games) != 0 {
			t.Errorf("%s: games = %v, %v", kind, games, err)
		}
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	want := Preferences{Theme: "neon", Speed: pace.Fast, Sound: false, Vibrate: true}
	for kind, s := range openStores(t) {
		if err := s.SavePreferences(want); err != nil {
			t.Fatalf("%s: SavePreferences: %v", kind, err)
		}
		got, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("%s: LoadPreferences: %v", kind, err)
		}
		if got != want {
			t.Errorf("%s: got %+v, want %+v", kind, got, want)
		}
	}
}

func TestSaveNormalizesUnknownValues(t *testing.T) {
	for kind, s := range openStores(t) {
		if err := s.SavePreferences(Preferences{Theme: "plaid", Speed: "warp", Sound: true}); err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		got, _ := s.LoadPreferences()
		if got.Theme != "classic" || got.Speed != pace.Normal {
			t.Errorf("%s: got %+v", kind, got)
		}
	}
}

func TestHighScoreAndGames(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for kind, s := range openStores(t) {
		if err := s.SetHighScore(12); err != nil {
			t.Fatalf("%s: SetHighScore: %v", kind, err)
		}
		if err := s.SetHighScore(15); err != nil {
			t.Fatalf("%s: SetHighScore: %v", kind, err)
		}
		if high, _ := s.HighScore(); high != 15 {
			t.Errorf("%s: high = %d", kind, high)
		}

		for i, score := range []int{4, 15} {
			st := start.Add(time.Duration(i) * time.Minute)
			if err := s.RecordGame(stats.NewRecord("abc", score, st, st.Add(20*time.Second))); err != nil {
				t.Fatalf("%s: RecordGame: %v", kind, err)
			}
		}
		games, err := s.Games()
		if err != nil {
			t.Fatalf("%s: Games: %v", kind, err)
		}
		if len(games) != 2 || games[0].Score != 4 || games[1].Score != 15 || games[1].Session != "abc" {
			t.Fatalf("%s: games = %+v", kind, games)
		}
		if !games[0].StartTime.Equal(start) {
			t.Errorf("%s: start = %v", kind, games[0].StartTime)
		}
	}
}

func TestFileStorePersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenFileStore(filepath.Join(dir, "snake.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetHighScore(7); err != nil {
		t.Fatal(err)
	}

	again, err := OpenFileStore(filepath.Join(dir, "snake.json"))
	if err != nil {
		t.Fatal(err)
	}
	if high, _ := again.HighScore(); high != 7 {
		t.Fatalf("high after reopen = %d", high)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFileStore(path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SavePreferences(Preferences{Theme: "retro", Speed: pace.Slow}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	again, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	p, err := again.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if p.Theme != "retro" || p.Speed != pace.Slow || p.Sound {
		t.Fatalf("prefs after reopen = %+v", p)
	}
}

func TestDecodeSkipsGarbage(t *testing.T) {
	p := decodePreferences(map[string]string{
		KeyTheme:   "nope",
		KeySpeed:   "fast",
		KeySound:   "maybe",
		KeyVibrate: "true",
	})
	want := Preferences{Theme: "classic", Speed: pace.Fast, Sound: true, Vibrate: true}
	if p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}
	if parseHighScore("-3") != 0 || parseHighScore("x") != 0 || parseHighScore("42") != 42 {
		t.Fatal("parseHighScore mismatch")
	}
}

func TestOpenUnknownKind(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Fatal("expected error")
	}
}
