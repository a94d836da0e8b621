package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Zuo-Peng/chatview/internal/index"
	"github.com/Zuo-Peng/chatview/internal/parse"
)

func setupIndex(t *testing.T) *index.DB {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "exports")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	exports := map[string]string{
		"alice.txt": "1/2/2024, 9:01 - Alice: pizza tonight?\n1/2/2024, 9:02 - You: pizza sounds good\n1/2/2024, 9:03 - Alice: 我们去吃饭\n",
		"bob.txt":   "2/2/2024, 10:00 - Bob: the pizza place closed\n2/2/2024, 10:01 - You: oh no\n",
		"carol.txt": "3/2/2024, 8:00 - Carol: Re: meeting at 5\n3/2/2024, 8:01 - You: don't go without me\n",
	}
	for name, content := range exports {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	db, err := index.OpenDB(filepath.Join(dir, "chatview.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := index.IndexAll(db, root, parse.Options{}); err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}
	return db
}

func TestSearch_FTS(t *testing.T) {
	db := setupIndex(t)

	results, err := Search(db, Options{Query: "pizza"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	// one best hit per chat
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2: %+v", len(results), results)
	}
	for _, r := range results {
		if r.Snippet == "" {
			t.Errorf("result %s has empty snippet", r.ChatKey)
		}
	}
}

func TestSearch_SenderFilter(t *testing.T) {
	db := setupIndex(t)

	results, err := Search(db, Options{Query: "pizza", Sender: "Bob"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].ChatKey != "bob" || results[0].Sender != "Bob" {
		t.Errorf("Search(sender=Bob) = %+v", results)
	}
}

func TestSearch_CJK(t *testing.T) {
	db := setupIndex(t)

	results, err := Search(db, Options{Query: "吃饭"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].MsgID != 2 {
		t.Fatalf("Search(CJK) = %+v", results)
	}
	if results[0].Snippet != "我们去>>>吃饭<<<" {
		t.Errorf("Snippet = %q", results[0].Snippet)
	}
}

func TestListChats(t *testing.T) {
	db := setupIndex(t)

	results, err := ListChats(db, Options{})
	if err != nil {
		t.Fatalf("ListChats() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("ListChats() returned %d, want 3", len(results))
	}

	filtered, err := ListChats(db, Options{Query: "bo"})
	if err != nil {
		t.Fatalf("ListChats() error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].Snippet != "oh no" || filtered[0].MsgID != 1 {
		t.Errorf("ListChats(bo) = %+v", filtered)
	}
}

func TestListChats_SenderFilter(t *testing.T) {
	db := setupIndex(t)

	results, err := ListChats(db, Options{Sender: "Bob"})
	if err != nil {
		t.Fatalf("ListChats() error = %v", err)
	}
	if len(results) != 1 || results[0].ChatKey != "bob" {
		t.Errorf("ListChats(sender=Bob) = %+v", results)
	}

	results, err = ListChats(db, Options{Sender: "You", Query: "ca"})
	if err != nil {
		t.Fatalf("ListChats() error = %v", err)
	}
	if len(results) != 1 || results[0].ChatKey != "carol" {
		t.Errorf("ListChats(sender=You, title=ca) = %+v", results)
	}
}

func TestSearch_PunctuatedQueries(t *testing.T) {
	db := setupIndex(t)

	tests := []struct {
		query string
		msgID int
	}{
		{"Re: meeting", 0},
		{"don't", 1},
		{`"don't go"`, 1},
		{"meet*", 0},
		{"meeting AND 5", 0},
	}
	for _, tt := range tests {
		results, err := Search(db, Options{Query: tt.query})
		if err != nil {
			t.Errorf("Search(%q) error = %v", tt.query, err)
			continue
		}
		if len(results) != 1 || results[0].ChatKey != "carol" || results[0].MsgID != tt.msgID {
			t.Errorf("Search(%q) = %+v, want carol message %d", tt.query, results, tt.msgID)
		}
	}

	results, err := Search(db, Options{Query: "***"})
	if err != nil || len(results) != 0 {
		t.Errorf("Search(***) = %+v, %v, want no results", results, err)
	}
}

func TestFTSQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"pizza", `"pizza"`},
		{"Re: meeting", `"Re:" "meeting"`},
		{"don't", `"don't"`},
		{`say "hi"`, `"say" """hi"""`},
		{"piz*", `"piz"*`},
		{"pizza OR pasta", `"pizza" OR "pasta"`},
		{"AND pizza", `"AND" "pizza"`},
		{"pizza NOT", `"pizza" "NOT"`},
		{"*", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := ftsQuery(tt.in); got != tt.want {
			t.Errorf("ftsQuery(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMakeSnippet(t *testing.T) {
	tests := []struct {
		text, query, want string
	}{
		{"hello world", "world", "...llo >>>world<<<"},
		{"no match here", "zzz", "no match..."},
		{"short", "zzz", "short"},
		{"a long line with the needle in it", "needle", "...the >>>needle<<< in ..."},
	}
	for _, tt := range tests {
		if got := makeSnippet(tt.text, tt.query, 4); got != tt.want {
			t.Errorf("makeSnippet(%q, %q) = %q, want %q", tt.text, tt.query, got, tt.want)
		}
	}
}
