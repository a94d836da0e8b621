package index

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Zuo-Peng/chatview/internal/parse"
)

const aliceChat = `1/2/2024, 9:01 - Alice: morning
1/2/2024, 9:02 - You: hey Alice
wrapped continuation
1/2/2024, 9:03 - Alice: lunch at noon?
1/2/2024, 9:04 - You: sure
1/2/2024, 9:05 - Alice: great
`

func setup(t *testing.T) (*DB, string) {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "exports")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	db, err := OpenDB(filepath.Join(dir, "db", "chatview.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, root
}

func writeExport(t *testing.T, root, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexAll(t *testing.T) {
	db, root := setup(t)
	writeExport(t, root, "WhatsApp Chat with Alice.txt", aliceChat)
	writeExport(t, root, "empty.txt", "nothing to see here\n")

	stats, err := IndexAll(db, root, parse.Options{})
	if err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}
	if stats.Scanned != 2 || stats.Updated != 1 || stats.Empty != 1 {
		t.Errorf("IndexAll() stats = %s", stats)
	}

	chats, _ := db.ChatCount()
	msgs, _ := db.MessageCount()
	if chats != 1 || msgs != 5 {
		t.Errorf("ChatCount = %d MessageCount = %d, want 1 and 5", chats, msgs)
	}

	chat, err := db.GetChatByKey("WhatsApp Chat with Alice")
	if err != nil || chat == nil {
		t.Fatalf("GetChatByKey() = %v, %v", chat, err)
	}
	if chat.Title != "WhatsApp Chat with Alice" || chat.FirstTs != "1/2/2024, 9:01" || chat.LastTs != "1/2/2024, 9:05" {
		t.Errorf("chat row = %+v", chat)
	}

	// unchanged files are skipped on the next run
	stats, err = IndexAll(db, root, parse.Options{})
	if err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}
	if stats.Skipped != 1 || stats.Updated != 0 {
		t.Errorf("second IndexAll() stats = %s", stats)
	}

	// removed files are pruned
	if err := os.Remove(filepath.Join(root, "WhatsApp Chat with Alice.txt")); err != nil {
		t.Fatal(err)
	}
	stats, err = IndexAll(db, root, parse.Options{})
	if err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}
	if stats.Pruned != 1 {
		t.Errorf("third IndexAll() stats = %s", stats)
	}
	if n, _ := db.MessageCount(); n != 0 {
		t.Errorf("MessageCount after prune = %d, want 0", n)
	}
}

func TestIndexAll_KeepsChatWhenCheckFails(t *testing.T) {
	db, root := setup(t)
	writeExport(t, root, "alice.txt", aliceChat)
	if _, err := IndexAll(db, root, parse.Options{}); err != nil {
		t.Fatal(err)
	}

	// make every mtime/size lookup fail
	if _, err := db.Raw().Exec("ALTER TABLE chats RENAME COLUMN size TO size_old"); err != nil {
		t.Fatal(err)
	}

	stats, err := IndexAll(db, root, parse.Options{})
	if err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}
	if stats.Errors != 1 || stats.Pruned != 0 {
		t.Errorf("IndexAll() stats = %s, want 1 error and nothing pruned", stats)
	}
	if n, _ := db.ChatCount(); n != 1 {
		t.Errorf("ChatCount = %d, want 1", n)
	}
}

func TestIndexAll_EmptiedChatIsPruned(t *testing.T) {
	db, root := setup(t)
	writeExport(t, root, "alice.txt", aliceChat)
	if _, err := IndexAll(db, root, parse.Options{}); err != nil {
		t.Fatal(err)
	}

	writeExport(t, root, "alice.txt", "no records left\n")
	stats, err := IndexAll(db, root, parse.Options{})
	if err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}
	if stats.Empty != 1 || stats.Pruned != 1 {
		t.Errorf("IndexAll() stats = %s, want 1 empty and 1 pruned", stats)
	}
}

func TestIndexAll_ParseOptionsChange(t *testing.T) {
	db, root := setup(t)
	writeExport(t, root, "alice.txt", aliceChat)
	if _, err := IndexAll(db, root, parse.Options{}); err != nil {
		t.Fatal(err)
	}

	joined := parse.Options{JoinContinuations: true}
	stats, err := IndexAll(db, root, joined)
	if err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}
	if stats.Updated != 1 || stats.Skipped != 0 {
		t.Errorf("IndexAll() after option change stats = %s, want 1 updated", stats)
	}
	msgs, err := db.GetMessages("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 5 || msgs[1].Text != "hey Alice\nwrapped continuation" {
		t.Errorf("messages = %+v, want continuation joined", msgs)
	}

	stats, err = IndexAll(db, root, joined)
	if err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}
	if stats.Skipped != 1 || stats.Updated != 0 {
		t.Errorf("IndexAll() with same options stats = %s, want 1 skipped", stats)
	}
}

func TestLoadChat(t *testing.T) {
	db, root := setup(t)
	writeExport(t, root, "alice.txt", aliceChat)
	if _, err := IndexAll(db, root, parse.Options{}); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadChat(context.Background(), "alice")
	if err != nil {
		t.Fatalf("LoadChat() error = %v", err)
	}
	want := parse.ParseString(aliceChat, parse.Options{})
	if !reflect.DeepEqual(got.Messages, want.Messages) {
		t.Errorf("LoadChat() = %+v\nwant %+v", got.Messages, want.Messages)
	}

	missing, err := db.LoadChat(context.Background(), "nobody")
	if err != nil || missing != nil {
		t.Errorf("LoadChat(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestChatSenders(t *testing.T) {
	db, root := setup(t)
	writeExport(t, root, "alice.txt", aliceChat)
	if _, err := IndexAll(db, root, parse.Options{}); err != nil {
		t.Fatal(err)
	}

	got, err := db.ChatSenders("alice")
	if err != nil {
		t.Fatalf("ChatSenders() error = %v", err)
	}
	if want := []string{"Alice", "You"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ChatSenders() = %v, want %v", got, want)
	}
}

func TestGetMessagesWindow(t *testing.T) {
	db, root := setup(t)
	writeExport(t, root, "alice.txt", aliceChat)
	if _, err := IndexAll(db, root, parse.Options{}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		hit       int
		around    int
		wantLen   int
		wantHit   int
		wantStart int
	}{
		{"middle", 2, 1, 3, 1, 1},
		{"clamped at start", 0, 2, 3, 0, 0},
		{"clamped at end", 4, 10, 5, 4, 0},
		{"no hit", -1, 1, 5, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, hitIdx, start, total, err := db.GetMessagesWindow("alice", tt.hit, tt.around)
			if err != nil {
				t.Fatalf("GetMessagesWindow() error = %v", err)
			}
			if len(msgs) != tt.wantLen || hitIdx != tt.wantHit || start != tt.wantStart || total != 5 {
				t.Errorf("GetMessagesWindow() len=%d hit=%d start=%d total=%d", len(msgs), hitIdx, start, total)
			}
		})
	}
}

func TestChatKey(t *testing.T) {
	if got := ChatKey(filepath.Join("family", "mum.txt")); got != "family/mum" {
		t.Errorf("ChatKey() = %q, want family/mum", got)
	}
}
