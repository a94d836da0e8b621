package open

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Zuo-Peng/chatview/internal/parse"

	"github.com/Zuo-Peng/chatview/internal/index"
)

func TestLineFor(t *testing.T) {
	msgs := []index.MessageRow{
		{MsgID: 0, LineNumber: 1},
		{MsgID: 1, LineNumber: 2},
		{MsgID: 2, LineNumber: 5},
	}
	tests := []struct {
		id   int
		want int
	}{
		{0, 1},
		{2, 5},
		{9, 1},
	}
	for _, tt := range tests {
		if got := lineFor(msgs, tt.id); got != tt.want {
			t.Errorf("lineFor(%d) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"vim", []string{"vim", "+12", "chat.txt"}},
		{"/usr/bin/nvim", []string{"/usr/bin/nvim", "+12", "chat.txt"}},
		{"code", []string{"code", "--goto", "chat.txt:12"}},
		{"less", []string{"less", "+12", "chat.txt"}},
		{"nano", []string{"nano", "chat.txt"}},
	}
	for _, tt := range tests {
		cmd := editorCommand(tt.editor, "chat.txt", 12)
		if !reflect.DeepEqual(cmd.Args, tt.want) {
			t.Errorf("editorCommand(%q).Args = %v, want %v", tt.editor, cmd.Args, tt.want)
		}
	}
}

func TestOpenChat_NotFound(t *testing.T) {
	db, err := index.OpenDB(t.TempDir() + "/chatview.db")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := OpenChat(db, "missing", -1); err == nil {
		t.Error("OpenChat() with unknown key should fail")
	}
}

func TestCommand(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "exports")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	export := filepath.Join(root, "alice.txt")
	chat := "1/2/2024, 9:01 - Alice: morning\nwrapped\n1/2/2024, 9:02 - You: hey\n"
	if err := os.WriteFile(export, []byte(chat), 0644); err != nil {
		t.Fatal(err)
	}

	db, err := index.OpenDB(filepath.Join(dir, "chatview.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := index.IndexAll(db, root, parse.Options{}); err != nil {
		t.Fatal(err)
	}

	t.Setenv("EDITOR", "vim")
	cmd, err := Command(db, "alice", 1)
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	if want := []string{"vim", "+3", export}; !reflect.DeepEqual(cmd.Args, want) {
		t.Errorf("Command().Args = %v, want %v", cmd.Args, want)
	}
}
