// Package open opens an indexed chat export in the user's editor.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/chatview/internal/index"
)

// OpenChat opens the export behind chatKey in $EDITOR (less by default),
// positioned at the line of message hitMsgID when it is >= 0.
func OpenChat(db *index.DB, chatKey string, hitMsgID int) error {
	cmd, err := Command(db, chatKey, hitMsgID)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command builds the editor invocation for OpenChat without running it.
func Command(db *index.DB, chatKey string, hitMsgID int) (*exec.Cmd, error) {
	chat, err := db.GetChatByKey(chatKey)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return nil, fmt.Errorf("chat not found: %s", chatKey)
	}

	filePath := chat.FilePath
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}

	lineNum := 1
	if hitMsgID >= 0 {
		msgs, err := db.GetMessages(chatKey)
		if err == nil {
			lineNum = lineFor(msgs, hitMsgID)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return editorCommand(editor, filePath, lineNum), nil
}

func lineFor(msgs []index.MessageRow, msgID int) int {
	for _, m := range msgs {
		if m.MsgID == msgID && m.LineNumber > 0 {
			return m.LineNumber
		}
	}
	return 1
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	var cmd *exec.Cmd

	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		cmd = exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		cmd = exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		cmd = exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		cmd = exec.Command(editor, filePath)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}
