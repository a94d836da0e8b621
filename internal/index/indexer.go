package index

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/scan"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Empty   int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d empty=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Empty, s.Pruned, s.Errors)
}

// ChatKey derives the stable key of an export from its path below the root.
func ChatKey(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// IndexAll brings the index in line with the exports below root: changed
// files are re-parsed, unchanged ones skipped and vanished ones pruned.
func IndexAll(db *DB, root string, opts parse.Options) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoot(root)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	if err := db.syncParseOptions(opts); err != nil {
		return stats, fmt.Errorf("parse options: %w", err)
	}

	// track which files we see, for pruning
	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		key := ChatKey(fi.Rel)
		seenKeys[key] = struct{}{}

		needs, err := needsUpdate(db, key, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			slog.Warn("check export", "path", fi.Path, "error", err)
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		log, err := parse.ParseFile(fi.Path, opts)
		if err != nil {
			stats.Errors++
			slog.Warn("parse export", "path", fi.Path, "error", err)
			continue
		}
		if log.Err() != nil {
			// chats without records are not stored
			delete(seenKeys, key)
			stats.Empty++
			continue
		}

		if err := indexChat(db, key, fi, log); err != nil {
			stats.Errors++
			slog.Warn("index export", "path", fi.Path, "error", err)
			continue
		}
		stats.Updated++
	}

	pruned, err := pruneChats(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

func needsUpdate(db *DB, chatKey string, mtime, size int64) (bool, error) {
	info, err := db.GetChatInfo(chatKey)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new chat
	}
	return info.Mtime != mtime || info.Size != size, nil
}

// chatTitle turns "WhatsApp Chat with Alice.txt" into "WhatsApp Chat with Alice".
func chatTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func indexChat(db *DB, chatKey string, fi scan.FileInfo, log *parse.ChatLog) error {
	// delete old data first
	if err := db.DeleteChat(chatKey); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	first := log.Messages[0]
	last := log.Messages[len(log.Messages)-1]
	_, err = tx.Exec(
		`INSERT INTO chats (chat_key, file_path, title, first_ts, last_ts, message_count, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		chatKey,
		fi.Path,
		chatTitle(fi.Path),
		first.Timestamp,
		last.Timestamp,
		len(log.Messages),
		fi.Mtime,
		fi.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (chat_key, msg_id, ts, sender, text, line_number)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range log.Messages {
		if _, err := stmt.Exec(chatKey, i, m.Timestamp, m.Sender, m.Text, m.Line); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneChats(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllChatKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteChat(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
