package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/chatview/internal/index"
)

type Result struct {
	ChatKey string
	MsgID   int
	Title   string
	Ts      string
	Sender  string
	LastTs  string
	Snippet string
	Rank    float64
}

type Options struct {
	Query  string
	Sender string // "" = all senders
	Chat   string // "" = all chats
	Limit  int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	runes := []rune(text)
	idx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if idx < 0 || len(strings.ToLower(text)) != len(text) {
		// no match (or case folding shifted offsets), return head
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}
	qLen := len([]rune(query))
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + qLen + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+qLen]) + "<<<" +
		string(runes[runePos+qLen:end])
	return prefix + snippet + suffix
}

// Search finds messages matching the query and keeps the best hit per chat.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	// Fetch more results before dedup so we still have enough after
	origLimit := opts.Limit
	opts.Limit = origLimit * 3

	var results []Result
	var err error
	if containsCJK(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		results, err = searchFTS(db, opts)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.ChatKey] {
			continue
		}
		seen[r.ChatKey] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

// filters appends the sender/chat conditions shared by both search paths.
func filters(opts Options, conditions []string, args []interface{}) ([]string, []interface{}) {
	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ?")
		args = append(args, opts.Sender)
	}
	if opts.Chat != "" {
		conditions = append(conditions, "m.chat_key = ?")
		args = append(args, opts.Chat)
	}
	return conditions, args
}

// ftsOperators may appear bare between two terms of a query.
var ftsOperators = map[string]bool{"AND": true, "OR": true, "NOT": true}

// ftsQuery turns user input into an FTS5 expression. Every term becomes a
// quoted string, so colons, apostrophes and quotes in chat text are matched
// literally; a trailing * keeps prefix search.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	var terms []string
	for i, f := range fields {
		if ftsOperators[f] && i > 0 && i < len(fields)-1 && len(terms) > 0 {
			terms = append(terms, f)
			continue
		}
		prefix := strings.HasSuffix(f, "*")
		f = strings.TrimRight(f, "*")
		if f == "" {
			continue
		}
		term := `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		if prefix {
			term += "*"
		}
		terms = append(terms, term)
	}
	return strings.Join(terms, " ")
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	match := ftsQuery(opts.Query)
	if match == "" {
		return nil, nil
	}
	conditions := []string{"messages_fts MATCH ?"}
	args := []interface{}{match}
	conditions, args = filters(opts, conditions, args)

	query := fmt.Sprintf(`
		SELECT
			m.chat_key,
			m.msg_id,
			c.title,
			m.ts,
			m.sender,
			c.last_ts,
			snippet(messages_fts, 0, '>>>','<<<', '...', 40) as snip,
			bm25(messages_fts, 1.0) as rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.rowid
		JOIN chats c ON m.chat_key = c.chat_key
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"m.text LIKE ?"}
	args := []interface{}{"%" + opts.Query + "%"}
	conditions, args = filters(opts, conditions, args)

	query := fmt.Sprintf(`
		SELECT
			m.chat_key,
			m.msg_id,
			c.title,
			m.ts,
			m.sender,
			c.last_ts,
			m.text
		FROM messages m
		JOIN chats c ON m.chat_key = c.chat_key
		WHERE %s
		ORDER BY m.chat_key, m.msg_id
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(&r.ChatKey, &r.MsgID, &r.Title, &r.Ts, &r.Sender, &r.LastTs, &fullText); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.ChatKey, &r.MsgID, &r.Title, &r.Ts,
			&r.Sender, &r.LastTs, &r.Snippet, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListChats returns every indexed chat as a result pointing at its last
// message, optionally narrowed to titles containing opts.Query and to chats
// where opts.Sender wrote.
func ListChats(db *index.DB, opts Options) ([]Result, error) {
	query := `
		SELECT
			c.chat_key,
			c.message_count - 1,
			c.title,
			c.last_ts,
			COALESCE(m.sender, ''),
			c.last_ts,
			COALESCE(m.text, '')
		FROM chats c
		LEFT JOIN messages m ON m.chat_key = c.chat_key AND m.msg_id = c.message_count - 1
	`
	var conditions []string
	var args []interface{}
	if opts.Query != "" {
		conditions = append(conditions, "c.title LIKE ?")
		args = append(args, "%"+opts.Query+"%")
	}
	if opts.Sender != "" {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM messages s WHERE s.chat_key = c.chat_key AND s.sender = ?)")
		args = append(args, opts.Sender)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.mtime DESC, c.chat_key"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ChatKey, &r.MsgID, &r.Title, &r.Ts, &r.Sender, &r.LastTs, &r.Snippet); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
