// Package stats runs the year-in-review rollup battery against chat.db.
// Every query is an independent grouped count scoped to one time window;
// the whole battery is read-only and runs to completion sequentially.
package stats

import (
	"database/sql"
	"fmt"
	"time"

	"wrapped/internal/chatdb"
)

// NameResolver maps a raw handle to a display name. It must never fail;
// contacts.Resolver satisfies it.
type NameResolver interface {
	Resolve(identifier string) string
}

// TapbackSymbols maps the fixed tapback codes to their canonical glyphs.
var TapbackSymbols = map[int]string{
	chatdb.TapbackLoved:      "❤️",
	chatdb.TapbackLiked:      "👍",
	chatdb.TapbackDisliked:   "👎",
	chatdb.TapbackLaughed:    "😂",
	chatdb.TapbackEmphasized: "‼️",
	chatdb.TapbackQuestioned: "❓",
}

// SymbolCount is one row of a reaction histogram.
type SymbolCount struct {
	Symbol string
	Count  int64
}

// ServiceCount is one row of the transport breakdown. Percent is
// Count/total*100, 0 when the total is 0.
type ServiceCount struct {
	Service string
	Count   int64
	Percent float64
}

// ContactCount is one row of a contact ranking. Identifier is the raw
// handle; Name is the resolved display name.
type ContactCount struct {
	Identifier string
	Name       string
	Count      int64
}

// Summary holds every rollup for one year. Slice ordering is the display
// and export ordering.
type Summary struct {
	Year   int
	NoData bool

	Total    int64
	Sent     int64
	Received int64

	ReactionsGiven    int64
	ReactionsReceived int64

	TapbacksGiven []SymbolCount
	CustomGiven   []SymbolCount

	Monthly    [12]int64
	MonthlyMax int64

	TopReactions []SymbolCount
	Services     []ServiceCount

	TopSMSContacts     []ContactCount
	TopContacts        []ContactCount
	MonthlyTopContacts [12][]ContactCount
}

// Row filters. Plain messages carry associated_message_type 0; group
// management and other system rows carry a non-zero item_type and are
// excluded everywhere. Reactions are standalone rows with type >= 2000.
const (
	genuineCond  = "m.associated_message_type = 0 AND m.item_type = 0"
	reactionCond = "m.associated_message_type >= 2000"
	windowCond   = "m.date >= ? AND m.date < ?"
	topN         = 10
)

// Run executes the full battery for one window. When the window holds no
// messages it short-circuits with NoData set and no further queries.
func Run(db *sql.DB, resolver NameResolver, win chatdb.Window) (*Summary, error) {
	s := &Summary{Year: win.Year}

	err := db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN m.is_from_me = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN m.is_from_me = 0 THEN 1 ELSE 0 END), 0)
		FROM message m
		WHERE `+windowCond+` AND `+genuineCond,
		win.Start, win.End).Scan(&s.Total, &s.Sent, &s.Received)
	if err != nil {
		return nil, fmt.Errorf("message counts: %w", err)
	}

	if s.Total == 0 {
		s.NoData = true
		return s, nil
	}

	err = db.QueryRow(`
		SELECT COALESCE(SUM(CASE WHEN m.is_from_me = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN m.is_from_me = 0 THEN 1 ELSE 0 END), 0)
		FROM message m
		WHERE `+windowCond+` AND `+reactionCond,
		win.Start, win.End).Scan(&s.ReactionsGiven, &s.ReactionsReceived)
	if err != nil {
		return nil, fmt.Errorf("reaction counts: %w", err)
	}

	if s.TapbacksGiven, err = tapbacksGiven(db, win); err != nil {
		return nil, err
	}
	if s.CustomGiven, err = customGiven(db, win); err != nil {
		return nil, err
	}
	if err = monthlyVolume(db, win, s); err != nil {
		return nil, err
	}
	if s.TopReactions, err = topReactions(db, win); err != nil {
		return nil, err
	}
	if s.Services, err = serviceBreakdown(db, win); err != nil {
		return nil, err
	}
	if s.TopSMSContacts, err = topContacts(db, resolver, win.Start, win.End, "SMS"); err != nil {
		return nil, err
	}
	if s.TopContacts, err = topContacts(db, resolver, win.Start, win.End, ""); err != nil {
		return nil, err
	}
	for i := 0; i < 12; i++ {
		start, end := win.MonthWindow(time.Month(i + 1))
		s.MonthlyTopContacts[i], err = topContacts(db, resolver, start, end, "")
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

// tapbacksGiven is the reaction-style histogram: fixed tapback kinds,
// reactions sent by the local user. Ties break by tapback code so equal
// counts always come out in the same order.
func tapbacksGiven(db *sql.DB, win chatdb.Window) ([]SymbolCount, error) {
	rows, err := db.Query(`
		SELECT m.associated_message_type, COUNT(*) AS cnt
		FROM message m
		WHERE `+windowCond+`
			AND m.associated_message_type BETWEEN ? AND ?
			AND m.is_from_me = 1
		GROUP BY m.associated_message_type
		ORDER BY cnt DESC, m.associated_message_type ASC
	`, win.Start, win.End, chatdb.TapbackLoved, chatdb.TapbackQuestioned)
	if err != nil {
		return nil, fmt.Errorf("tapback histogram: %w", err)
	}
	defer rows.Close()

	var out []SymbolCount
	for rows.Next() {
		var code int
		var cnt int64
		if err := rows.Scan(&code, &cnt); err != nil {
			return nil, err
		}
		sym, ok := TapbackSymbols[code]
		if !ok {
			sym = "?"
		}
		out = append(out, SymbolCount{Symbol: sym, Count: cnt})
	}
	return out, rows.Err()
}

// customGiven is the free-form emoji reaction histogram, given only.
func customGiven(db *sql.DB, win chatdb.Window) ([]SymbolCount, error) {
	rows, err := db.Query(`
		SELECT m.associated_message_emoji, COUNT(*) AS cnt
		FROM message m
		WHERE `+windowCond+`
			AND m.associated_message_emoji IS NOT NULL
			AND m.associated_message_emoji <> ''
			AND m.is_from_me = 1
		GROUP BY m.associated_message_emoji
		ORDER BY cnt DESC, m.associated_message_emoji ASC
		LIMIT ?
	`, win.Start, win.End, topN)
	if err != nil {
		return nil, fmt.Errorf("custom reaction histogram: %w", err)
	}
	defer rows.Close()
	return scanSymbolCounts(rows)
}

// monthlyVolume fills the 12 calendar buckets and the max bucket used for
// bar scaling. Months without traffic stay zero.
func monthlyVolume(db *sql.DB, win chatdb.Window, s *Summary) error {
	for i := 0; i < 12; i++ {
		start, end := win.MonthWindow(time.Month(i + 1))
		err := db.QueryRow(`
			SELECT COUNT(*) FROM message m
			WHERE `+windowCond+` AND `+genuineCond,
			start, end).Scan(&s.Monthly[i])
		if err != nil {
			return fmt.Errorf("monthly volume (%s): %w", time.Month(i+1), err)
		}
		if s.Monthly[i] > s.MonthlyMax {
			s.MonthlyMax = s.Monthly[i]
		}
	}
	return nil
}

// topReactions combines custom symbols with canonical tapback glyphs over
// reactions in both directions.
func topReactions(db *sql.DB, win chatdb.Window) ([]SymbolCount, error) {
	rows, err := db.Query(`
		SELECT COALESCE(NULLIF(m.associated_message_emoji, ''),
			CASE m.associated_message_type
				WHEN 2000 THEN '❤️'
				WHEN 2001 THEN '👍'
				WHEN 2002 THEN '👎'
				WHEN 2003 THEN '😂'
				WHEN 2004 THEN '‼️'
				WHEN 2005 THEN '❓'
			END) AS symbol,
			COUNT(*) AS cnt
		FROM message m
		WHERE `+windowCond+` AND `+reactionCond+`
		GROUP BY symbol
		HAVING symbol IS NOT NULL
		ORDER BY cnt DESC, symbol ASC
		LIMIT ?
	`, win.Start, win.End, topN)
	if err != nil {
		return nil, fmt.Errorf("top reactions: %w", err)
	}
	defer rows.Close()
	return scanSymbolCounts(rows)
}

// serviceBreakdown groups genuine messages by delivery service (iMessage,
// SMS, RCS, ...) and derives each share of the total.
func serviceBreakdown(db *sql.DB, win chatdb.Window) ([]ServiceCount, error) {
	rows, err := db.Query(`
		SELECT COALESCE(m.service, 'unknown'), COUNT(*) AS cnt
		FROM message m
		WHERE `+windowCond+` AND `+genuineCond+`
		GROUP BY m.service
		ORDER BY cnt DESC, m.service ASC
	`, win.Start, win.End)
	if err != nil {
		return nil, fmt.Errorf("service breakdown: %w", err)
	}
	defer rows.Close()

	var out []ServiceCount
	var total int64
	for rows.Next() {
		var sc ServiceCount
		if err := rows.Scan(&sc.Service, &sc.Count); err != nil {
			return nil, err
		}
		total += sc.Count
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Percent = Percent(out[i].Count, total)
	}
	return out, nil
}

// topContacts ranks handles by genuine message count, optionally filtered
// to one service, and resolves each handle to a display name.
func topContacts(db *sql.DB, resolver NameResolver, start, end int64, service string) ([]ContactCount, error) {
	q := `
		SELECT h.id, COUNT(*) AS cnt
		FROM message m
		JOIN handle h ON m.handle_id = h.ROWID
		WHERE ` + windowCond + ` AND ` + genuineCond
	args := []any{start, end}
	if service != "" {
		q += ` AND m.service = ?`
		args = append(args, service)
	}
	q += `
		GROUP BY h.id
		ORDER BY cnt DESC, h.id ASC
		LIMIT ?`
	args = append(args, topN)

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("top contacts: %w", err)
	}
	defer rows.Close()

	var out []ContactCount
	for rows.Next() {
		var cc ContactCount
		if err := rows.Scan(&cc.Identifier, &cc.Count); err != nil {
			return nil, err
		}
		cc.Name = resolver.Resolve(cc.Identifier)
		out = append(out, cc)
	}
	return out, rows.Err()
}

// Percent returns count/total*100, 0 when total is 0.
func Percent(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func scanSymbolCounts(rows *sql.Rows) ([]SymbolCount, error) {
	var out []SymbolCount
	for rows.Next() {
		var sc SymbolCount
		if err := rows.Scan(&sc.Symbol, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
