// Package contacts resolves raw message handles (phone numbers, emails)
// to display names by searching the macOS AddressBook stores.
package contacts

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// addressBookFile is the per-source database name used by Contacts.app.
const addressBookFile = "AddressBook-v22.abcddb"

// DefaultStorePaths enumerates candidate AddressBook databases: the primary
// store plus one per synced source (iCloud, Google, Exchange, ...). Paths
// that don't exist are returned anyway; the resolver skips them on open.
func DefaultStorePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	root := filepath.Join(home, "Library", "Application Support", "AddressBook")
	paths := []string{filepath.Join(root, addressBookFile)}
	matches, _ := filepath.Glob(filepath.Join(root, "Sources", "*", addressBookFile))
	paths = append(paths, matches...)
	return paths
}

// StorePathsIn enumerates stores under an alternate AddressBook root.
func StorePathsIn(root string) []string {
	paths := []string{filepath.Join(root, addressBookFile)}
	matches, _ := filepath.Glob(filepath.Join(root, "Sources", "*", addressBookFile))
	return append(paths, matches...)
}

// Resolver maps contact identifiers to display names. A handle that matches
// no store resolves to itself, so Resolve never fails. Store and pattern
// iteration order is part of the contract: when a short pattern could match
// several contacts, the first store and first pattern in order win.
type Resolver struct {
	stores []*sql.DB
	cache  map[string]string
}

// NewResolver opens each store read-only. Stores that are missing or fail
// to open are skipped; an empty store list is fine (everything falls back).
func NewResolver(paths []string) *Resolver {
	r := &Resolver{cache: make(map[string]string)}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		db, err := sql.Open("sqlite", "file:"+p+"?mode=ro")
		if err != nil {
			continue
		}
		if err := db.Ping(); err != nil {
			db.Close()
			continue
		}
		r.stores = append(r.stores, db)
	}
	return r
}

// Close releases all store handles.
func (r *Resolver) Close() {
	for _, db := range r.stores {
		db.Close()
	}
	r.stores = nil
}

// Resolve returns the display name for a handle, or the handle itself when
// no contact matches.
func (r *Resolver) Resolve(identifier string) string {
	if name, ok := r.cache[identifier]; ok {
		return name
	}
	name := r.lookup(identifier)
	r.cache[identifier] = name
	return name
}

func (r *Resolver) lookup(identifier string) string {
	patterns := MatchPatterns(identifier)
	for _, db := range r.stores {
		for _, pat := range patterns {
			first, last, ok := findByPhone(db, pat)
			if !ok {
				first, last, ok = findByEmail(db, pat)
			}
			if ok {
				if name := composeName(first, last); name != "" {
					return name
				}
				return identifier
			}
		}
	}
	return identifier
}

// MatchPatterns builds the ordered fallback chain for an identifier:
// the trimmed input, plus-stripped and country-code-stripped variants,
// the digits-only rendering, and (for 11-digit NANP numbers) the
// digits-only form without the long-distance 1. Duplicates are dropped
// but order is preserved.
func MatchPatterns(identifier string) []string {
	id := strings.TrimSpace(identifier)

	var patterns []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		patterns = append(patterns, p)
	}

	add(id)
	if strings.HasPrefix(id, "+") {
		add(id[1:])
		if len(id) > 2 {
			add(id[2:])
		}
	}
	digits := digitsOnly(id)
	add(digits)
	if len(digits) == 11 && digits[0] == '1' {
		add(digits[1:])
	}
	return patterns
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// findByPhone matches the pattern as a substring of the stored number with
// punctuation stripped. Substring matching trades a little precision for
// recall across country-code and formatting differences.
func findByPhone(db *sql.DB, pattern string) (first, last sql.NullString, ok bool) {
	err := db.QueryRow(`
		SELECT r.ZFIRSTNAME, r.ZLASTNAME
		FROM ZABCDPHONENUMBER p
		JOIN ZABCDRECORD r ON p.ZOWNER = r.Z_PK
		WHERE REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(p.ZFULLNUMBER,
			' ', ''), '-', ''), '(', ''), ')', ''), '+', '') LIKE ?
		ORDER BY r.Z_PK
		LIMIT 1
	`, "%"+pattern+"%").Scan(&first, &last)
	if err != nil {
		return sql.NullString{}, sql.NullString{}, false
	}
	return first, last, true
}

func findByEmail(db *sql.DB, pattern string) (first, last sql.NullString, ok bool) {
	err := db.QueryRow(`
		SELECT r.ZFIRSTNAME, r.ZLASTNAME
		FROM ZABCDEMAILADDRESS e
		JOIN ZABCDRECORD r ON e.ZOWNER = r.Z_PK
		WHERE e.ZADDRESS = ?
		ORDER BY r.Z_PK
		LIMIT 1
	`, pattern).Scan(&first, &last)
	if err != nil {
		return sql.NullString{}, sql.NullString{}, false
	}
	return first, last, true
}

func composeName(first, last sql.NullString) string {
	var parts []string
	if s := strings.TrimSpace(first.String); first.Valid && s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(last.String); last.Valid && s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
