package contacts

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMatchPatterns(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{
			input: "+1 (503) 555-1234",
			expected: []string{
				"+1 (503) 555-1234",
				"1 (503) 555-1234",
				" (503) 555-1234",
				"15035551234",
				"5035551234",
			},
		},
		{
			input:    "5035551234",
			expected: []string{"5035551234"},
		},
		{
			input:    "  +44 20 7946 0958  ",
			expected: []string{"+44 20 7946 0958", "44 20 7946 0958", "4 20 7946 0958", "442079460958"},
		},
		{
			input:    "bob@example.com",
			expected: []string{"bob@example.com"},
		},
		{
			input:    "15035551234",
			expected: []string{"15035551234", "5035551234"},
		},
	}

	for _, test := range tests {
		got := MatchPatterns(test.input)
		if len(got) != len(test.expected) {
			t.Errorf("MatchPatterns(%q) = %q, want %q", test.input, got, test.expected)
			continue
		}
		for i := range got {
			if got[i] != test.expected[i] {
				t.Errorf("MatchPatterns(%q)[%d] = %q, want %q", test.input, i, got[i], test.expected[i])
			}
		}
	}
}

// newStore writes an AddressBook-shaped fixture database and returns its path.
func newStore(t *testing.T, dir, name string) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE ZABCDRECORD (Z_PK INTEGER PRIMARY KEY, ZFIRSTNAME TEXT, ZLASTNAME TEXT);
		CREATE TABLE ZABCDPHONENUMBER (Z_PK INTEGER PRIMARY KEY, ZOWNER INTEGER, ZFULLNUMBER TEXT);
		CREATE TABLE ZABCDEMAILADDRESS (Z_PK INTEGER PRIMARY KEY, ZOWNER INTEGER, ZADDRESS TEXT);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}
	return path, db
}

func addContact(t *testing.T, db *sql.DB, pk int, first, last any, phones []string, emails []string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO ZABCDRECORD (Z_PK, ZFIRSTNAME, ZLASTNAME) VALUES (?, ?, ?)`, pk, first, last); err != nil {
		t.Fatalf("insert record: %v", err)
	}
	for _, p := range phones {
		if _, err := db.Exec(`INSERT INTO ZABCDPHONENUMBER (ZOWNER, ZFULLNUMBER) VALUES (?, ?)`, pk, p); err != nil {
			t.Fatalf("insert phone: %v", err)
		}
	}
	for _, e := range emails {
		if _, err := db.Exec(`INSERT INTO ZABCDEMAILADDRESS (ZOWNER, ZADDRESS) VALUES (?, ?)`, pk, e); err != nil {
			t.Fatalf("insert email: %v", err)
		}
	}
}

func TestResolvePhoneNormalization(t *testing.T) {
	dir := t.TempDir()
	path, db := newStore(t, dir, "AddressBook-v22.abcddb")
	addContact(t, db, 1, "Ada", "Lovelace", []string{"5035551234"}, nil)

	r := NewResolver([]string{path})
	defer r.Close()

	// The wire handle carries country code and punctuation; the store has
	// bare digits. The digits-only pattern must bridge the gap.
	if got := r.Resolve("+1 (503) 555-1234"); got != "Ada Lovelace" {
		t.Errorf("Resolve = %q, want %q", got, "Ada Lovelace")
	}
}

func TestResolveStoredWithPunctuation(t *testing.T) {
	dir := t.TempDir()
	path, db := newStore(t, dir, "AddressBook-v22.abcddb")
	addContact(t, db, 1, "Grace", "Hopper", []string{"+1 (212) 555-0100"}, nil)

	r := NewResolver([]string{path})
	defer r.Close()

	if got := r.Resolve("12125550100"); got != "Grace Hopper" {
		t.Errorf("Resolve = %q, want %q", got, "Grace Hopper")
	}
}

func TestResolveEmail(t *testing.T) {
	dir := t.TempDir()
	path, db := newStore(t, dir, "AddressBook-v22.abcddb")
	addContact(t, db, 1, "Grace", nil, nil, []string{"grace@example.com"})

	r := NewResolver([]string{path})
	defer r.Close()

	if got := r.Resolve("grace@example.com"); got != "Grace" {
		t.Errorf("Resolve = %q, want %q", got, "Grace")
	}
}

func TestResolveFallback(t *testing.T) {
	dir := t.TempDir()
	path, db := newStore(t, dir, "AddressBook-v22.abcddb")
	addContact(t, db, 1, "Ada", "Lovelace", []string{"5035551234"}, nil)

	r := NewResolver([]string{path})
	defer r.Close()

	id := "+1 (999) 000-0000"
	if got := r.Resolve(id); got != id {
		t.Errorf("unmatched identifier should resolve to itself, got %q", got)
	}
	if got := r.Resolve(""); got != "" {
		t.Errorf("empty identifier should resolve to itself, got %q", got)
	}
}

func TestResolveIdempotent(t *testing.T) {
	dir := t.TempDir()
	path, db := newStore(t, dir, "AddressBook-v22.abcddb")
	addContact(t, db, 1, "Ada", "Lovelace", []string{"5035551234"}, nil)

	r := NewResolver([]string{path})
	defer r.Close()

	first := r.Resolve("5035551234")
	second := r.Resolve("5035551234")
	if first != second {
		t.Errorf("Resolve not idempotent: %q then %q", first, second)
	}
}

func TestResolveNamelessContactFallsBack(t *testing.T) {
	dir := t.TempDir()
	path, db := newStore(t, dir, "AddressBook-v22.abcddb")
	addContact(t, db, 1, nil, nil, []string{"5035551234"}, nil)

	r := NewResolver([]string{path})
	defer r.Close()

	if got := r.Resolve("5035551234"); got != "5035551234" {
		t.Errorf("contact with no name parts should fall back to the identifier, got %q", got)
	}
}

func TestResolverSkipsMissingStores(t *testing.T) {
	dir := t.TempDir()
	path, db := newStore(t, dir, "AddressBook-v22.abcddb")
	addContact(t, db, 1, "Ada", "Lovelace", []string{"5035551234"}, nil)

	r := NewResolver([]string{
		filepath.Join(dir, "does-not-exist.abcddb"),
		path,
	})
	defer r.Close()

	if got := r.Resolve("5035551234"); got != "Ada Lovelace" {
		t.Errorf("missing store should be skipped, got %q", got)
	}
}

func TestResolveFirstStoreWins(t *testing.T) {
	dir := t.TempDir()
	pathA, dbA := newStore(t, dir, "primary.abcddb")
	addContact(t, dbA, 1, "First", "Store", []string{"5035551234"}, nil)
	pathB, dbB := newStore(t, dir, "secondary.abcddb")
	addContact(t, dbB, 1, "Second", "Store", []string{"5035551234"}, nil)

	r := NewResolver([]string{pathA, pathB})
	defer r.Close()

	if got := r.Resolve("5035551234"); got != "First Store" {
		t.Errorf("first store in order should win, got %q", got)
	}
}

func TestStorePathsIn(t *testing.T) {
	paths := StorePathsIn("/tmp/ab")
	if len(paths) == 0 || paths[0] != filepath.Join("/tmp/ab", "AddressBook-v22.abcddb") {
		t.Errorf("primary store should come first, got %v", paths)
	}
}
