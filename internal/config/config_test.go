package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveYear(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		args     []string
		expected int
	}{
		{nil, 2023},
		{[]string{}, 2023},
		{[]string{"2022"}, 2022},
		{[]string{"1999"}, 1999},
		{[]string{"banana"}, 2023},
		{[]string{""}, 2023},
	}

	for _, test := range tests {
		if got := ResolveYear(test.args, now); got != test.expected {
			t.Errorf("ResolveYear(%v) = %d, want %d", test.args, got, test.expected)
		}
	}
}

func TestLoadFileMissing(t *testing.T) {
	t.Setenv("WRAPPED_CONFIG_DIR", t.TempDir())

	fc, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fc.ChatDB != "" || fc.ContactsDir != "" {
		t.Errorf("missing config file should yield defaults, got %+v", fc)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WRAPPED_CONFIG_DIR", dir)

	content := "chat_db: /backups/chat.db\ncontacts_dir: /backups/AddressBook\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fc.ChatDB != "/backups/chat.db" {
		t.Errorf("ChatDB = %q", fc.ChatDB)
	}
	if fc.ContactsDir != "/backups/AddressBook" {
		t.Errorf("ContactsDir = %q", fc.ContactsDir)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WRAPPED_CONFIG_DIR", dir)

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("chat_db: [oops"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(); err == nil {
		t.Error("malformed config file should be an error")
	}
}

func TestResolvePrecedence(t *testing.T) {
	fc := &FileConfig{ChatDB: "/file/chat.db", ContactsDir: "/file/ab"}

	// Flags beat the file.
	chatDB, stores := Resolve(fc, "/flag/chat.db", "/flag/ab")
	if chatDB != "/flag/chat.db" {
		t.Errorf("chatDB = %q, want flag value", chatDB)
	}
	if len(stores) == 0 || stores[0] != filepath.Join("/flag/ab", "AddressBook-v22.abcddb") {
		t.Errorf("stores = %v, want flag-derived paths", stores)
	}

	// The file beats built-in defaults.
	chatDB, stores = Resolve(fc, "", "")
	if chatDB != "/file/chat.db" {
		t.Errorf("chatDB = %q, want file value", chatDB)
	}
	if len(stores) == 0 || stores[0] != filepath.Join("/file/ab", "AddressBook-v22.abcddb") {
		t.Errorf("stores = %v, want file-derived paths", stores)
	}
}

func TestGetConfigDirOverride(t *testing.T) {
	t.Setenv("WRAPPED_CONFIG_DIR", "/custom/dir")
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir: %v", err)
	}
	if dir != "/custom/dir" {
		t.Errorf("dir = %q, want override", dir)
	}
}
