package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("change-me")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "change-me") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
	if CheckPassword("", "change-me") {
		t.Error("expected empty hash to fail")
	}
}

func TestSessionToken(t *testing.T) {
	token, err := GenerateSessionToken(42, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	id, err := VerifySessionToken(token, "secret")
	if err != nil {
		t.Fatalf("VerifySessionToken: %v", err)
	}
	if id != 42 {
		t.Errorf("issuer id = %d, want 42", id)
	}

	if _, err := VerifySessionToken(token, "other-secret"); err != ErrInvalidToken {
		t.Errorf("wrong secret err = %v, want ErrInvalidToken", err)
	}
	if _, err := VerifySessionToken("garbage", "secret"); err != ErrInvalidToken {
		t.Errorf("garbage err = %v, want ErrInvalidToken", err)
	}
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := GenerateSessionToken(1, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	if _, err := VerifySessionToken(token, "secret"); err != ErrInvalidToken {
		t.Errorf("expired err = %v, want ErrInvalidToken", err)
	}
}

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		raw       string
		wantSet   bool
		wantValid bool
		wantValue int
	}{
		{`{"v": 3}`, true, true, 3},
		{`{"v": "4"}`, true, true, 4},
		{`{"v": " 2 "}`, true, true, 2},
		{`{"v": 3.5}`, true, false, 0},
		{`{"v": "abc"}`, true, false, 0},
		{`{"v": null}`, true, false, 0},
		{`{"v": ""}`, true, false, 0},
		{`{}`, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var body struct {
				V FlexInt `json:"v"`
			}
			if err := json.Unmarshal([]byte(tt.raw), &body); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if body.V.Set != tt.wantSet || body.V.Valid != tt.wantValid || body.V.Value != tt.wantValue {
				t.Errorf("got %+v, want set=%v valid=%v value=%d", body.V, tt.wantSet, tt.wantValid, tt.wantValue)
			}
		})
	}
}

func TestParseFlexInt(t *testing.T) {
	if v := ParseFlexInt("3"); !v.Valid || v.Value != 3 {
		t.Errorf("ParseFlexInt(3) = %+v", v)
	}
	if v := ParseFlexInt("x"); !v.Set || v.Valid {
		t.Errorf("ParseFlexInt(x) = %+v", v)
	}
	if v := ParseFlexInt(""); v.Set {
		t.Errorf("ParseFlexInt(\"\") = %+v", v)
	}
}

func TestFormatISO(t *testing.T) {
	ts := time.Date(2024, 1, 3, 10, 0, 0, 5_000_000, time.FixedZone("X", 3600))
	if got := FormatISO(ts); got != "2024-01-03T09:00:00.005Z" {
		t.Errorf("FormatISO = %q", got)
	}
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store := LocalStore{Dir: dir}

	localPath, url, err := store.Save("jobs/a.csv", []byte("x,y\n"), "text/csv")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "" {
		t.Errorf("url = %q, want empty", url)
	}
	if !strings.HasPrefix(localPath, dir) || filepath.Base(localPath) != "a.csv" {
		t.Errorf("localPath = %q", localPath)
	}
	data, err := os.ReadFile(localPath)
	if err != nil || string(data) != "x,y\n" {
		t.Errorf("file content = %q, err = %v", data, err)
	}
}

func TestLocalStoreRejectsPathsOutsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "exports")
	store := LocalStore{Dir: dir}

	for _, objectPath := range []string{"../x.csv", "a/../../x.csv", "/abs/x.csv", ""} {
		t.Run(objectPath, func(t *testing.T) {
			if _, _, err := store.Save(objectPath, []byte("x"), "text/csv"); err == nil {
				t.Errorf("Save(%q): expected error", objectPath)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(root, "x.csv")); !os.IsNotExist(err) {
		t.Errorf("file written outside dir (err = %v)", err)
	}
}
