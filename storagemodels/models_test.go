/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"reflect"
	"testing"

	"github.com/suparena/userlookup/errors"
)

func TestRecordString(t *testing.T) {
	rec := Record{
		"username": "alice",
		"raw":      []byte("bytes"),
		"age":      int64(42),
		"nothing":  nil,
	}

	tests := []struct {
		field string
		want  string
	}{
		{"username", "alice"},
		{"raw", "bytes"},
		{"age", "42"},
		{"nothing", ""},
		{"missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := rec.String(tt.field); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestRecordClone(t *testing.T) {
	rec := Record{"username": "alice"}
	clone := rec.Clone()
	clone["username"] = "bob"

	if rec["username"] != "alice" {
		t.Error("Clone should not share storage with the original")
	}
	if Record(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestUserFromRecord(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		user, err := UserFromRecord(Record{"username": "alice", "email": "alice@example.com"})
		if err != nil {
			t.Fatalf("UserFromRecord failed: %v", err)
		}
		if user.Username != "alice" || user.Email.String() != "alice@example.com" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	t.Run("MissingField", func(t *testing.T) {
		_, err := UserFromRecord(Record{"username": "alice"})
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		_, err := UserFromRecord(Record{"username": "alice", "email": "not-an-email"})
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("NullEmail", func(t *testing.T) {
		user, err := UserFromRecord(Record{"username": "alice", "email": nil})
		if err != nil {
			t.Fatalf("UserFromRecord failed: %v", err)
		}
		if user.Email != "" {
			t.Errorf("expected empty email, got %q", user.Email)
		}
	})
}

func TestSchemaValidate(t *testing.T) {
	if err := UserSchema.Validate(); err != nil {
		t.Fatalf("UserSchema should be valid: %v", err)
	}

	bad := []Schema{
		{Table: "users; DROP TABLE users", KeyField: "username"},
		{Table: "users", KeyField: `user"name`},
		{Table: "users", KeyField: "username", Fields: []string{"email", "1st"}},
		{Table: "", KeyField: "username"},
	}
	for _, s := range bad {
		if err := s.Validate(); !errors.IsValidationError(err) {
			t.Errorf("Validate(%+v) = %v, want validation error", s, err)
		}
	}
}

func TestSchemaColumns(t *testing.T) {
	s := Schema{Table: "users", KeyField: "username", Fields: []string{"email", "username", "email", "name"}}
	want := []string{"username", "email", "name"}
	if got := s.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}

func TestSchemaClone(t *testing.T) {
	clone := UserSchema.Clone()
	clone.Fields[0] = "changed"
	if UserSchema.Fields[0] != FieldUsername {
		t.Error("Clone should not share the Fields slice")
	}
}
