package session

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want Action
	}{
		{"home", Navigate("#/")},
		{"  JOB 42 ", Navigate("#/job/42")},
		{"saved", Navigate("#/saved")},
		{"go #/about", Navigate("#/about")},
		{"q senior go engineer", SetQuery("senior go engineer")},
		{"q", SetQuery("")},
		{"loc Remote", SetLocation("Remote")},
		{"type", SetType("")},
		{"tag go", ToggleTag("go")},
		{"only sql", TagFromDetail("sql")},
		{"sort title-ascending", SetSort("title-ascending")},
		{"more", LoadMore()},
		{"clear", ClearFilters()},
		{"save a", ToggleSaved("a")},
		{"theme", ToggleTheme()},
		{"apply b", Apply("b")},
	}
	for _, tc := range cases {
		got, err := ParseCommand(tc.line)
		if err != nil {
			t.Fatalf("%q: unexpected err: %v", tc.line, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %+v, got %+v", tc.line, tc.want, got)
		}
	}
}

func TestParseCommand_Errors(t *testing.T) {
	if _, err := ParseCommand("launch"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if _, err := ParseCommand(""); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand for empty line, got %v", err)
	}
	for _, line := range []string{"job", "tag  ", "save", "only"} {
		if _, err := ParseCommand(line); !errors.Is(err, ErrMissingArg) {
			t.Fatalf("%q: expected ErrMissingArg, got %v", line, err)
		}
	}
}
