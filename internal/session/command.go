package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingArg     = errors.New("missing argument")
)

// Command is one line typed into the terminal client.
type Command struct {
	Name  string
	Usage string
	Help  string
	// NeedsArg commands reject an empty argument; the others ignore it.
	NeedsArg bool
	build    func(arg string) Action
}

// Commands lists what the terminal client understands, in help order.
var Commands = []Command{
	{Name: "home", Usage: "home", Help: "show the job list", build: func(string) Action { return Navigate("#/") }},
	{Name: "job", Usage: "job <id>", Help: "open a job", NeedsArg: true, build: func(id string) Action { return Navigate("#/job/" + id) }},
	{Name: "saved", Usage: "saved", Help: "show saved jobs", build: func(string) Action { return Navigate("#/saved") }},
	{Name: "about", Usage: "about", Help: "about this app", build: func(string) Action { return Navigate("#/about") }},
	{Name: "go", Usage: "go <fragment>", Help: "navigate to a raw route like #/job/1", NeedsArg: true, build: Navigate},
	{Name: "q", Usage: "q [text]", Help: "search title, company and description", build: SetQuery},
	{Name: "loc", Usage: "loc [location]", Help: "filter by location, empty for any", build: SetLocation},
	{Name: "type", Usage: "type [type]", Help: "filter by job type, empty for any", build: SetType},
	{Name: "tag", Usage: "tag <tag>", Help: "toggle a tag filter", NeedsArg: true, build: ToggleTag},
	{Name: "only", Usage: "only <tag>", Help: "clear filters and list jobs with this tag", NeedsArg: true, build: TagFromDetail},
	{Name: "sort", Usage: "sort newest|title-ascending", Help: "change the sort order", NeedsArg: true, build: SetSort},
	{Name: "more", Usage: "more", Help: "load the next page", build: func(string) Action { return LoadMore() }},
	{Name: "clear", Usage: "clear", Help: "reset all filters", build: func(string) Action { return ClearFilters() }},
	{Name: "save", Usage: "save <id>", Help: "save or unsave a job", NeedsArg: true, build: ToggleSaved},
	{Name: "theme", Usage: "theme", Help: "switch between light and dark", build: func(string) Action { return ToggleTheme() }},
	{Name: "apply", Usage: "apply <id>", Help: "apply to a job", NeedsArg: true, build: Apply},
}

// ParseCommand turns an input line into an action.
func ParseCommand(line string) (Action, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	for _, c := range Commands {
		if c.Name != name {
			continue
		}
		if c.NeedsArg && arg == "" {
			return Action{}, fmt.Errorf("%w: usage %s", ErrMissingArg, c.Usage)
		}
		return c.build(arg), nil
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}
