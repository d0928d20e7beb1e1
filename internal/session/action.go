package session

type ActionKind int

const (
	ActNavigate ActionKind = iota
	ActSetQuery
	ActSetLocation
	ActSetType
	ActToggleTag
	ActSetSort
	ActLoadMore
	ActClearFilters
	ActToggleSaved
	ActToggleTheme
	ActTagFromDetail
	ActApply
)

// Action is one user interaction. Value carries the fragment, query, filter value, tag,
// sort key or job id depending on Kind.
type Action struct {
	Kind  ActionKind
	Value string
}

func Navigate(fragment string) Action { return Action{Kind: ActNavigate, Value: fragment} }
func SetQuery(q string) Action        { return Action{Kind: ActSetQuery, Value: q} }
func SetLocation(loc string) Action   { return Action{Kind: ActSetLocation, Value: loc} }
func SetType(t string) Action         { return Action{Kind: ActSetType, Value: t} }
func ToggleTag(tag string) Action     { return Action{Kind: ActToggleTag, Value: tag} }
func SetSort(key string) Action       { return Action{Kind: ActSetSort, Value: key} }
func LoadMore() Action                { return Action{Kind: ActLoadMore} }
func ClearFilters() Action            { return Action{Kind: ActClearFilters} }
func ToggleSaved(id string) Action    { return Action{Kind: ActToggleSaved, Value: id} }
func ToggleTheme() Action             { return Action{Kind: ActToggleTheme} }
func TagFromDetail(tag string) Action { return Action{Kind: ActTagFromDetail, Value: tag} }
func Apply(id string) Action          { return Action{Kind: ActApply, Value: id} }
