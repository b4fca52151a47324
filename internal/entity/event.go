package entity

// Category is the "what kind of thing" axis of the tracking taxonomy.
type Category string

const (
	CategoryNavigation Category = "navigation"
	CategoryEngagement Category = "engagement"
	CategoryConversion Category = "conversion"
	CategoryContent    Category = "content"
	CategoryResource   Category = "resource"
	CategoryLesson     Category = "lesson"
	CategoryCommunity  Category = "community"
)

// Categories lists every defined Category in declaration order.
var Categories = []Category{
	CategoryNavigation,
	CategoryEngagement,
	CategoryConversion,
	CategoryContent,
	CategoryResource,
	CategoryLesson,
	CategoryCommunity,
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Action is the "what kind of interaction" axis of the tracking taxonomy.
type Action string

const (
	ActionClick     Action = "click"
	ActionView      Action = "view"
	ActionDownload  Action = "download"
	ActionComplete  Action = "complete"
	ActionStart     Action = "start"
	ActionShare     Action = "share"
	ActionSubscribe Action = "subscribe"
	ActionSearch    Action = "search"
)

// Actions lists every defined Action in declaration order.
var Actions = []Action{
	ActionClick,
	ActionView,
	ActionDownload,
	ActionComplete,
	ActionStart,
	ActionShare,
	ActionSubscribe,
	ActionSearch,
}

// Valid reports whether a belongs to the closed action set.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// Event is a single user interaction. It is built and forwarded in the same call.
type Event struct {
	Action   Action
	Category Category
	Label    string // optional
	Value    *int64 // optional
}

// IntValue is a small helper for filling Event.Value.
func IntValue(v int64) *int64 {
	return &v
}
