package entities

type (
	Identity string
	Level    int
)

// MinLevel is the level every entity starts at.
const MinLevel Level = 1

// Entity is the capability contract shared by every vehicle variant.
// Level only moves up: by exactly one through Increment, or to any
// strictly greater value through TrySet.
type Entity interface {
	Identity() Identity
	Level() Level
	Increment()
	TrySet(Level) error
	Activate() string
}
