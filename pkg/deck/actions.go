package deck

// Action is a counter action.
type Action struct {
	Type string
}

// Counter action types.
const (
	Add      = "ADD"
	Subtract = "SUBTRACT"
	Reset    = "RESET"
)

// reduce applies a to count. Unknown actions leave it unchanged.
func reduce(count int, a Action) int {
	switch a.Type {
	case Add:
		return count + 1
	case Subtract:
		return count - 1
	case Reset:
		return 0
	}
	return count
}

// Dispatch sends an action into a bound component.
type Dispatch func(Action)
