package domain

type Status string

const (
	StatusNone      Status = "None"
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusCompleted Status = "Completed"
)

type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
)

// Transition is one edge of the order lifecycle and who may take it.
type Transition struct {
	From      Status
	To        Status
	AdminOnly bool
}

var transitions = []Transition{
	{From: StatusNone, To: StatusPending},
	{From: StatusCompleted, To: StatusPending},
	{From: StatusPending, To: StatusPreparing, AdminOnly: true},
	{From: StatusPreparing, To: StatusReady, AdminOnly: true},
	{From: StatusReady, To: StatusCompleted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusPending, StatusPreparing, StatusReady, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether an order is still being worked on.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusPreparing || s == StatusReady
}

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusPreparing:
		return 2
	case StatusReady:
		return 3
	case StatusCompleted:
		return 4
	}
	return 0
}

// Before reports whether s comes earlier than other in the lifecycle.
func (s Status) Before(other Status) bool {
	return s.rank() < other.rank()
}

// CheckTransition validates moving from s to next on behalf of actor.
func (s Status) CheckTransition(next Status, actor Actor) error {
	for _, t := range transitions {
		if t.From != s || t.To != next {
			continue
		}
		if t.AdminOnly && actor != ActorAdmin {
			return ErrNotAdmin
		}
		return nil
	}
	return ErrInvalidTransition
}

func (s Status) Description() string {
	switch s {
	case StatusPending:
		return "Your order was received and is awaiting approval."
	case StatusPreparing:
		return "Your order was approved and is being prepared."
	case StatusReady:
		return "Your order is ready, enjoy your meal!"
	case StatusCompleted:
		return "Your order is complete."
	}
	return ""
}
