package protocol

import "fmt"

// OutcomeKind is the classification of a daemon status code
type OutcomeKind int

const (
	OutcomeSuccess   OutcomeKind = iota // status == 0
	OutcomeDpaError                     // status < 0
	OutcomeUserError                    // status > 0
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeDpaError:
		return "dpa_error"
	case OutcomeUserError:
		return "user_error"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is a classified daemon status
type Outcome struct {
	Kind OutcomeKind
	Code int
}

// Classify maps a daemon status code to its outcome by sign.
//
// Negative codes come from the DPA layer (peripheral missing, mesh timeout);
// positive codes mean the daemon refused the request itself (bad parameters,
// unknown mType).
func Classify(status int) Outcome {
	switch {
	case status == 0:
		return Outcome{Kind: OutcomeSuccess}
	case status < 0:
		return Outcome{Kind: OutcomeDpaError, Code: status}
	default:
		return Outcome{Kind: OutcomeUserError, Code: status}
	}
}

// Err returns the typed error for the outcome, or nil on success.
// statusText is the daemon's statusStr and may be empty.
func (o Outcome) Err(statusText string) error {
	switch o.Kind {
	case OutcomeDpaError:
		return NewDpaError(o.Code, statusText)
	case OutcomeUserError:
		return NewUserError(o.Code, statusText)
	default:
		return nil
	}
}
