package harness

// Outcome of a step that the rules accepted.
const OutcomeApplied = "applied"

// TraceEvent records one attempted move and the game after it.
type TraceEvent struct {
	Step    int    `json:"step"`
	Player  int    `json:"player"`
	From    string `json:"from"`
	To      string `json:"to"`
	Facing  string `json:"facing,omitempty"`
	Outcome string `json:"outcome"` // OutcomeApplied or a rule error code
	Board   string `json:"board"`
	Status  string `json:"status"`
}

// FinalState is the game once every step has run.
type FinalState struct {
	Status        string `json:"status"`
	CurrentPlayer int    `json:"current_player"`
	FirstRound    bool   `json:"first_round"`
	MoveCount     int    `json:"move_count"`
	Board         string `json:"board"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step behaved as scripted and every
	// expectation held.
	Pass bool `json:"pass"`

	Trace []TraceEvent `json:"trace"`

	Final FinalState `json:"final"`

	// Errors is empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
