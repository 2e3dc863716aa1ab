package money

// Input tracks a money field being edited. The raw text may be anything the
// user typed; Cents always holds the last value that parsed.
type Input struct {
	raw   string
	cents int64
}

// NewInput creates an input seeded with a known-good amount
func NewInput(cents int64) *Input {
	return &Input{raw: FormatDecimal(cents), cents: cents}
}

// Set records raw text and commits it to Cents only when it parses.
// It reports whether the text was accepted.
func (in *Input) Set(raw string) bool {
	in.raw = raw
	cents, err := ParseAmount(raw)
	if err != nil {
		return false
	}
	in.cents = cents
	return true
}

// Raw returns the text as last entered
func (in *Input) Raw() string {
	return in.raw
}

// Cents returns the last known-good amount
func (in *Input) Cents() int64 {
	return in.cents
}

// Valid reports whether the current raw text parses
func (in *Input) Valid() bool {
	_, err := ParseAmount(in.raw)
	return err == nil
}

// Blur normalizes the raw text to the last known-good amount and returns it
func (in *Input) Blur() string {
	in.raw = FormatDecimal(in.cents)
	return in.raw
}
