package gate

import "math/rand"

// Option is a single answer choice for a challenge stage.
type Option struct {
	Label   string
	Correct bool
}

// Stage is one question of the challenge pipeline. Exactly one option
// must be correct.
type Stage struct {
	Question string
	Options  []Option
}

// Shuffle returns the stage's option labels in uniformly random order
// together with the position the correct label landed on. The answer
// index is never part of what gets shown to the requester.
func (s Stage) Shuffle(rng *rand.Rand) ([]string, int) {
	labels := make([]string, len(s.Options))
	correct := -1
	for i, j := range rng.Perm(len(s.Options)) {
		labels[j] = s.Options[i].Label
		if s.Options[i].Correct {
			correct = j
		}
	}
	return labels, correct
}
