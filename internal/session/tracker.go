package session

import "github.com/abhisek/lexdrill/internal/progress"

// PassTotal is the number of correct answers an item needs before it can
// pass for the session.
const PassTotal = 3

// recordCorrect updates rs after a correct answer.
func recordCorrect(rs *ItemRoundState) {
	rs.Answers++
	rs.CorrectStreak++
	rs.CorrectTotal++
	if rs.CorrectStreak >= rs.RequiredStreak {
		rs.RequiredStreak = 1
		if rs.CorrectTotal >= PassTotal {
			rs.Passed = true
		}
	}
}

// recordMiss updates rs after a wrong or "don't know" answer.
func recordMiss(rs *ItemRoundState, dontKnow bool) {
	rs.Answers++
	rs.CorrectStreak = 0
	rs.RequiredStreak = 2
	rs.Passed = false
	rs.Wrong++
	if dontKnow {
		rs.DontKnow++
	}
}

// trackAnswer applies the session bookkeeping for one graded answer.
func trackAnswer(state *State, id int, correct, dontKnow bool) *ItemRoundState {
	rs := state.Rounds[id]
	state.Answers++
	if correct {
		recordCorrect(rs)
		delete(state.PendingReview, id)
	} else {
		state.WrongAnswers++
		recordMiss(rs, dontKnow)
		state.enqueueReplay(id)
		if state.Tier == progress.TierRecognition && !state.allIntroduced() {
			state.PendingReview[id] = true
		}
	}
	if rs.Passed {
		state.removeReplay(id)
	}
	return rs
}
