package runner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/lexdrill/internal/content"
	"github.com/abhisek/lexdrill/internal/progress"
	"github.com/abhisek/lexdrill/internal/sequencer"
	"github.com/abhisek/lexdrill/internal/session"
)

// Typed words with a special meaning.
var (
	dontKnowWords = map[string]bool{"?": true, "idk": true, "dont know": true, "don't know": true}
	quitWords     = map[string]bool{"q": true, "quit": true, "exit": true}
)

// transcriptLimit bounds the feedback lines kept for the view.
const transcriptLimit = 200

type phase int

const (
	phaseIntro phase = iota
	phaseAsk
	phaseFeedback
	phaseDone
)

// model is the bubbletea model of one drill session. Update is the only
// place session state is read or written.
type model struct {
	ctx   context.Context
	r     *Runner
	state *session.State

	phase  phase
	item   content.Item
	intro  []content.Item
	round  *session.Round
	scope  *sequencer.Scope
	events chan sequencer.Event
	graded int

	input       textinput.Model
	confirmQuit bool
	playing     string
	countdown   int
	cueLive     bool
	hint        string
	transcript  []string

	outcome *Outcome
	err     error
}

var _ tea.Model = (*model)(nil)

func newModel(ctx context.Context, r *Runner, state *session.State) *model {
	ti := textinput.New()
	ti.Placeholder = strings.Join(r.norm.Options(), " / ")
	ti.CharLimit = 32
	return &model{
		ctx:     ctx,
		r:       r,
		state:   state,
		input:   ti,
		outcome: &Outcome{State: state},
	}
}

func (m *model) Init() tea.Cmd {
	m.log("Tier %d session: %d items.", m.state.Tier, len(m.state.Active))
	return tea.Batch(m.input.Focus(), m.next())
}

func (m *model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		return m, m.handleStep(sequencer.Event(msg))

	case presentedMsg:
		return m, m.handlePresented(msg)

	case nextRoundMsg:
		if m.phase == phaseFeedback && msg.graded == m.graded {
			return m, m.next()
		}
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	// Forward to input while waiting for an answer.
	if m.phase == phaseAsk {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// next selects the next target and starts presenting it, or finishes the
// session when the batch is exhausted.
func (m *model) next() tea.Cmd {
	target := session.Select(m.state, m.r.planner.Rand)
	if target == nil {
		m.outcome.Completed = true
		return m.finish()
	}
	if target.Intro {
		return m.introduce(target)
	}
	return m.ask(target)
}

// introduce plays a forced introduction. Introductions are not graded.
func (m *model) introduce(target *session.Target) tea.Cmd {
	m.intro = m.intro[:0]
	m.log("New words:")
	for _, id := range target.ItemIDs {
		item, ok := m.state.Item(id)
		if !ok {
			continue
		}
		m.intro = append(m.intro, item)
		m.log("  %s (%s)", item.Text, item.Attribute)
	}

	scope := m.r.seq.Begin(m.ctx)
	m.scope = scope
	m.phase = phaseIntro
	m.resetRoundView()

	items := append([]content.Item(nil), m.intro...)
	return m.present(scope, func() error { return scope.Introduce(items) })
}

// ask starts a graded round for target.
func (m *model) ask(target *session.Target) tea.Cmd {
	item, ok := m.state.Item(target.ItemID())
	if !ok {
		m.err = fmt.Errorf("target %d: %w", target.ItemID(), session.ErrUnknownItem)
		return m.stop()
	}

	timing := m.r.seq.Timing()
	scope := m.r.seq.Begin(m.ctx)
	m.round = session.NewRound(target, scope.Token(), m.r.seq.Clock().Now(), timing.InputGuard)
	scope.Guard(timing.InputGuard)
	if m.state.Tier == progress.TierTimed {
		scope.ExpectCue()
	}

	m.scope = scope
	m.item = item
	m.phase = phaseAsk
	m.resetRoundView()
	m.input.Reset()

	return m.present(scope, m.r.roundSteps(scope, m.state.Tier, item))
}

func (m *model) resetRoundView() {
	m.playing = ""
	m.countdown = 0
	m.cueLive = false
	m.hint = ""
}

// present runs steps on a command goroutine and relays the scope's events
// back as messages.
func (m *model) present(scope *sequencer.Scope, steps func() error) tea.Cmd {
	events := make(chan sequencer.Event, 8)
	scope.Observe(func(ev sequencer.Event) {
		select {
		case events <- ev:
		case <-scope.Context().Done():
		}
	})
	m.events = events

	token := scope.Token()
	run := func() tea.Msg {
		defer close(events)
		return presentedMsg{token: token, err: steps()}
	}
	return tea.Batch(run, waitStep(events))
}

// waitStep delivers the next event of a presentation.
func waitStep(events <-chan sequencer.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return stepMsg(ev)
	}
}

func (m *model) current(token uint64) bool {
	return m.scope != nil && m.scope.Token() == token
}

func (m *model) handleStep(ev sequencer.Event) tea.Cmd {
	if !m.current(ev.Token) {
		return nil
	}
	switch ev.Kind {
	case sequencer.EventClip:
		m.playing = ev.Clip.Ref
	case sequencer.EventCountdown:
		m.countdown = ev.Count
	case sequencer.EventCue:
		m.countdown = 0
		m.cueLive = true
	case sequencer.EventCueUnavailable:
		m.countdown = 0
	}
	return waitStep(m.events)
}

func (m *model) handlePresented(msg presentedMsg) tea.Cmd {
	if !m.current(msg.token) {
		return nil
	}
	if msg.err != nil && !errors.Is(msg.err, sequencer.ErrSuperseded) {
		m.r.logger.Debug("presentation stopped", zap.Error(msg.err))
	}
	m.playing = ""
	if m.phase == phaseIntro && m.ctx.Err() == nil {
		return m.next()
	}
	return nil
}

func (m *model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return m.finish()
	}
	if m.phase == phaseDone {
		return nil
	}

	// Quit confirmation dialog.
	if m.confirmQuit {
		switch key {
		case "y", "Y":
			m.confirmQuit = false
			return m.finish()
		case "n", "N", "esc":
			m.confirmQuit = false
		}
		return nil
	}
	if key == "esc" {
		m.confirmQuit = true
		return nil
	}

	if m.phase != phaseAsk {
		return nil
	}

	// Number keys and "?" answer directly when nothing has been typed.
	if m.input.Value() == "" {
		opts := m.r.norm.Options()
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(opts) {
			return m.submit(opts[n-1], false)
		}
		if key == "?" {
			return m.submit("", true)
		}
	}
	if key == "enter" {
		return m.submitTyped()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// submitTyped grades the typed answer.
func (m *model) submitTyped() tea.Cmd {
	text := strings.TrimSpace(strings.ToLower(m.input.Value()))
	m.input.Reset()
	switch {
	case text == "":
		return nil
	case quitWords[text]:
		return m.finish()
	case dontKnowWords[text]:
		return m.submit("", true)
	}
	opt, ok := m.r.norm.Normalize(text)
	if !ok {
		m.hint = "choose one of: " + strings.Join(m.r.norm.Options(), ", ")
		return nil
	}
	return m.submit(opt, false)
}

// submit grades an answer against the current round. The cue state is read
// from the scope at the moment the answer arrives.
func (m *model) submit(option string, dontKnow bool) tea.Cmd {
	cue, cueAt := m.scope.Cue()
	ans := session.Answer{
		ItemID:       m.item.ID,
		Correct:      !dontKnow && option == m.item.Attribute,
		DontKnow:     dontKnow,
		AnsweredAt:   m.r.seq.Clock().Now(),
		CueStartedAt: cueAt,
		CuePending:   cue == sequencer.CuePending,
	}

	res, err := m.r.grader.Grade(m.ctx, m.state, m.round, ans)
	if err != nil {
		m.err = err
		return m.stop()
	}
	if res.Status == session.StatusIgnored {
		m.r.logger.Debug("answer ignored", zap.String("reason", res.IgnoreReason))
		return nil
	}

	m.r.seq.Stop()
	m.hint = ""
	m.feedback(res)
	m.phase = phaseFeedback
	m.graded++
	return m.pause()
}

// pause waits the inter-item gap before the next round.
func (m *model) pause() tea.Cmd {
	graded := m.graded
	gap := m.r.seq.Timing().InterItemGap
	if gap <= 0 {
		return func() tea.Msg { return nextRoundMsg{graded: graded} }
	}
	return tea.Tick(gap, func(time.Time) tea.Msg {
		return nextRoundMsg{graded: graded}
	})
}

func (m *model) feedback(res *session.Result) {
	item := m.item
	switch res.Feedback {
	case session.FeedbackCorrect:
		m.log("%s  ✓ %s", item.Text, item.Attribute)
	case session.FeedbackReveal:
		m.log("%s  → %s", item.Text, item.Attribute)
	default:
		m.log("%s  ✗ it is %s", item.Text, item.Attribute)
	}
	if tr := res.Transition; tr != nil {
		switch {
		case tr.Promoted():
			m.log("  ↑ %s moves up to tier %d", item.Text, tr.To)
		case tr.Demoted():
			m.log("  ↓ %s moves back to tier %d", item.Text, tr.To)
		}
	}
	if res.DemotedCategory != "" {
		m.log("  ↓ too many misses in %s: %d items move back a tier",
			res.DemotedCategory, len(res.CategoryTransitions))
	}
}

// finish ends the session with a summary.
func (m *model) finish() tea.Cmd {
	if m.phase == phaseDone {
		return tea.Quit
	}
	m.phase = phaseDone
	m.r.seq.Stop()
	if err := m.r.finish(m.ctx, m.outcome); err != nil {
		m.err = err
	}
	return tea.Quit
}

// stop ends the session on an error without a summary.
func (m *model) stop() tea.Cmd {
	m.phase = phaseDone
	m.r.seq.Stop()
	return tea.Quit
}

func (m *model) log(format string, args ...any) {
	m.transcript = append(m.transcript, fmt.Sprintf(format, args...))
	if n := len(m.transcript); n > transcriptLimit {
		m.transcript = m.transcript[n-transcriptLimit:]
	}
}
