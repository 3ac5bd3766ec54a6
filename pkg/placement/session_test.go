package placement_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/draft"
	"github.com/goliatone/go-formbuilder/pkg/placement"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func template(t *testing.T, kind catalog.FieldKind) catalog.FieldTemplate {
	t.Helper()
	tpl, err := catalog.Default().Lookup(kind)
	if err != nil {
		t.Fatalf("lookup %s: %v", kind, err)
	}
	return tpl
}

func newSession(d *draft.FormDraft, opts ...placement.Option) *placement.Session {
	opts = append([]placement.Option{placement.WithIDGenerator(testsupport.SequentialIDs("f"))}, opts...)
	return placement.NewSession(d, opts...)
}

func TestSessionTextFieldFlow(t *testing.T) {
	d := draft.New()
	s := newSession(d)

	p, err := s.Begin(template(t, catalog.KindText))
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	want := placement.Prompt{Step: placement.StepAwaitingLabel, Message: placement.LabelMessage, Default: "Text Input"}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("label prompt mismatch (-want +got):\n%s", diff)
	}

	p, err = s.SubmitLabel("  Full name ")
	if err != nil {
		t.Fatalf("submit label: %v", err)
	}
	if p.Step != placement.StepAwaitingRequired {
		t.Fatalf("expected awaiting-required, got %s", p.Step)
	}

	p, err = s.SubmitRequired(true)
	if err != nil {
		t.Fatalf("submit required: %v", err)
	}
	if p.Step != placement.StepCommitted {
		t.Fatalf("text field should commit after required, got %s", p.Step)
	}

	wantFields := []draft.PlacedField{{ID: "f-1", Kind: catalog.KindText, Label: "Full name", Required: true}}
	if diff := cmp.Diff(wantFields, d.Fields()); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionSelectParsesOptions(t *testing.T) {
	d := draft.New()
	s := newSession(d)

	if _, err := s.Begin(template(t, catalog.KindSelect)); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := s.SubmitLabel("Topic"); err != nil {
		t.Fatalf("label: %v", err)
	}
	p, err := s.SubmitRequired(false)
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	if p.Step != placement.StepAwaitingOptions || p.Default != catalog.DefaultOptionsInput {
		t.Fatalf("unexpected options prompt: %+v", p)
	}
	if _, err := s.SubmitOptions("A, B ,C"); err != nil {
		t.Fatalf("options: %v", err)
	}

	fields := d.Fields()
	if len(fields) != 1 {
		t.Fatalf("expected one field, got %d", len(fields))
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, fields[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionCancelOptionsCommitsEmptyList(t *testing.T) {
	d := draft.New()
	s := newSession(d)

	_, _ = s.Begin(template(t, catalog.KindSelect))
	_, _ = s.SubmitLabel("Topic")
	_, _ = s.SubmitRequired(true)
	p, err := s.Cancel()
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if p.Step != placement.StepCommitted {
		t.Fatalf("expected commit after cancelling options, got %s", p.Step)
	}
	fields := d.Fields()
	if len(fields) != 1 || fields[0].Options == nil || len(fields[0].Options) != 0 {
		t.Fatalf("expected empty option list, got %+v", fields)
	}
}

func TestSessionCancelLabelLeavesDraftUntouched(t *testing.T) {
	d := draft.New()
	generated := 0
	s := placement.NewSession(d, placement.WithIDGenerator(func() string {
		generated++
		return "never"
	}))

	_, _ = s.Begin(template(t, catalog.KindEmail))
	p, err := s.Cancel()
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if p.Step != placement.StepAborted {
		t.Fatalf("expected aborted, got %s", p.Step)
	}
	if d.Len() != 0 || generated != 0 {
		t.Fatalf("aborted placement must not append or generate ids (len=%d ids=%d)", d.Len(), generated)
	}
}

func TestSessionEmptyLabelAborts(t *testing.T) {
	d := draft.New()
	s := newSession(d)

	_, _ = s.Begin(template(t, catalog.KindDate))
	p, err := s.SubmitLabel("   ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if p.Step != placement.StepAborted || d.Len() != 0 {
		t.Fatalf("blank label should abort, got step %s len %d", p.Step, d.Len())
	}
}

func TestSessionCancelRequiredAnswersNo(t *testing.T) {
	d := draft.New()
	s := newSession(d)

	_, _ = s.Begin(template(t, catalog.KindTextarea))
	_, _ = s.SubmitLabel("Message")
	if _, err := s.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	fields := d.Fields()
	if len(fields) != 1 || fields[0].Required {
		t.Fatalf("expected optional textarea, got %+v", fields)
	}
}

func TestSessionRejectsInvalidTransitions(t *testing.T) {
	s := newSession(draft.New())

	if _, err := s.SubmitLabel("x"); !errors.Is(err, placement.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from idle, got %v", err)
	}
	if _, err := s.Cancel(); !errors.Is(err, placement.ErrInvalidTransition) {
		t.Fatalf("expected invalid cancel from idle, got %v", err)
	}

	_, _ = s.Begin(template(t, catalog.KindText))
	if _, err := s.SubmitOptions("a"); !errors.Is(err, placement.ErrInvalidTransition) {
		t.Fatalf("expected invalid options during label step, got %v", err)
	}
	if _, err := s.Begin(template(t, catalog.KindEmail)); !errors.Is(err, placement.ErrPlacementActive) {
		t.Fatalf("expected ErrPlacementActive, got %v", err)
	}
	if _, err := s.Begin(catalog.FieldTemplate{}); !errors.Is(err, placement.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestSessionObserverAndUniqueIDs(t *testing.T) {
	d := draft.New()
	var outcomes []placement.Outcome
	s := placement.NewSession(d, placement.WithObserver(func(_ catalog.FieldKind, o placement.Outcome) {
		outcomes = append(outcomes, o)
	}))

	place := func(label string) {
		_, _ = s.Begin(template(t, catalog.KindText))
		_, _ = s.SubmitLabel(label)
		if s.Step() == placement.StepAwaitingRequired {
			_, _ = s.SubmitRequired(false)
		}
	}
	place("One")
	place("")
	place("Two")
	place("Three")

	if d.Len() != 3 {
		t.Fatalf("expected 3 successful placements, got %d", d.Len())
	}
	seen := map[string]bool{}
	for _, f := range d.Fields() {
		if seen[f.ID] {
			t.Fatalf("duplicate id %s", f.ID)
		}
		seen[f.ID] = true
	}
	want := []placement.Outcome{placement.OutcomeCommitted, placement.OutcomeAborted, placement.OutcomeCommitted, placement.OutcomeCommitted}
	if diff := cmp.Diff(want, outcomes); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionCommitFailureAborts(t *testing.T) {
	d := draft.New()
	s := placement.NewSession(d, placement.WithIDGenerator(func() string { return "same" }))

	for i := 0; i < 2; i++ {
		_, _ = s.Begin(template(t, catalog.KindText))
		_, _ = s.SubmitLabel("Name")
		_, err := s.SubmitRequired(false)
		if i == 1 && !errors.Is(err, draft.ErrDuplicateID) {
			t.Fatalf("expected duplicate id error on second commit, got %v", err)
		}
	}
	if s.Step() != placement.StepAborted || d.Len() != 1 {
		t.Fatalf("expected failed commit to abort, step=%s len=%d", s.Step(), d.Len())
	}
}

func TestParseOptions(t *testing.T) {
	cases := map[string][]string{
		"A, B ,C":     {"A", "B", "C"},
		"":            {},
		"   ":         {""},
		"solo":        {"solo"},
		"A,,B":        {"A", "", "B"},
		"A, ":         {"A", ""},
		"a,,b, ":      {"a", "", "b", ""},
		" x , y , z ": {"x", "y", "z"},
	}
	for raw, want := range cases {
		if diff := cmp.Diff(want, placement.ParseOptions(raw)); diff != "" {
			t.Fatalf("ParseOptions(%q) mismatch (-want +got):\n%s", raw, diff)
		}
	}
}

func TestSessionSubmitOptionsKeepsBlankTokens(t *testing.T) {
	d := draft.New()
	s := newSession(d)
	if _, err := s.Begin(template(t, catalog.KindSelect)); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := s.SubmitLabel("Size"); err != nil {
		t.Fatalf("label: %v", err)
	}
	if _, err := s.SubmitRequired(false); err != nil {
		t.Fatalf("required: %v", err)
	}
	if _, err := s.SubmitOptions("S,, M "); err != nil {
		t.Fatalf("options: %v", err)
	}
	fields := d.Fields()
	if len(fields) != 1 {
		t.Fatalf("expected one committed field, got %d", len(fields))
	}
	if diff := cmp.Diff([]string{"S", "", "M"}, fields[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}
