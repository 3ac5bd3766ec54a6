package builder_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/draft"
	"github.com/goliatone/go-formbuilder/pkg/drag"
	"github.com/goliatone/go-formbuilder/pkg/placement"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func newBuilder(opts ...builder.Option) *builder.Builder {
	opts = append([]builder.Option{
		builder.WithPlacementOptions(placement.WithIDGenerator(testsupport.SequentialIDs("field"))),
	}, opts...)
	return builder.New(opts...)
}

func TestDragDropDialogRoundTrip(t *testing.T) {
	var gestures []builder.GestureOutcome
	b := newBuilder(builder.WithGestureObserver(func(o builder.GestureOutcome) {
		gestures = append(gestures, o)
	}))

	if err := b.StartDrag(catalog.KindSelect); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := b.Hover(true); err != nil {
		t.Fatalf("hover: %v", err)
	}
	form := b.Model()
	if !form.Hover || !form.Palette[4].Dragging {
		t.Fatalf("expected hover and dragging visual state: %+v", form)
	}

	p, err := b.Drop()
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if p.Step != placement.StepAwaitingLabel || p.Default != "Dropdown" {
		t.Fatalf("unexpected first prompt %+v", p)
	}
	if b.Model().Pending == nil {
		t.Fatalf("model should expose the pending prompt")
	}

	steps := []builder.Response{
		{Action: builder.ActionLabel, Value: "Department"},
		{Action: builder.ActionRequired, Required: true},
		{Action: builder.ActionOptions, Value: "A, B ,C"},
	}
	for _, resp := range steps {
		if p, err = b.Respond(resp); err != nil {
			t.Fatalf("respond %s: %v", resp.Action, err)
		}
	}
	if p.Step != placement.StepCommitted {
		t.Fatalf("expected commit, got %s", p.Step)
	}

	want := []draft.PlacedField{{ID: "field-1", Kind: catalog.KindSelect, Label: "Department", Required: true, Options: []string{"A", "B", "C"}}}
	if diff := cmp.Diff(want, b.Draft().Fields()); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}

	form = b.Model()
	if form.Pending != nil || form.Hover || form.Empty || !form.ShowSubmit {
		t.Fatalf("unexpected final model flags: %+v", form)
	}
	if diff := cmp.Diff([]builder.GestureOutcome{builder.GestureDropped}, gestures); diff != "" {
		t.Fatalf("gesture outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestDropElsewhereNeverPlaces(t *testing.T) {
	b := newBuilder()
	_ = b.StartDrag(catalog.KindText)
	if err := b.DropElsewhere(); err != nil {
		t.Fatalf("drop elsewhere: %v", err)
	}
	if b.Session().Step() != placement.StepIdle || !b.Draft().Empty() {
		t.Fatalf("dropping elsewhere must not open the dialog")
	}
}

func TestDialogIsModal(t *testing.T) {
	b := newBuilder()
	_ = b.StartDrag(catalog.KindText)
	if _, err := b.Drop(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := b.StartDrag(catalog.KindEmail); !errors.Is(err, placement.ErrPlacementActive) {
		t.Fatalf("expected ErrPlacementActive while dialog open, got %v", err)
	}
	if _, err := b.DropPayload("email"); !errors.Is(err, placement.ErrPlacementActive) {
		t.Fatalf("expected ErrPlacementActive for direct drops, got %v", err)
	}

	if _, err := b.Respond(builder.Response{Action: builder.ActionCancel}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := b.StartDrag(catalog.KindEmail); err != nil {
		t.Fatalf("drag after abort: %v", err)
	}
}

func TestDropPayloadRejectsForeignItems(t *testing.T) {
	var gestures []builder.GestureOutcome
	b := newBuilder(builder.WithGestureObserver(func(o builder.GestureOutcome) {
		gestures = append(gestures, o)
	}))
	if _, err := b.DropPayload("image/png"); !errors.Is(err, drag.ErrUnacceptedPayload) {
		t.Fatalf("expected ErrUnacceptedPayload, got %v", err)
	}
	if diff := cmp.Diff([]builder.GestureOutcome{builder.GestureRejected}, gestures); diff != "" {
		t.Fatalf("gesture outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestRespondUnknownAction(t *testing.T) {
	b := newBuilder()
	if _, err := b.Respond(builder.Response{Action: "submit"}); !errors.Is(err, builder.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestPlaceWithDriver(t *testing.T) {
	b := newBuilder()
	driver := testsupport.Script(
		testsupport.Answer{Text: "Email"},
		testsupport.Answer{Yes: false},
	)
	res, err := b.Place(testsupport.Context(), driver, catalog.KindEmail)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if !res.Committed() || res.Field.Kind != catalog.KindEmail || res.Field.Required {
		t.Fatalf("unexpected result %+v", res)
	}
	if b.Draft().Len() != 1 {
		t.Fatalf("expected one field")
	}
}

func TestCloseAbandonsDialog(t *testing.T) {
	b := newBuilder()
	_ = b.StartDrag(catalog.KindDate)
	_, _ = b.Drop()
	b.Close()
	if b.Session().Step().Active() || !b.Draft().Empty() {
		t.Fatalf("close should abort the open dialog without placing")
	}
}

func TestCustomCatalog(t *testing.T) {
	custom, err := catalog.New(catalog.MustFieldTemplate(catalog.KindEmail, "Work email"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	b := newBuilder(builder.WithCatalog(custom), builder.WithTitle("Support"))
	form := b.Model()
	if form.Title != "Support" || len(form.Palette) != 1 || form.Palette[0].Label != "Work email" {
		t.Fatalf("unexpected model %+v", form)
	}
	if err := b.StartDrag(catalog.KindText); !errors.Is(err, drag.ErrUnacceptedPayload) {
		t.Fatalf("expected text to be rejected by custom catalog, got %v", err)
	}
}

func TestDropWhileDialogOpenKeepsGesture(t *testing.T) {
	var gestures []builder.GestureOutcome
	b := newBuilder(builder.WithGestureObserver(func(o builder.GestureOutcome) {
		gestures = append(gestures, o)
	}))

	if err := b.StartDrag(catalog.KindEmail); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := b.DropPayload("text"); err != nil {
		t.Fatalf("drop payload: %v", err)
	}
	if _, err := b.Drop(); !errors.Is(err, placement.ErrPlacementActive) {
		t.Fatalf("expected ErrPlacementActive, got %v", err)
	}
	if !b.Model().Palette[1].Dragging {
		t.Fatalf("rejected drop must leave the gesture in flight")
	}
	if diff := cmp.Diff([]builder.GestureOutcome{builder.GestureDropped}, gestures); diff != "" {
		t.Fatalf("gesture outcomes mismatch (-want +got):\n%s", diff)
	}
	if p, _ := b.Session().Pending(); p.Default != "Text Input" {
		t.Fatalf("open dialog must still belong to the first drop, got %+v", p)
	}
}
