package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/draft"
	"github.com/goliatone/go-formbuilder/pkg/drag"
	"github.com/goliatone/go-formbuilder/pkg/placement"
)

func TestNewEmptyForm(t *testing.T) {
	form := New(Input{Catalog: catalog.Default()})

	if !form.Empty || form.ShowSubmit {
		t.Fatalf("empty draft must show placeholder without submit: %+v", form)
	}
	if form.Title != DefaultTitle {
		t.Fatalf("unexpected title %q", form.Title)
	}
	if len(form.Palette) != 5 {
		t.Fatalf("expected 5 palette entries, got %d", len(form.Palette))
	}
	for _, entry := range form.Palette {
		if entry.Dragging {
			t.Fatalf("no entry should be dragging at rest")
		}
	}
}

func TestNewMapsControlsAndFlags(t *testing.T) {
	fields := []draft.PlacedField{
		{ID: "1", Kind: catalog.KindText, Label: "Name", Required: true},
		{ID: "2", Kind: catalog.KindTextarea, Label: "Message"},
		{ID: "3", Kind: catalog.KindSelect, Label: "Topic", Options: []string{"A", "B"}},
		{ID: "4", Kind: catalog.KindDate, Label: "When"},
	}
	pending := &placement.Prompt{Step: placement.StepAwaitingLabel, Message: placement.LabelMessage, Default: "Email Input"}
	form := New(Input{
		Catalog: catalog.Default(),
		Gesture: drag.State{Phase: drag.PhaseDragging, Source: catalog.KindEmail, Hover: true},
		Fields:  fields,
		Pending: pending,
	})

	want := []Field{
		{ID: "1", Kind: catalog.KindText, Label: "Name", Required: true, Control: "input", InputType: "text"},
		{ID: "2", Kind: catalog.KindTextarea, Label: "Message", Control: "textarea"},
		{ID: "3", Kind: catalog.KindSelect, Label: "Topic", Options: []string{"A", "B"}, Control: "select"},
		{ID: "4", Kind: catalog.KindDate, Label: "When", Control: "input", InputType: "date"},
	}
	if diff := cmp.Diff(want, form.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if form.Empty || !form.ShowSubmit || !form.Hover || !form.Dragging {
		t.Fatalf("unexpected flags: %+v", form)
	}
	if !form.Palette[1].Dragging || form.Palette[0].Dragging {
		t.Fatalf("only the email entry should be dragging")
	}

	pending.Default = "mutated"
	if form.Pending.Default != "Email Input" {
		t.Fatalf("pending prompt should be copied")
	}
}

func TestApplyStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	form := FormModel{}
	err := Apply(&form,
		DecoratorFunc(func(f *FormModel) error { calls++; f.Title = "x"; return nil }),
		nil,
		DecoratorFunc(func(*FormModel) error { calls++; return boom }),
		DecoratorFunc(func(*FormModel) error { calls++; return nil }),
	)
	if !errors.Is(err, boom) || calls != 2 || form.Title != "x" {
		t.Fatalf("unexpected apply result err=%v calls=%d title=%q", err, calls, form.Title)
	}
}
