package testsupport

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/prompt"
)

// Answer is a scripted reply. Set Cancel to simulate a dismissed prompt.
type Answer struct {
	Text   string
	Yes    bool
	Index  int
	Cancel bool
	Err    error
}

// Asked records a prompt the driver received.
type Asked struct {
	Kind    string
	Message string
	Default string
}

// ScriptedDriver replays answers in order and records every prompt.
type ScriptedDriver struct {
	Answers []Answer
	Asked   []Asked
	Infos   []string
	pos     int
}

var _ prompt.Driver = (*ScriptedDriver)(nil)

// Script builds a driver from answers.
func Script(answers ...Answer) *ScriptedDriver {
	return &ScriptedDriver{Answers: answers}
}

// Remaining reports how many answers were not consumed.
func (s *ScriptedDriver) Remaining() int {
	return len(s.Answers) - s.pos
}

func (s *ScriptedDriver) next(kind, message, def string) (Answer, error) {
	s.Asked = append(s.Asked, Asked{Kind: kind, Message: message, Default: def})
	if s.pos >= len(s.Answers) {
		return Answer{}, fmt.Errorf("no %s scripted for %q", kind, message)
	}
	answer := s.Answers[s.pos]
	s.pos++
	if answer.Err != nil {
		return Answer{}, answer.Err
	}
	if answer.Cancel {
		return Answer{}, prompt.ErrCancelled
	}
	return answer, nil
}

func (s *ScriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	answer, err := s.next("input", cfg.Message, cfg.Default)
	if err != nil {
		return "", err
	}
	return answer.Text, nil
}

func (s *ScriptedDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	answer, err := s.next("confirm", cfg.Message, "")
	if err != nil {
		return false, err
	}
	return answer.Yes, nil
}

func (s *ScriptedDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	answer, err := s.next("select", cfg.Message, "")
	if err != nil {
		return -1, err
	}
	if answer.Index < 0 || answer.Index >= len(cfg.Options) {
		return -1, errors.New("scripted select index out of range")
	}
	return answer.Index, nil
}

func (s *ScriptedDriver) Info(_ context.Context, msg string) error {
	s.Infos = append(s.Infos, msg)
	return nil
}
