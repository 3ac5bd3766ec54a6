// Package prompt abstracts blocking terminal prompts so the placement
// protocol can run against survey in a real terminal and against scripted
// drivers in tests.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrCancelled signals the user dismissed a prompt (e.g., Ctrl+C).
var ErrCancelled = errors.New("prompt: cancelled")

// InputConfig configures a single line text prompt.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single choice prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// Driver is implemented by prompt backends.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	Info(ctx context.Context, msg string) error
}

// SurveyOption configures the survey driver.
type SurveyOption func(*surveyDriver)

// WithStdio routes prompts through custom terminal streams.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) SurveyOption {
	return func(d *surveyDriver) {
		d.opts = append(d.opts, survey.WithStdio(in, out, errOut))
		d.out = out
	}
}

type surveyDriver struct {
	opts []survey.AskOpt
	out  io.Writer
}

// NewSurvey returns a Driver backed by github.com/AlecAivazis/survey/v2.
func NewSurvey(options ...SurveyOption) Driver {
	d := &surveyDriver{out: os.Stdout}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	var out int
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	// survey writes the selected index when the response target is an int.
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return -1, translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrCancelled
	}
	return err
}
