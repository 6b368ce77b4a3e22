package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	passPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) sawInfo(fragment string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func taskForm(mode string) model.FormModel {
	return model.FormModel{
		ID:    "tasks",
		Title: "Project",
		Mode:  mode,
		Fields: []model.Field{
			{Name: "name", Type: model.FieldTypeText, Required: true, Validations: []model.ValidationRule{
				model.Rule(model.ValidationRuleMinLength, "value", "3"),
			}},
			{Name: "hasNotes", Type: model.FieldTypeCheckbox},
			{Name: "notes", Type: model.FieldTypeTextArea, VisibleWhen: "hasNotes", Validations: []model.ValidationRule{
				model.Rule(model.ValidationRuleRequiredIf, "field", "hasNotes"),
			}},
			{Name: "tasks", Type: model.FieldTypeList, Items: []model.Field{
				{Name: "title", Type: model.FieldTypeText, Required: true},
			}},
		},
	}
}

func newMachine(t *testing.T, mode string) *formstate.Machine {
	t.Helper()
	n := 0
	m, err := formstate.FromModel(taskForm(mode), formstate.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}))
	if err != nil {
		t.Fatalf("FromModel: %v", err)
	}
	return m
}

func decode(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal output %q: %v", out, err)
	}
	return got
}

func TestRender_ConditionalFieldIsAskedOnceRevealed(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Apollo", "Launch"},
		confirm:   []bool{true},
		textAreas: []string{"remember the fuel"},
		selectIdx: []int{2},
	}
	r := New(WithPromptDriver(driver))

	out, err := r.Render(context.Background(), newMachine(t, ""), render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := map[string]any{
		"name":     "Apollo",
		"hasNotes": true,
		"notes":    "remember the fuel",
		"tasks":    []any{map[string]any{"title": "Launch"}},
	}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
	if !driver.sawInfo("Project") {
		t.Fatalf("expected title info, got %v", driver.infoMessages)
	}
}

func TestRender_HiddenFieldIsSkipped(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Apollo", "Launch"},
		confirm:   []bool{false},
		selectIdx: []int{2},
	}
	r := New(WithPromptDriver(driver), WithOutputFormat(render.FormatPretty))

	out, err := r.Render(context.Background(), newMachine(t, ""), render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if driver.textPos != 0 {
		t.Fatalf("expected notes to stay hidden, prompts: %v", driver.prompts)
	}
	if !strings.Contains(string(out), "name=Apollo") {
		t.Fatalf("expected pretty output, got %q", out)
	}
	if r.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRender_RejectedSubmitReasksInvalidFields(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Launch", "Apollo"},
		confirm:   []bool{false},
		selectIdx: []int{2},
	}
	r := New(WithPromptDriver(driver))

	out, err := r.Render(context.Background(), newMachine(t, ""), render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := decode(t, out)["name"]; got != "Apollo" {
		t.Fatalf("expected corrected name, got %v", got)
	}
	if !driver.sawInfo("1 field(s) need attention") {
		t.Fatalf("expected error summary, got %v", driver.infoMessages)
	}
	if !driver.sawInfo("Please fill out this field.") {
		t.Fatalf("expected required message, got %v", driver.infoMessages)
	}
	if driver.confirmPos != 1 {
		t.Fatalf("expected valid fields to be skipped on retry, confirm asked %d times", driver.confirmPos)
	}
}

func TestRender_TouchedModeReasksImmediately(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"ab", "Apollo", "Launch"},
		confirm:   []bool{false},
		selectIdx: []int{2},
	}
	r := New(WithPromptDriver(driver))

	if _, err := r.Render(context.Background(), newMachine(t, "touched"), render.RenderOptions{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "Please lengthen this text to 3 characters or more (you are currently using 2 characters)."
	if !driver.sawInfo(want) {
		t.Fatalf("expected %q, got %v", want, driver.infoMessages)
	}
	if driver.inputPos != 3 {
		t.Fatalf("expected name to be asked twice, inputs consumed %d", driver.inputPos)
	}
}

func TestRender_ListAddRemoveRespectsMinimum(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Apollo", "First", "Second"},
		confirm:   []bool{false},
		selectIdx: []int{1, 0, 1, 0, 2},
	}
	r := New(WithPromptDriver(driver))

	out, err := r.Render(context.Background(), newMachine(t, ""), render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !driver.sawInfo("needs at least 1 item(s)") {
		t.Fatalf("expected remove refusal, got %v", driver.infoMessages)
	}
	want := []any{map[string]any{"title": "Second"}}
	if diff := cmp.Diff(want, decode(t, out)["tasks"]); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_GivesUpAfterMaxRounds(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Launch"},
		confirm:   []bool{false},
		selectIdx: []int{2},
	}
	r := New(WithPromptDriver(driver), WithMaxRounds(1))

	_, err := r.Render(context.Background(), newMachine(t, ""), render.RenderOptions{})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestRender_SubmitTransformer(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Apollo", "Launch"},
		confirm:   []bool{false},
		selectIdx: []int{2},
	}
	r := New(WithPromptDriver(driver), WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
		values["source"] = "cli"
		return values, nil
	}))

	out, err := r.Render(context.Background(), newMachine(t, ""), render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := decode(t, out)["source"]; got != "cli" {
		t.Fatalf("expected transformed payload, got %v", got)
	}
}

func TestRender_AbortPropagates(t *testing.T) {
	r := New(WithPromptDriver(abortDriver{&stubDriver{}}))

	_, err := r.Render(context.Background(), newMachine(t, ""), render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortDriver struct{ *stubDriver }

func (abortDriver) Input(context.Context, InputConfig) (string, error) { return "", ErrAborted }
