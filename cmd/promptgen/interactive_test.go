package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jackzampolin/promptgen/internal/config"
)

func TestRunInteractive_CustomPlan(t *testing.T) {
	s := testSession(t, nil)

	// Normal generation, no seed file, custom plan with one unparsable
	// count that falls back to the default, then exit.
	input := strings.Join([]string{
		"1", "", "n",
		"1", "1", "abc", "1", "1", "1", "1", "1", "1",
		"0",
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := runInteractive(context.Background(), strings.NewReader(input), &out, s); err != nil {
		t.Fatalf("runInteractive failed: %v", err)
	}
	if !strings.Contains(out.String(), "기본값 10") {
		t.Errorf("expected default-count notice, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "requested: 18") {
		t.Errorf("expected 18 requested, got:\n%s", out.String())
	}
}

func TestRunInteractive_BatchMode(t *testing.T) {
	s := testSession(t, func(cfg *config.Config) {
		cfg.Generation.Plan = map[string]int{"정보-쉬움": 4, "탐색-보통": 3}
	})

	input := "2\n\ny\n3\n0\n"
	var out bytes.Buffer
	if err := runInteractive(context.Background(), strings.NewReader(input), &out, s); err != nil {
		t.Fatalf("runInteractive failed: %v", err)
	}
	if !strings.Contains(out.String(), "_integrated_") {
		t.Errorf("expected an integrated export, got:\n%s", out.String())
	}
	if s.cfg.Output.BatchSize != 0 {
		t.Errorf("interactive run should not change the session config, got batch size %d", s.cfg.Output.BatchSize)
	}
}

func TestRunInteractive_InvalidChoiceAndEOF(t *testing.T) {
	s := testSession(t, nil)

	var out bytes.Buffer
	if err := runInteractive(context.Background(), strings.NewReader("7\n"), &out, s); err != nil {
		t.Fatalf("EOF should end the session cleanly, got %v", err)
	}
	if !strings.Contains(out.String(), "1, 2, 0 중에서 선택하세요") {
		t.Errorf("expected invalid choice notice, got:\n%s", out.String())
	}
}
