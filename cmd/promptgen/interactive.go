package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jackzampolin/promptgen/internal/generate"
	"github.com/jackzampolin/promptgen/internal/output"
	"github.com/jackzampolin/promptgen/internal/pack"
)

// defaultCellCount is used when a per-cell count cannot be parsed.
const defaultCellCount = 10

// defaultBatchSize is offered in batch production mode.
const defaultBatchSize = 50

// errQuit ends the menu loop without an error.
var errQuit = errors.New("quit")

// prompter reads line answers from an interactive session.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// ask prints question and returns the trimmed answer. EOF ends the session.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *prompter) askInt(question string, def int) (int, error) {
	answer, err := p.ask(question)
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return def, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 0 {
		fmt.Fprintf(p.out, "  잘못된 입력입니다. 기본값 %d을(를) 사용합니다.\n", def)
		return def, nil
	}
	return n, nil
}

func (p *prompter) askYes(question string) (bool, error) {
	answer, err := p.ask(question)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "", "y", "yes", "예", "네":
		return true, nil
	default:
		return false, nil
	}
}

// runInteractive shows the generation menu until the user exits:
// 1 normal generation, 2 batch production, 0 exit.
func runInteractive(ctx context.Context, in io.Reader, out io.Writer, s *session) error {
	p := &prompter{in: bufio.NewScanner(in), out: out}

	for {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "=== 프롬프트 생성기 ===")
		fmt.Fprintln(out, "1. 일반 생성")
		fmt.Fprintln(out, "2. 배치 생산")
		fmt.Fprintln(out, "0. 종료")

		choice, err := p.ask("선택: ")
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "0":
			return nil
		case "1", "2":
			err = runInteractiveGeneration(ctx, p, s, choice == "2")
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				return err
			}
		default:
			fmt.Fprintln(out, "  1, 2, 0 중에서 선택하세요.")
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func runInteractiveGeneration(ctx context.Context, p *prompter, s *session, batch bool) error {
	cfg := *s.cfg
	run := &session{cfg: &cfg, home: s.home, logger: s.logger, now: s.now}

	seedFile, err := p.ask("기존 결과 파일 경로 (없으면 엔터): ")
	if err != nil {
		return err
	}
	if seedFile != "" {
		cfg.Generation.SeedFile = seedFile
	}

	plan, err := cfg.Plan()
	if err != nil {
		return err
	}
	useDefault, err := p.askYes(fmt.Sprintf("기본 계획(%d개)을 사용할까요? [Y/n]: ", plan.Total()))
	if err != nil {
		return err
	}
	if !useDefault {
		plan = make(generate.Plan, 0, 9)
		for _, c := range pack.AllCells() {
			n, err := p.askInt(fmt.Sprintf("  %s 개수: ", c), defaultCellCount)
			if err != nil {
				return err
			}
			plan = append(plan, generate.Target{Cell: c, Count: n})
		}
	}

	cfg.Output.BatchSize = 0
	if batch {
		size, err := p.askInt(fmt.Sprintf("배치 크기 [%d]: ", defaultBatchSize), defaultBatchSize)
		if err != nil {
			return err
		}
		if size < 1 {
			size = defaultBatchSize
		}
		cfg.Output.BatchSize = size
	}

	sum, err := run.generate(ctx, plan)
	if err != nil {
		return err
	}
	return output.PrintTo(p.out, output.GetFormat(), sum)
}
