package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fbarrios/ajedrez-bot/internal/chessbuilder"
	appcfg "github.com/fbarrios/ajedrez-bot/internal/config"
	"github.com/fbarrios/ajedrez-bot/internal/engine"
	"github.com/fbarrios/ajedrez-bot/internal/obslog"
	svcchess "github.com/fbarrios/ajedrez-bot/internal/service/chess"
	"github.com/fbarrios/ajedrez-bot/pkg/chessdto"
)

const sessionID = "console"

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	deps, err := chessbuilder.New(cfg, logger)
	if err != nil {
		log.Fatalf("chess init error: %v", err)
	}
	if deps.Cache != nil {
		defer deps.Cache.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("ajedrez-bot console. Commands: move <text>, best, apply, undo [n], reset, fen, position <fen>, eval, quit")

	repl(ctx, deps.Service, cfg)
}

func repl(ctx context.Context, svc *svcchess.Service, cfg *appcfg.AppConfig) {
	scanner := bufio.NewScanner(os.Stdin)
	var lastReport *chessdto.AnalysisReport

	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("> ")
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok = <-lines:
			if !ok {
				return
			}
		}

		cmd, arg := splitCommand(line)
		switch cmd {
		case "":
			continue
		case "quit", "exit":
			return
		case "move":
			res, err := svc.ApplyMove(ctx, sessionID, arg)
			if err != nil {
				printErr(err)
				continue
			}
			lastReport = nil
			printMove(res)
		case "best", "eval":
			report, err := svc.Analyze(ctx, sessionID, limitFromConfig(cfg))
			if err != nil {
				printErr(err)
				continue
			}
			lastReport = report
			printReport(report)
		case "apply":
			if lastReport == nil {
				fmt.Println("no analysis yet; run 'best' first")
				continue
			}
			res, err := svc.ApplySuggested(ctx, sessionID, lastReport)
			if err != nil {
				printErr(err)
				continue
			}
			lastReport = nil
			printMove(res)
		case "undo":
			n := 1
			if arg != "" {
				parsed, err := strconv.Atoi(arg)
				if err != nil || parsed < 1 {
					fmt.Println("undo takes a positive count")
					continue
				}
				n = parsed
			}
			res, err := svc.Undo(ctx, sessionID, n)
			if err != nil {
				printErr(err)
				continue
			}
			lastReport = nil
			fmt.Printf("undid %d move(s), position: %s\n", res.Undone, res.State.FEN)
		case "reset":
			state, err := svc.Reset(ctx, sessionID)
			if err != nil {
				printErr(err)
				continue
			}
			lastReport = nil
			fmt.Printf("new game: %s\n", state.FEN)
		case "fen":
			state, err := svc.Status(ctx, sessionID)
			if err != nil {
				printErr(err)
				continue
			}
			fmt.Println(state.FEN)
		case "position":
			state, err := svc.SetPosition(ctx, sessionID, arg)
			if err != nil {
				printErr(err)
				continue
			}
			lastReport = nil
			fmt.Printf("position set: %s\n", state.FEN)
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func limitFromConfig(cfg *appcfg.AppConfig) engine.Limit {
	if cfg.AnalyzeDepth > 0 {
		return engine.Limit{Depth: cfg.AnalyzeDepth}
	}
	return engine.Limit{MoveTime: time.Duration(cfg.AnalyzeMoveTimeMillis) * time.Millisecond}
}

func splitCommand(line string) (cmd, arg string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ""
	}
	cmd = strings.ToLower(fields[0])
	arg = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	return cmd, arg
}

func printMove(res *chessdto.MoveResult) {
	fmt.Printf("played %s (%s)\n", res.SAN, res.UCI)
	fmt.Printf("position: %s\n", res.State.FEN)
	if res.State.GameOver {
		fmt.Printf("game over: %s by %s\n", res.State.Outcome, res.State.Method)
	} else if res.State.Check {
		fmt.Println("check!")
	}
}

func printReport(report *chessdto.AnalysisReport) {
	move := report.BestMoveSAN
	if move == "" {
		move = report.BestMoveUCI
	}
	fmt.Printf("best move: %s  eval: %s  (%.0fms)\n", move, report.Eval.Display, float64(report.Duration.Milliseconds()))
	line := report.PrincipalSAN
	if len(line) == 0 {
		line = report.Principal
	}
	if len(line) > 0 {
		fmt.Printf("line: %s\n", strings.Join(line, " "))
	}
}

func printErr(err error) {
	switch {
	case errors.Is(err, svcchess.ErrInvalidNotation):
		fmt.Println("that does not look like a chess move")
	case errors.Is(err, svcchess.ErrIllegalMove):
		fmt.Println("that move is not legal here")
	case errors.Is(err, svcchess.ErrInvalidFEN):
		fmt.Println("that FEN is not valid")
	case errors.Is(err, svcchess.ErrGameAlreadyOver):
		fmt.Println("the game is already over; reset to start a new one")
	case errors.Is(err, svcchess.ErrStaleAnalysis):
		fmt.Println("the position changed since that analysis; run 'best' again")
	case errors.Is(err, svcchess.ErrEngineTimeout):
		fmt.Println("the engine ran out of time")
	case errors.Is(err, svcchess.ErrNoMoveFound):
		fmt.Println("the engine found no move in this position")
	case errors.Is(err, svcchess.ErrEngineUnavailable):
		fmt.Println("the engine is unavailable")
	default:
		fmt.Printf("error: %v\n", err)
	}
}
