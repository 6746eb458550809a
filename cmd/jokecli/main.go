package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"JokeBot/internal/app"
	"JokeBot/internal/config"
	"JokeBot/internal/service/joke"
)

// Терминальный чат на том же ядре, что и веб-версия. /reset очищает историю, /quit выходит.
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	logger, err := app.NewLogger(cfg.DebugMode)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	a, err := app.New(cfg, sugar)
	if err != nil {
		sugar.Errorw("failed to init app", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := a.Store.New()
	settings := sess.Settings()

	fmt.Println("Programming Joke Bot")
	fmt.Printf("model=%s style=%q language=%s. Commands: /reset, /quit\n", settings.Model, settings.Style, settings.Language)
	for _, s := range joke.Suggestions() {
		fmt.Println("  try:", s)
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return
		case "/reset":
			a.Bot.Reset(sess)
			fmt.Println("(history cleared)")
			continue
		}

		reply, err := a.Bot.Ask(ctx, sess, settings, line)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(reply.Text)
		if ctx.Err() != nil {
			return
		}
	}
	if err := in.Err(); err != nil {
		sugar.Errorw("stdin read error", "error", err)
	}
}
