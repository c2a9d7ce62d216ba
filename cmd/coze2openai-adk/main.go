package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/leslieo2/coze2openai/auth"
	"github.com/leslieo2/coze2openai/config"
	"github.com/leslieo2/coze2openai/coze"
	"github.com/leslieo2/coze2openai/logging"
	log "github.com/sirupsen/logrus"
)

const defaultAgentName = "coze2openai-agent"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	var (
		model      = flag.String("model", "", "model name resolved through BOT_CONFIG (default: BOT_ID)")
		input      = flag.String("input", "你好，介绍一下你自己", "user input")
		authSource = flag.String("auth-source", string(auth.SourceAuto), "auth source: env|file|auto")
		tokenFile  = flag.String("token-file", "", "token file path (default: ~/.coze2openai/token)")
		stream     = flag.Bool("stream", true, "stream the answer")
	)
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("setup logging failed: %v", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	provider, err := auth.NewProvider(*authSource, *tokenFile)
	if err != nil {
		log.Fatalf("invalid auth-source: %v", err)
	}
	token, err := provider.Auth(ctx)
	if err != nil {
		log.Fatalf("auth failed: %v", err)
	}

	bots, err := cfg.Bots()
	if err != nil {
		log.Fatalf("load bot config failed: %v", err)
	}

	m, err := coze.NewChatModel(coze.ChatModelConfig{
		APIBase: cfg.APIBase,
		Token:   token,
		BotID:   bots.Resolve(*model),
	})
	if err != nil {
		log.Fatalf("create model failed: %v", err)
	}

	agent, err := adk.NewChatModelAgent(ctx, &adk.ChatModelAgentConfig{
		Name:        defaultAgentName,
		Description: "chat with a coze bot",
		Model:       m,
	})
	if err != nil {
		log.Fatalf("create agent failed: %v", err)
	}

	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent:           agent,
		EnableStreaming: *stream,
	})

	iter := runner.Run(ctx, []adk.Message{schema.UserMessage(*input)})
	for {
		ev, ok := iter.Next()
		if !ok {
			break
		}
		if ev.Err != nil {
			log.Fatalf("run failed: %v", ev.Err)
		}
		if ev.Output == nil || ev.Output.MessageOutput == nil {
			continue
		}
		if err := printMessage(os.Stdout, ev.Output.MessageOutput); err != nil {
			log.Fatalf("read answer failed: %v", err)
		}
	}
	fmt.Println()
}

func printMessage(w io.Writer, mv *adk.MessageVariant) error {
	if !mv.IsStreaming {
		if mv.Message != nil && mv.Message.Content != "" {
			fmt.Fprint(w, mv.Message.Content)
		}
		return nil
	}
	if mv.MessageStream == nil {
		return nil
	}
	defer mv.MessageStream.Close()
	for {
		msg, err := mv.MessageStream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if msg != nil && msg.Content != "" {
			fmt.Fprint(w, msg.Content)
		}
	}
}
