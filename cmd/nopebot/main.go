// cmd/nopebot/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/nope-cardgame/nopebot/internal/bot"
)

func main() {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	serverURL := getEnv("NOPE_SERVER_URL", "http://nope.ddns.net")
	username := os.Getenv("NOPE_USERNAME")
	password := os.Getenv("NOPE_PASSWORD")
	if username == "" || password == "" {
		logger.Fatal("NOPE_USERNAME and NOPE_PASSWORD must be set")
	}

	instances := getEnvInt("NOPE_INSTANCES", 1)
	if instances < 1 {
		instances = 1
	}
	invite := os.Getenv("NOPE_INVITE")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Self-play: additional instances play under suffixed usernames and
	// the first instance invites the second once both are connected.
	configs := make([]bot.InstanceConfig, instances)
	for i := range configs {
		configs[i] = bot.InstanceConfig{
			Username:  instanceUsername(username, i),
			Password:  password,
			ServerURL: serverURL,
		}
	}
	if invite != "" {
		configs[0].InviteUsername = invite
	} else if instances > 1 {
		configs[0].InviteUsername = configs[1].Username
	}

	errc := make(chan error, instances)
	for _, cfg := range configs {
		go func(cfg bot.InstanceConfig) {
			errc <- bot.RunInstance(ctx, cfg, logger)
		}(cfg)
	}

	select {
	case err := <-errc:
		if err != nil {
			logger.Fatalf("bot instance exited: %v", err)
		}
		logger.Info("bot instance finished")
	case <-ctx.Done():
		logger.Info("terminating")
	}
}

// instanceUsername numbers self-play accounts: base, base2, base3, ...
func instanceUsername(base string, i int) string {
	if i == 0 {
		return base
	}
	return fmt.Sprintf("%s%d", base, i+1)
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
