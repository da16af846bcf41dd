package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/prabhaspasupuleti/multywavewebbackend/internal/app"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	createAdmin := flag.Bool("create-admin", false, "seed the admin account from ADMIN_USERNAME/ADMIN_PASSWORD and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Options{ConfigPath: *configPath, CreateAdmin: *createAdmin}); err != nil {
		log.Fatalf("server: %v", err)
	}
}
