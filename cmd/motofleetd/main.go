package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/motofleet/motofleet/config"
	"github.com/motofleet/motofleet/internal/adminapi"
	"github.com/motofleet/motofleet/internal/app"
	"github.com/motofleet/motofleet/internal/webserver"
)

var (
	BuildVersion string

	h        = flag.Bool("h", false, "print help")
	showVer  = flag.Bool("v", false, "print version")
	conffile = flag.String("c", "motofleet.yml", "configuration file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
	migrate  = flag.Bool("m", false, "run database migration, then exit")
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Usage: motofleetd [-c motofleet.yml] [-initdb] [-m]")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if *h {
		printHelp()
		return
	}
	if *showVer {
		fmt.Println(BuildVersion)
		return
	}

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		return
	}
	if *migrate {
		if err := application.MigrateDB(true); err != nil {
			zap.L().Fatal("migration failed", zap.Error(err))
		}
		return
	}

	webserver.Init(application)
	adminapi.InitRouter()

	go func() {
		if err := webserver.Listen(); err != nil {
			zap.L().Error("web server stopped", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webserver.Shutdown(ctx); err != nil {
		zap.L().Error("shutdown error", zap.Error(err))
	}
}
