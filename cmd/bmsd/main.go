package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/moticosolutions/bms/config"
	"github.com/moticosolutions/bms/internal/adminapi"
	"github.com/moticosolutions/bms/internal/app"
	"github.com/moticosolutions/bms/internal/webserver"
)

var (
	cfile    = flag.String("c", "/etc/moticobms.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
	buildVer = "dev"
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("moticobms", buildVer)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*cfile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ws := webserver.Init(cfg, application.DB())
	adminapi.InitRouter(&adminapi.Services{
		Categories: application.CategoryService(),
		Orders:     application.OrderService(),
		Quotes:     application.QuoteService(),
	})

	if err := ws.Listen(); err != nil {
		zap.S().Fatalf("web server stopped: %v", err)
	}
}
