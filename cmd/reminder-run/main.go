// One-shot reminder run, for invocation from an external scheduler
// (cron, systemd timer, orchestrator) instead of the in-process trigger.
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"contract-management-api/config"
	"contract-management-api/services"
	"contract-management-api/utils"

	"github.com/joho/godotenv"
)

func main() {
	dateFlag := flag.String("date", "", "run date as YYYY-MM-DD (default: today)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	today := utils.Today()
	if *dateFlag != "" {
		var err error
		today, err = utils.ParseDate(*dateFlag)
		if err != nil {
			log.Fatalf("invalid -date: %v", err)
		}
	}

	events, err := services.NewReminderService(config.DB).RunAllLocked(context.Background(), today)
	if errors.Is(err, services.ErrReminderRunAlreadyRunning) {
		log.Fatal("another reminder run is in progress")
	}
	if err != nil {
		log.Printf("reminder run finished with errors: sent=%d error=%v", len(events), err)
		return
	}

	log.Printf("reminder run finished: date=%s sent=%d", utils.FormatDate(today), len(events))
}
