package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aulavirtual/backend/ai"
	"aulavirtual/backend/config"
	"aulavirtual/backend/jobs"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"
	"aulavirtual/backend/routes"
	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "aulavirtual",
		Usage:  "virtual classroom backend",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server and the purge scheduler",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply the database schema and exit",
				Action: migrate,
			},
			{
				Name:  "token",
				Usage: "mint a bearer token for local testing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sub", Usage: "user id (uuid)", Required: true},
					&cli.StringFlag{Name: "type", Usage: "student or instructor", Value: string(models.UserTypeStudent)},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime", Value: 72 * time.Hour},
				},
				Action: token,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(*cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := utils.NewLogger(cfg)
	if utils.InitRollbar(cfg) {
		defer rollbar.Close()
	}

	db, err := utils.InitDB(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	store := repository.New(db)

	scheduler, err := jobs.Start(cfg, store, logger)
	if err != nil {
		return err
	}

	svc := services.New(store, cfg, ai.NewClient(cfg), logger)
	app := routes.NewApp(cfg, svc, logger)

	go func() {
		logger.Printf("Server starting on port %s", cfg.ServerPort)
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			logger.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Println("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-scheduler.Stop().Done()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func migrate(*cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	// InitDB applies the schema on connect
	db, err := utils.InitDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	log.Println("Database migrated")
	return nil
}

func token(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	sub, err := uuid.Parse(c.String("sub"))
	if err != nil {
		return errors.Wrap(err, "--sub must be a uuid")
	}
	userType := models.UserType(c.String("type"))
	if userType != models.UserTypeStudent && userType != models.UserTypeInstructor {
		return errors.New("--type must be student or instructor")
	}
	signed, err := utils.GenerateToken(sub, userType, c.Duration("ttl"), cfg)
	if err != nil {
		return err
	}
	fmt.Println(signed)
	return nil
}
