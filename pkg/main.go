package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "github.com/spreadhq/spread/pkg/internal"
	"github.com/spreadhq/spread/pkg/internal/cache"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/http"
	"github.com/spreadhq/spread/pkg/internal/services"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ____                        _\n/ ___| _ __  _ __ ___  __ _  __| |\n\\___ \\| '_ \\| '__/ _ \\/ _` |/ _` |\n ___) | |_) | | |  __/ (_| | (_| |\n|____/| .__/|_|  \\___|\\__,_|\\__,_|\n      |_|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Spread"), pkg.AppVersion)
	fmt.Printf("The anonymous area posting service\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Load token verification key
	http.LoadReadKey()
	if len(http.ReadKey) == 0 {
		log.Warn().Msg("No read key configured, every request will be anonymous.")
	}

	// Local cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when setting up the cache store.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Make sure the configured areas exist
	if err := services.SeedAreas(viper.GetStringMapString("areas")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when seeding areas.")
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	// Server
	go http.NewServer().Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
