package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/RichardKnop/machinery/v1"
	"github.com/RichardKnop/machinery/v1/config"
	"github.com/getsentry/sentry-go"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/bitmark-inc/neighbor-api/background"
	"github.com/bitmark-inc/neighbor-api/store"
	"github.com/bitmark-inc/neighbor-api/utils"
)

var (
	ormDB     *gorm.DB
	manager   *background.BackgroundManager
	scheduler *background.Scheduler
)

func panicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Worker is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		if scheduler != nil {
			log.Info("Stopping scheduler")
			scheduler.Stop()
		}

		if manager != nil {
			log.Info("Stopping worker")
			manager.Stop()
		}

		if ormDB != nil {
			log.Info("Shutting down orm store")
			if err := ormDB.Close(); err != nil {
				log.Error(err)
			}
		}

		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	utils.LoadConfig(configFile)

	utils.InitLog()

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}

	var err error

	ormDB, err = gorm.Open("postgres", viper.GetString("orm.conn"))
	if err != nil {
		log.Panic(err)
	}

	var conf = &config.Config{
		Broker:        viper.GetString("redis.conn"),
		DefaultQueue:  background.DefaultQueue,
		ResultBackend: viper.GetString("redis.conn"),
	}
	taskServer, err := machinery.NewServer(conf)
	if err != nil {
		log.Panic(err)
	}

	manager = background.New(store.NewNeighborStore(ormDB), taskServer, viper.GetDuration("help.expire_after"))
	panicIfError(manager.RegisterTask(background.TaskExpireHelpRequests, manager.ExpireHelpRequests))

	scheduler, err = background.NewScheduler(viper.GetString("help.expire_schedule"), taskServer)
	if err != nil {
		log.Panic(err)
	}
	scheduler.Start()
	log.WithField("prefix", "init").Info("Scheduled help request expiry")

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	if err := manager.Run(); err != nil {
		log.Panic(err)
	}
}
