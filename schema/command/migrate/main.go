package main

import (
	"context"
	"flag"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/neighbor-api/schema"
	"github.com/bitmark-inc/neighbor-api/store"
	"github.com/bitmark-inc/neighbor-api/utils"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	utils.LoadConfig(configFile)
	utils.InitLog()

	db, err := gorm.Open("postgres", viper.GetString("orm.conn"))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		panic(err)
	}

	if err := store.NewNeighborStore(db).Migrate(); err != nil {
		panic(err)
	}
	log.WithField("prefix", "migrate").Info("postgres tables migrated")

	if err := migrateMongo(); err != nil {
		panic(err)
	}
	log.WithField("prefix", "migrate").Info("mongo indexes created")
}

func migrateMongo() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
	opts.SetMaxPoolSize(1)
	client, err := mongo.NewClient(opts)
	if err != nil {
		return err
	}
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	return schema.NewMongoDBIndexer(ctx, client, viper.GetString("mongo.database")).IndexAll()
}
