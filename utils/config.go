package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const EnvPrefix = "neighborly"

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("mongo.database", "neighborly")
	viper.SetDefault("mongo.pool", 10)
	viper.SetDefault("jwt.expire", 24)
	viper.SetDefault("i18n.dir", "./i18n")
	viper.SetDefault("help.expire_after", 12*time.Hour)
	viper.SetDefault("help.expire_schedule", "*/10 * * * *")
	viper.SetDefault("cache.profile_ttl", 10*time.Minute)
}

// LoadConfig reads the yaml config file and overlays NEIGHBORLY_* env values
func LoadConfig(file string) {
	setDefaults()

	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func InitLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}
