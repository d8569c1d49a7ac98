package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"strings"
	"syscall"

	"trac/config"
	"trac/internal/command"
	commandHandler "trac/internal/command/handler"
	"trac/internal/log"
	"trac/utils/path"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	_ "trac/cmd/docs"
)

var (
	rootPath = path.RootPath()
	Version  string
	envPath  string
	yamlPath string
	conf     *config.Configuration
	logger   *zap.Logger
)

// configFlags 設定檔相關旗標，掛在 root 讓所有子命令共用
func configFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("config", pflag.ContinueOnError)
	flags.StringVarP(&envPath, "env", "e", "", "Environment file, e.g. --env .env")
	flags.StringVarP(&yamlPath, "config", "c", "", "YAML config file, e.g. --config config.yaml")
	return flags
}

func init() {
	cobra.OnInitialize(func() {
		if envPath != "" && yamlPath != "" {
			fmt.Println("同時指定 --env 與 --config，將以 --env 優先")
		}
		initConfig()
	})
}

// @title        trac API
// @version      1.0
// @description  組織即時工時、出勤與產出統計 API
// @host         localhost:3000
// @basePath     /

// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
// @description 請在欄位輸入 "Bearer {token}"
func main() {
	rootCmd := &cobra.Command{
		Use: "app",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if conf == nil {
				return fmt.Errorf("config is nil! Check config/initConfig logic")
			}
			// 初始化 logger（子命令共用）
			var err error
			logger, err = log.NewLogger(conf)
			if err != nil {
				return fmt.Errorf("init logger failed: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			app, cleanup, err := wireApp(conf, logger)
			if err != nil {
				panic(err)
			}
			defer cleanup()

			logger.Info("start app ...")
			if err := app.Run(); err != nil {
				panic(err)
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info("shutdown app ...")
			ctx, cancel := context.WithTimeout(context.Background(), conf.App.ShutdownTimeout())
			defer cancel()

			if err := app.Stop(ctx); err != nil {
				logger.Error("shutdown app failed", zap.Error(err))
			}
		},
	}

	rootCmd.PersistentFlags().AddFlagSet(configFlags())

	command.Register(rootCmd,
		func() (*command.Command, func(), error) {
			return wireCommand(conf, logger)
		},
		func() *commandHandler.ReplayHandler {
			return commandHandler.NewReplayHandler(conf, logger)
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	useFile := false

	if envPath != "" {
		useFile = true
		envPath = path.Resolve(rootPath, envPath)
		fmt.Println("load .env config:", envPath)
		v.SetConfigFile(envPath)
		v.SetConfigType("env")
	} else if yamlPath != "" {
		useFile = true
		yamlPath = path.Resolve(filepath.Join(rootPath, "conf"), yamlPath)
		fmt.Println("load yaml config:", yamlPath)
		v.SetConfigFile(yamlPath)
		v.SetConfigType("yaml")
	} else {
		fmt.Println("No configuration file specified, using environment variables only.")
	}

	if useFile {
		if ok, _ := path.Exists(v.ConfigFileUsed()); !ok {
			panic(fmt.Errorf("config file not found: %s", v.ConfigFileUsed()))
		}
		if err := v.ReadInConfig(); err != nil {
			panic(fmt.Errorf("read config failed: %w", err))
		}
		v.WatchConfig()
		v.OnConfigChange(func(in fsnotify.Event) {
			fmt.Println("config file changed:", in.Name)
			if err := v.Unmarshal(&conf); err != nil {
				fmt.Println("unmarshal on change failed:", err)
			}
		})
	}

	bindEnvs(v, reflect.TypeOf(config.Configuration{}))

	if err := v.Unmarshal(&conf); err != nil {
		fmt.Println("unmarshal config failed:", err)
	}
	// 以 -ldflags "-X main.Version=..." 注入的版本優先
	if conf != nil && Version != "" {
		conf.App.Version = Version
	}
}
func bindEnvs(v *viper.Viper, t reflect.Type, path ...string) {
	// 若遇到指標，取其 Elem
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			tag = field.Name
		}
		newPath := append(path, tag)
		if field.Type.Kind() == reflect.Struct || (field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct) {
			bindEnvs(v, field.Type, newPath...)
		} else {
			v.BindEnv(strings.Join(newPath, "__"))
		}
	}
}
