package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var replacer = strings.NewReplacer(".", "_", "-", "_")

type argType interface {
	string | bool | int | time.Duration | []string
}

// envName returns the environment variable bound to the flag.
func (b boundEnvVar[T]) envName() string {
	if b.Env != nil {
		return *b.Env
	}
	return strings.ToUpper(replacer.Replace(b.Name))
}

// envDefault overrides def with the explicitly named environment variable, when set.
func envDefault[T argType](cfg boundEnvVar[T], def T, get func(string) T) T {
	if cfg.Env == nil {
		return def
	}
	if _, found := os.LookupEnv(*cfg.Env); found {
		return get(*cfg.Env)
	}
	return def
}

func short[T argType](cfg boundEnvVar[T]) string {
	if cfg.Short == nil {
		return ""
	}
	return *cfg.Short
}

func bindEnvMap[T argType](cmd *cobra.Command, m map[*T]boundEnvVar[T]) {
	flags := cmd.PersistentFlags()
	for v, cfg := range m {
		desc := fmt.Sprintf("[%s] %s", cfg.envName(), cfg.Description)

		switch vt := any(v).(type) {
		case *string:
			def := envDefault(cfg, *v, func(env string) T { return any(os.Getenv(env)).(T) })
			flags.StringVarP(vt, cfg.Name, short(cfg), any(def).(string), desc)
		case *bool:
			def := envDefault(cfg, *v, func(env string) T { return any(viper.GetBool(env)).(T) })
			flags.BoolVarP(vt, cfg.Name, short(cfg), any(def).(bool), desc)
		case *int:
			if cfg.Counter {
				bindCounter(flags, vt, cfg.Name, short(cfg), desc)
				break
			}
			def := envDefault(cfg, *v, func(env string) T { return any(viper.GetInt(env)).(T) })
			flags.IntVarP(vt, cfg.Name, short(cfg), any(def).(int), desc)
		case *time.Duration:
			def := envDefault(cfg, *v, func(env string) T { return any(viper.GetDuration(env)).(T) })
			flags.DurationVarP(vt, cfg.Name, short(cfg), any(def).(time.Duration), desc)
		case *[]string:
			def := envDefault(cfg, *v, func(env string) T { return any(viper.GetStringSlice(env)).(T) })
			flags.StringSliceVarP(vt, cfg.Name, short(cfg), any(def).([]string), desc)
		default:
			log.Panicf("command-args parsing error: unhandled default case for type %T", vt)
		}

		_ = viper.BindPFlag(cfg.Name, flags.Lookup(cfg.Name))
		_ = viper.BindEnv(cfg.Name, cfg.envName())

		if cfg.Hidden {
			_ = flags.MarkHidden(cfg.Name)
		}
	}
}

// bindCounter registers a repeatable flag starting from the current value of v.
func bindCounter(flags *pflag.FlagSet, v *int, name, shorthand, desc string) {
	def := *v
	flags.CountVarP(v, name, shorthand, desc)
	_ = flags.Lookup(name).Value.Set(strconv.Itoa(def))
}
