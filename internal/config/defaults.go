package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "~/.agenda")
	v.SetDefault("theme", "classic")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("timer.suppress_window", time.Second)
	v.SetDefault("timer.extend_small", time.Minute)
	v.SetDefault("timer.extend_large", 5*time.Minute)

	v.SetDefault("title.default", "agenda")
	v.SetDefault("title.alert", "⏰ Time's up!")

	v.SetDefault("notifications.mode", "ask")
	v.SetDefault("notifications.icon", "alarm-clock")

	v.SetDefault("alarm.command", "")
}
