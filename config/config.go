package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type DBConfig struct {
	Type    string `yaml:"type" json:"type"`
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Name    string `yaml:"name" json:"name"`
	User    string `yaml:"user" json:"user"`
	Passwd  string `yaml:"passwd" json:"passwd"`
	MaxConn int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int   `yaml:"idle_conn" json:"idle_conn"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SystemConfig `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LoggerConfig `yaml:"logger" json:"logger"`
}

// DefaultAppConfig is used when no config file is present
var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "MoticoBMS",
		Location: "Asia/Beirut",
		Workdir:  "/var/moticobms",
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1816,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "moticobms",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/moticobms/moticobms.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if value := os.Getenv(name); value != "" {
		f(value)
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			loaded := new(AppConfig)
			if err := yaml.Unmarshal(data, loaded); err == nil {
				cfg = loaded
			}
		}
	}

	setEnvValue("BMS_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("BMS_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("BMS_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("BMS_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("BMS_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("BMS_WEB_HOST", func(v string) { cfg.Web.Host = v })
	return cfg
}
