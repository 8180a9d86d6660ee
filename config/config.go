package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// AppConfig is the top-level application configuration, loaded from YAML.
type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Database DBConfig       `yaml:"database" json:"database"`
	Logger   LogConfig      `yaml:"logger" json:"logger"`
	Smtp     SmtpConfig     `yaml:"smtp" json:"smtp"`
	Alerting AlertingConfig `yaml:"alerting" json:"alerting"`
}

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Secret  string `yaml:"secret" json:"secret"`
	JwtExpm int    `yaml:"jwt_expire_minutes" json:"jwt_expire_minutes"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	To       string `yaml:"to" json:"to"`
}

type AlertingConfig struct {
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`
	MailEnable bool   `yaml:"mail_enable" json:"mail_enable"`
}

// DefaultAppConfig provides a runnable development configuration.
var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "motofleet",
		Location: "America/Sao_Paulo",
		Workdir:  "/var/motofleet",
		Debug:    true,
	},
	Web: WebConfig{
		Host:    "0.0.0.0",
		Port:    1880,
		Secret:  "9b6de5cc-motofleet-b712-1baa5f47a34f",
		JwtExpm: 120,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "motofleet",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/motofleet/motofleet.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v, ok := os.LookupEnv(name); ok {
		f(v)
	}
}

// LoadConfig reads the YAML configuration file, falling back to defaults when
// the file does not exist. Environment variables override file values.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" && FileExists(cfile) {
		data, err := os.ReadFile(cfile)
		if err != nil {
			panic(err)
		}
		cfg = new(AppConfig)
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic(err)
		}
	}

	setEnvValue("MOTOFLEET_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("MOTOFLEET_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("MOTOFLEET_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("MOTOFLEET_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("MOTOFLEET_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("MOTOFLEET_DB_PWD", func(v string) { cfg.Database.Passwd = v })

	return cfg
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// InitDirs creates the runtime directory layout under the workdir.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0o755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0o755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "metrics"), 0o755)
}
