package config

import (
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr        string
	DBUrl       string
	TokenSecret string
	TokenTTL    time.Duration
	Debug       bool
}

// ParseFlags builds the configuration from command line flags, optionally
// layered over a YAML file named by -config. Flags set on the command line
// win over file values.
func ParseFlags() (Config, error) {
	return parse(flag.CommandLine, os.Args[1:])
}

type fileConfig struct {
	Host        *string `yaml:"host"`
	Port        *uint   `yaml:"port"`
	DBUrl       *string `yaml:"db_url"`
	TokenSecret *string `yaml:"token_secret"`
	TokenTTL    *uint   `yaml:"token_ttl"`
	Debug       *bool   `yaml:"debug"`
}

func parse(fs *flag.FlagSet, args []string) (cfg Config, err error) {
	var host string
	fs.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	fs.UintVar(&port, "port", 8080, "listen port number (default 8080)")
	fs.StringVar(&cfg.DBUrl, "db-url", "dynform.sqlite", "path to SQLite3 DB file (default dynform.sqlite)")
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for admin token encryption and decryption")
	var ttl uint
	fs.UintVar(&ttl, "token-ttl", 120, "token TTL in seconds (default 120)")
	var file string
	fs.StringVar(&file, "config", "", "path to optional YAML config file")
	fs.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	err = fs.Parse(args)
	if err != nil {
		return
	}

	if file != "" {
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

		var fc fileConfig
		fc, err = loadFile(file)
		if err != nil {
			return
		}
		if fc.Host != nil && !set["host"] {
			host = *fc.Host
		}
		if fc.Port != nil && !set["port"] {
			port = *fc.Port
		}
		if fc.DBUrl != nil && !set["db-url"] {
			cfg.DBUrl = *fc.DBUrl
		}
		if fc.TokenSecret != nil && !set["token-secret"] {
			cfg.TokenSecret = *fc.TokenSecret
		}
		if fc.TokenTTL != nil && !set["token-ttl"] {
			ttl = *fc.TokenTTL
		}
		if fc.Debug != nil && !set["debug"] {
			cfg.Debug = *fc.Debug
		}
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second
	return
}

func loadFile(path string) (fc fileConfig, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	err = yaml.Unmarshal(raw, &fc)
	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
