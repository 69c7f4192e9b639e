package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// 利用できるストレージドライバです。
const (
	StorageDriverPostgres = "postgres"
	StorageDriverBadger   = "badger"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Badger    BadgerConfig    `yaml:"badger"`
	Log       LogConfig       `yaml:"log"`
	Promotion PromotionConfig `yaml:"promotion"`
	Audit     AuditConfig     `yaml:"audit"`
}

// ServerConfig は gRPC サーバーに関する設定です。MetricsAddr が空なら /metrics を公開しません。
type ServerConfig struct {
	ListenAddr  string `yaml:"listen_addr" validate:"required"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// StorageConfig は社員レコードと監査ログの保存先を選択します。
type StorageConfig struct {
	Driver string `yaml:"driver"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host            string        `yaml:"host" validate:"required"`
	Port            int           `yaml:"port" validate:"required,min=1,max=65535"`
	User            string        `yaml:"user" validate:"required"`
	Password        string        `yaml:"password" validate:"required"`
	Name            string        `yaml:"name" validate:"required"`
	SSLMode         string        `yaml:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	ApplicationName string        `yaml:"application_name"`
	QueryLogLevel   string        `yaml:"query_log_level" validate:"omitempty,oneof=trace debug info warn error none"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// BadgerConfig は組み込み KV ストアに関する設定です。
type BadgerConfig struct {
	Path       string `yaml:"path" validate:"required_unless=InMemory true"`
	InMemory   bool   `yaml:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level       string   `yaml:"level"`
	Format      string   `yaml:"format" validate:"omitempty,oneof=json console"`
	OutputPaths []string `yaml:"output_paths"`
}

// PromotionConfig は昇進判定に用いる必須スキルです。
type PromotionConfig struct {
	RequiredTechnical []string `yaml:"required_technical" validate:"required_without=RequiredSoft"`
	RequiredSoft      []string `yaml:"required_soft"`
}

// AuditConfig は監査ログのテキストミラーに関する設定です。空の場合はミラーしません。
type AuditConfig struct {
	FilePath string `yaml:"file_path"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Load は指定されたパスから設定ファイルを読み込みます。
// ファイル中の ${NAME} と ${NAME:-default} は環境変数で置き換えられ、未知のキーはエラーになります。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewBufferString(os.Expand(string(b), lookupEnv)))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func lookupEnv(ref string) string {
	name, fallback, _ := strings.Cut(ref, ":-")
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func (c *Config) validateAndNormalize() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	c.Database.SSLMode = strings.ToLower(strings.TrimSpace(c.Database.SSLMode))
	c.Database.QueryLogLevel = strings.ToLower(strings.TrimSpace(c.Database.QueryLogLevel))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))

	sections := []section{{"server", c.Server}, {"log", c.Log}, {"promotion", c.Promotion}}
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		sections = append(sections, section{"database", c.Database})
	case StorageDriverBadger:
		sections = append(sections, section{"badger", c.Badger})
	default:
		return fmt.Errorf("config: storage.driver %q is not supported", c.Storage.Driver)
	}
	for _, sec := range sections {
		if err := sec.validate(); err != nil {
			return err
		}
	}

	c.applyDefaults()
	return nil
}

// section は検証対象の設定ブロックです。name はエラーメッセージのキー接頭辞になります。
type section struct {
	name string
	v    any
}

func (s section) validate() error {
	err := validate.Struct(s.v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %s: %w", s.name, err)
	}

	fe := verrs[0]
	key := s.name + "." + fe.Field()
	switch fe.Tag() {
	case "required", "required_unless", "required_without":
		return fmt.Errorf("config: %s must be set", key)
	case "oneof":
		return fmt.Errorf("config: %s %q is not supported", key, fe.Value())
	default:
		return fmt.Errorf("config: %s is invalid (%s=%s)", key, fe.Tag(), fe.Param())
	}
}

func (c *Config) applyDefaults() {
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.QueryLogLevel == "" {
		c.Database.QueryLogLevel = "error"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stderr"}
	}
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	if d.ApplicationName != "" {
		q.Set("application_name", d.ApplicationName)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
