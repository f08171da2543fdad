package config

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBType     string `env:"DBType" envDefault:"sqlite"`
	DSNURL     string `env:"DSN_URL" envDefault:""`
	DBUser     string `env:"DBUser" envDefault:""`
	DBPassword string `env:"DBPassword" envDefault:""`
	DBAddr     string `env:"DBAddr" envDefault:""`
	DBName     string `env:"DBName" envDefault:"labelhub"`
	DBPath     string `env:"DBPath" envDefault:"datas/labelhub.db"`
	DBPort     string `env:"DBPort" envDefault:"3306"`

	// 会话
	SecretKey           string `env:"SECRET_KEY" envDefault:"dev-secret-change-me"`
	SessionIssuer       string `env:"SESSION_ISSUER" envDefault:"labelhub"`
	SessionTTLMinutes   int    `env:"SESSION_TTL_MINUTES" envDefault:"720"`
	SessionCookieName   string `env:"SESSION_COOKIE_NAME" envDefault:"labelhub_session"`
	SessionCookieSecure bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`

	StorageType          string `env:"STORAGE_TYPE" envDefault:"local"`
	StorageLocalDir      string `env:"STORAGE_LOCAL_DIR" envDefault:"datas/uploads"`
	StoragePublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"/files"`

	// 上传限制
	MaxUploadBytes            int64    `env:"MAX_UPLOAD_BYTES" envDefault:"16777216"`
	AllowedImageExtensions    []string `env:"ALLOWED_IMAGE_EXTENSIONS" envDefault:"jpg,jpeg,png,webp,gif" envSeparator:","`
	AllowedDocumentExtensions []string `env:"ALLOWED_DOCUMENT_EXTENSIONS" envDefault:"pdf,doc,docx,xls,xlsx,txt,zip,rar" envSeparator:","`

	// S3 兼容存储配置
	StorageS3Region          string `env:"STORAGE_S3_REGION"`
	StorageS3Bucket          string `env:"STORAGE_S3_BUCKET"`
	StorageS3Prefix          string `env:"STORAGE_S3_PREFIX"`
	StorageS3Endpoint        string `env:"STORAGE_S3_ENDPOINT"`
	StorageS3AccessKeyID     string `env:"STORAGE_S3_ACCESS_KEY_ID"`
	StorageS3SecretAccessKey string `env:"STORAGE_S3_SECRET_ACCESS_KEY"`
	StorageS3SessionToken    string `env:"STORAGE_S3_SESSION_TOKEN"`
	StorageS3ForcePathStyle  bool   `env:"STORAGE_S3_FORCE_PATH_STYLE" envDefault:"false"`

	// 阿里云 OSS 存储配置
	StorageOSSEndpoint        string `env:"STORAGE_OSS_ENDPOINT"`
	StorageOSSBucket          string `env:"STORAGE_OSS_BUCKET"`
	StorageOSSPrefix          string `env:"STORAGE_OSS_PREFIX"`
	StorageOSSAccessKeyID     string `env:"STORAGE_OSS_ACCESS_KEY_ID"`
	StorageOSSAccessKeySecret string `env:"STORAGE_OSS_ACCESS_KEY_SECRET"`

	// 腾讯云 COS 存储配置
	StorageCOSBucketURL string `env:"STORAGE_COS_BUCKET_URL"`
	StorageCOSPrefix    string `env:"STORAGE_COS_PREFIX"`
	StorageCOSSecretID  string `env:"STORAGE_COS_SECRET_ID"`
	StorageCOSSecretKey string `env:"STORAGE_COS_SECRET_KEY"`

	// Cloudflare R2 存储配置
	StorageR2AccountID       string `env:"STORAGE_R2_ACCOUNT_ID"`
	StorageR2Endpoint        string `env:"STORAGE_R2_ENDPOINT"`
	StorageR2Region          string `env:"STORAGE_R2_REGION" envDefault:"auto"`
	StorageR2Bucket          string `env:"STORAGE_R2_BUCKET"`
	StorageR2Prefix          string `env:"STORAGE_R2_PREFIX"`
	StorageR2AccessKeyID     string `env:"STORAGE_R2_ACCESS_KEY_ID"`
	StorageR2SecretAccessKey string `env:"STORAGE_R2_SECRET_ACCESS_KEY"`

	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"12"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"100"`

	// 初始管理员，仅在用户表为空时创建
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@labelhub.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:""`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// ParseConfig loads an optional .env file and then parses the environment.
func ParseConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	Conf.AllowedImageExtensions = normalizeExtensions(Conf.AllowedImageExtensions)
	Conf.AllowedDocumentExtensions = normalizeExtensions(Conf.AllowedDocumentExtensions)
	logrus.Debugf("%#v\n", Conf.redacted())
	return Conf, nil
}

func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

func (c Config) redacted() Config {
	c.SecretKey = "***"
	c.DBPassword = "***"
	c.AdminPassword = "***"
	c.StorageS3SecretAccessKey = "***"
	c.StorageOSSAccessKeySecret = "***"
	c.StorageCOSSecretKey = "***"
	c.StorageR2SecretAccessKey = "***"
	return c
}
